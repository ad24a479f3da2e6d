package schema

import (
	"fmt"

	"github.com/samber/lo"
)

// StorageDecision picks the in-memory representation of a compiled
// message: fields inline in the struct, or behind a shared heap storage
// class with copy-on-write handoff.
type StorageDecision int

const (
	StorageInline StorageDecision = iota
	StorageIndirected
)

func (d StorageDecision) String() string {
	switch d {
	case StorageInline:
		return "inline"
	case StorageIndirected:
		return "indirected"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// StorageFieldThreshold is the field count above which a message moves
// behind indirected storage. The value is an inherited heuristic: it
// bounds the copy cost of large value-type messages, it was never
// derived from measurement here. Tune it, don't recompute it.
const StorageFieldThreshold = 16

// DecideStorage selects the representation strategy.
//
// Indirected when the message is the well-known Any (always, it gets the
// specialized storage), when the field count exceeds the threshold, or
// when any singular field holds a message or group value: such fields
// recursively multiply copy cost, so the state moves behind a
// reference-counted handle and copying becomes a handle swap until a
// divergent mutation. Repeated and map fields stay out of the check;
// their containers already own independent copy semantics.
func DecideStorage(fields []*FieldSchema, isAny bool) StorageDecision {
	if isAny {
		return StorageIndirected
	}
	if len(fields) > StorageFieldThreshold {
		return StorageIndirected
	}
	singularMessage := lo.SomeBy(fields, func(f *FieldSchema) bool {
		return f.IsMessageKind() && f.Label != LabelRepeated
	})
	if singularMessage {
		return StorageIndirected
	}
	return StorageInline
}
