// Package schema holds the normalized description of message types that
// drives emission. Schemas are built once per plugin run from the
// descriptor set, validated, then never mutated; they exist only to be
// compiled, not to execute at runtime.
package schema

import (
	"fmt"

	"github.com/samber/lo"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/noom/swift-protobuf/internal/help"
)

type Syntax int

const (
	SyntaxProto2 Syntax = iota
	SyntaxProto3
)

func (s Syntax) String() string {
	switch s {
	case SyntaxProto2:
		return "proto2"
	case SyntaxProto3:
		return "proto3"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

type Label int

const (
	LabelOptional Label = iota
	LabelRequired
	LabelRepeated
)

func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// FieldKind is the coarse classification placement decisions run on.
// Scalar covers every numeric/bool/string/bytes kind; the precise wire
// kind stays in FieldSchema.Proto for codec-call selection.
type FieldKind int

const (
	KindScalar FieldKind = iota
	KindEnum
	KindMessage
	KindGroup
	KindMap
)

func (k FieldKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEnum:
		return "enum"
	case KindMessage:
		return "message"
	case KindGroup:
		return "group"
	case KindMap:
		return "map"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// FieldSchema describes one declared field.
type FieldSchema struct {
	Name   string // proto name (snake_case)
	Number int32
	Label  Label
	Kind   FieldKind
	Proto  protoreflect.Kind // precise kind: Int32Kind, SInt32Kind, ...

	// Oneof points at the containing oneof group, nil for plain fields.
	// Synthetic oneofs backing proto3 optionals are never linked.
	Oneof          *OneofSchema
	Proto3Optional bool
	IsPacked       bool

	// TypeName / TypeRef identify the message or enum type of
	// message/group/enum fields. TypeRef is RefNone for enum fields and
	// for types outside the compiled descriptor set.
	TypeName string
	TypeRef  MessageRef

	// Map entry facts, set when Kind == KindMap.
	MapKey           protoreflect.Kind
	MapValue         protoreflect.Kind
	MapValueTypeName string
	MapValueRef      MessageRef

	// HasRequired mirrors HasRequiredFieldsTransitively of the message
	// type values of this field reach: the field's own type for
	// message/group fields, the value type for maps, false for every
	// other kind. Resolved over the arena after every schema registers.
	HasRequired bool

	// syntax is stamped from the owning message by Finalize so presence
	// rules do not need the parent at every call site.
	syntax Syntax
}

// IsMessageKind reports whether the field holds a message or group value
// directly (maps hold theirs through the entry type and report false).
func (f *FieldSchema) IsMessageKind() bool {
	return f.Kind == KindMessage || f.Kind == KindGroup
}

// ReachesMessages reports whether decoded values of this field contain
// message instances: direct message/group fields and maps with
// message-typed values.
func (f *FieldSchema) ReachesMessages() bool {
	return f.IsMessageKind() || (f.Kind == KindMap && f.MapValue == protoreflect.MessageKind)
}

// ExplicitPresence reports whether the field tracks set/unset state
// distinct from its default value.
func (f *FieldSchema) ExplicitPresence() bool {
	if f.Label == LabelRepeated || f.Oneof != nil {
		return false
	}
	return f.Label == LabelRequired || f.Proto3Optional || f.IsMessageKind() || f.syntax == SyntaxProto2
}

// OneofSchema describes one oneof group.
type OneofSchema struct {
	Name   string
	Fields []*FieldSchema // declaration order

	// ContinuousInParent is true iff the member numbers form one unbroken
	// run in the parent's number-sorted field list. Resolved by Finalize.
	ContinuousInParent bool
}

// FieldsSortedByNumber returns the members as a fresh number-sorted view.
func (o *OneofSchema) FieldsSortedByNumber() []*FieldSchema {
	return help.SortedCopy(o.Fields, func(a, b *FieldSchema) bool { return a.Number < b.Number })
}

// MemberNumbers returns the member field numbers in ascending order.
func (o *OneofSchema) MemberNumbers() []int32 {
	return lo.Map(o.FieldsSortedByNumber(), func(f *FieldSchema, _ int) int32 { return f.Number })
}

// ExtensionInterval is one reserved extension number range, start
// inclusive, end exclusive.
type ExtensionInterval struct {
	Start int32
	End   int32
}

func (i ExtensionInterval) Contains(n int32) bool {
	return i.Start <= n && n < i.End
}

func (i ExtensionInterval) String() string {
	return fmt.Sprintf("[%d,%d)", i.Start, i.End)
}

type EnumValue struct {
	Name   string
	Number int32
}

type EnumSchema struct {
	Name     string
	FullName string
	Package  string
	Syntax   Syntax
	Values   []EnumValue
}

// MessageSchema is the unit of compilation.
type MessageSchema struct {
	Name     string // simple declared name
	FullName string // pkg.Outer.Name
	Package  string
	Syntax   Syntax

	Fields             []*FieldSchema // declaration order
	Oneofs             []*OneofSchema
	ExtensionIntervals []ExtensionInterval // ascending, disjoint

	Messages []MessageRef // nested messages, declaration order
	Enums    []*EnumSchema

	IsWellKnownAny bool

	// Storage is the placement decision, resolved by Finalize.
	Storage StorageDecision

	// hasRequired caches the transitive required-field answer for this
	// type; resolved arena-wide after registration.
	hasRequired bool

	sortedFields []*FieldSchema
}

// IsExtensible reports whether the message reserves extension numbers.
func (m *MessageSchema) IsExtensible() bool {
	return len(m.ExtensionIntervals) > 0
}

// HasRequiredFieldsTransitively reports whether values of this type can
// ever be incomplete: a required field here, a (transitively) required
// field behind any message-typed reach, or extension numbers that could
// carry required fields.
func (m *MessageSchema) HasRequiredFieldsTransitively() bool {
	return m.hasRequired
}

// FieldsSortedByNumber returns the number-sorted permutation of Fields.
// The view is cached by Finalize; before that a fresh copy is computed.
func (m *MessageSchema) FieldsSortedByNumber() []*FieldSchema {
	if m.sortedFields != nil {
		return m.sortedFields
	}
	return help.SortedCopy(m.Fields, func(a, b *FieldSchema) bool { return a.Number < b.Number })
}

// Finalize resolves every derived fact that only depends on the message
// itself: the cached number-sorted view, each oneof's ContinuousInParent,
// the field syntax stamps, and the storage decision. Build calls it for
// every registered message; hand-assembled schemas in tests call it
// directly.
func (m *MessageSchema) Finalize() {
	for _, f := range m.Fields {
		f.syntax = m.Syntax
	}
	m.sortedFields = help.SortedCopy(m.Fields, func(a, b *FieldSchema) bool { return a.Number < b.Number })
	for _, o := range m.Oneofs {
		o.ContinuousInParent = m.oneofContinuous(o)
	}
	m.Storage = DecideStorage(m.Fields, m.IsWellKnownAny)
}

// oneofContinuous checks whether the oneof occupies one unbroken run of
// the number-sorted field list. Interleaving with any other field,
// including another oneof's members, breaks the run.
func (m *MessageSchema) oneofContinuous(o *OneofSchema) bool {
	first, last, count := -1, -1, 0
	for pos, f := range m.FieldsSortedByNumber() {
		if f.Oneof != o {
			continue
		}
		if first < 0 {
			first = pos
		}
		last = pos
		count++
	}
	return count > 0 && last-first+1 == count
}
