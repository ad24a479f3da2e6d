package schema

import (
	"fmt"

	"github.com/samber/lo"
)

// Error reports a schema invariant violation. Violations are descriptor
// bugs or builder bugs; either way generation must not proceed.
type Error struct {
	FullName string
	Field    string
	Detail   string
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema %s: field %q: %s", e.FullName, e.Field, e.Detail)
	}
	return fmt.Sprintf("schema %s: %s", e.FullName, e.Detail)
}

// Validate checks every registered message. First violation wins.
func (a *Arena) Validate() error {
	for _, m := range a.messages {
		if err := validateMessage(m); err != nil {
			return err
		}
	}
	return nil
}

// validateMessage enforces the structural invariants emission relies on:
// field numbers unique and positive, extension intervals well-formed,
// ascending, pairwise disjoint, and disjoint from every declared field
// number, oneof links consistent in both directions.
func validateMessage(m *MessageSchema) error {
	seen := make(map[int32]string, len(m.Fields))
	for _, f := range m.Fields {
		if f.Number <= 0 {
			return &Error{FullName: m.FullName, Field: f.Name, Detail: fmt.Sprintf("field number %d must be positive", f.Number)}
		}
		if prev, ok := seen[f.Number]; ok {
			return &Error{FullName: m.FullName, Field: f.Name, Detail: fmt.Sprintf("field number %d already used by %q", f.Number, prev)}
		}
		seen[f.Number] = f.Name
		if f.Oneof != nil {
			if !lo.Contains(m.Oneofs, f.Oneof) {
				return &Error{FullName: m.FullName, Field: f.Name, Detail: "field links a oneof the message does not declare"}
			}
			if !lo.Contains(f.Oneof.Fields, f) {
				return &Error{FullName: m.FullName, Field: f.Name, Detail: fmt.Sprintf("oneof %q does not list its member", f.Oneof.Name)}
			}
		}
	}
	for _, o := range m.Oneofs {
		for _, f := range o.Fields {
			if f.Oneof != o {
				return &Error{FullName: m.FullName, Field: f.Name, Detail: fmt.Sprintf("oneof %q lists a field that does not link back", o.Name)}
			}
		}
	}

	var prev *ExtensionInterval
	for i := range m.ExtensionIntervals {
		iv := m.ExtensionIntervals[i]
		if iv.Start <= 0 || iv.End <= iv.Start {
			return &Error{FullName: m.FullName, Detail: fmt.Sprintf("malformed extension interval %s", iv)}
		}
		if prev != nil && iv.Start < prev.End {
			return &Error{FullName: m.FullName, Detail: fmt.Sprintf("extension interval %s overlaps %s", iv, *prev)}
		}
		for _, f := range m.Fields {
			if iv.Contains(f.Number) {
				return &Error{FullName: m.FullName, Field: f.Name, Detail: fmt.Sprintf("field number %d falls inside extension interval %s", f.Number, iv)}
			}
		}
		prev = &m.ExtensionIntervals[i]
	}
	return nil
}
