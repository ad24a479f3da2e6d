package schema

// MessageRef addresses a message inside an Arena. Message-typed fields
// and nested-message lists hold refs instead of pointers so mutually
// recursive schema types never form ownership cycles.
type MessageRef int

// RefNone marks a type outside the arena (imported enums, unresolved
// placeholders while building).
const RefNone MessageRef = -1

// Arena owns every MessageSchema of one plugin run, addressed by dense
// index. Append-only during Build, read-only afterward.
type Arena struct {
	messages []*MessageSchema
	byName   map[string]MessageRef
	enums    map[string]*EnumSchema
}

func NewArena() *Arena {
	return &Arena{
		byName: make(map[string]MessageRef),
		enums:  make(map[string]*EnumSchema),
	}
}

// Append registers m and returns its ref.
func (a *Arena) Append(m *MessageSchema) MessageRef {
	ref := MessageRef(len(a.messages))
	a.messages = append(a.messages, m)
	a.byName[m.FullName] = ref
	return ref
}

// Message resolves ref. Nil for RefNone.
func (a *Arena) Message(ref MessageRef) *MessageSchema {
	if ref == RefNone {
		return nil
	}
	return a.messages[ref]
}

// Lookup finds a registered message by full proto name.
func (a *Arena) Lookup(fullName string) (MessageRef, bool) {
	ref, ok := a.byName[fullName]
	return ref, ok
}

// Messages returns every registered message in registration order. The
// slice is shared, callers must not mutate it.
func (a *Arena) Messages() []*MessageSchema {
	return a.messages
}

func (a *Arena) AppendEnum(e *EnumSchema) {
	a.enums[e.FullName] = e
}

// LookupEnum finds a registered enum by full proto name.
func (a *Arena) LookupEnum(fullName string) (*EnumSchema, bool) {
	e, ok := a.enums[fullName]
	return e, ok
}

func (a *Arena) Len() int {
	return len(a.messages)
}
