package schema

import (
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/reflect/protoreflect"
)

const anyFullName = "google.protobuf.Any"

// FileSchema groups one input file's top-level declarations. Message
// bodies live in the arena; the file keeps refs in declaration order.
type FileSchema struct {
	Path     string
	Package  string
	Syntax   Syntax
	Messages []MessageRef
	Enums    []*EnumSchema
}

// Build constructs the arena for one plugin run. Every file in the
// request participates, dependencies included: imported types must be
// resolvable for storage and required-field analysis even when their
// files generate nothing. The returned FileSchema slice is parallel to
// files.
//
// Registration runs in two passes so mutually recursive message types
// resolve by ref: first every message shell is appended to the arena,
// then fields are filled against the complete name index. Finalize and
// the arena-wide required-field resolution run last.
func Build(files []*protogen.File) (*Arena, []*FileSchema, error) {
	a := NewArena()
	out := make([]*FileSchema, 0, len(files))

	for _, f := range files {
		fs := &FileSchema{
			Path:    f.Desc.Path(),
			Package: string(f.Desc.Package()),
			Syntax:  syntaxOf(f.Desc.Syntax()),
		}
		for _, m := range f.Messages {
			ref, ok := registerMessage(a, m, fs.Syntax)
			if ok {
				fs.Messages = append(fs.Messages, ref)
			}
		}
		for _, e := range f.Enums {
			es := buildEnum(e, fs.Package, fs.Syntax)
			a.AppendEnum(es)
			fs.Enums = append(fs.Enums, es)
		}
		out = append(out, fs)
	}

	for _, f := range files {
		for _, m := range f.Messages {
			if err := fillMessage(a, m); err != nil {
				return nil, nil, err
			}
		}
	}

	for _, m := range a.messages {
		m.Finalize()
	}
	a.resolveRequired()
	return a, out, nil
}

// registerMessage appends the shell of m and, recursively, of its nested
// messages. Map entry synthetics never register; their key/value facts
// are absorbed into the owning map field.
func registerMessage(a *Arena, m *protogen.Message, syntax Syntax) (MessageRef, bool) {
	if m.Desc.IsMapEntry() {
		return RefNone, false
	}
	fullName := string(m.Desc.FullName())
	ms := &MessageSchema{
		Name:           string(m.Desc.Name()),
		FullName:       fullName,
		Package:        string(m.Desc.ParentFile().Package()),
		Syntax:         syntax,
		IsWellKnownAny: fullName == anyFullName,
	}
	ranges := m.Desc.ExtensionRanges()
	for i := 0; i < ranges.Len(); i++ {
		r := ranges.Get(i)
		ms.ExtensionIntervals = append(ms.ExtensionIntervals, ExtensionInterval{
			Start: int32(r[0]),
			End:   int32(r[1]),
		})
	}
	ref := a.Append(ms)
	for _, nested := range m.Messages {
		if childRef, ok := registerMessage(a, nested, syntax); ok {
			ms.Messages = append(ms.Messages, childRef)
		}
	}
	for _, e := range m.Enums {
		es := buildEnum(e, ms.Package, syntax)
		a.AppendEnum(es)
		ms.Enums = append(ms.Enums, es)
	}
	return ref, true
}

// fillMessage populates fields and oneofs of m and recurses into nested
// messages. Runs after every shell is registered so type refs resolve.
func fillMessage(a *Arena, m *protogen.Message) error {
	if m.Desc.IsMapEntry() {
		return nil
	}
	ref, ok := a.Lookup(string(m.Desc.FullName()))
	if !ok {
		return &Error{FullName: string(m.Desc.FullName()), Detail: "message not registered"}
	}
	ms := a.Message(ref)

	oneofs := make(map[*protogen.Oneof]*OneofSchema)
	for _, o := range m.Oneofs {
		if o.Desc.IsSynthetic() {
			continue
		}
		os := &OneofSchema{Name: string(o.Desc.Name())}
		oneofs[o] = os
		ms.Oneofs = append(ms.Oneofs, os)
	}

	for _, f := range m.Fields {
		fs := buildField(a, f, oneofs)
		ms.Fields = append(ms.Fields, fs)
		if fs.Oneof != nil {
			fs.Oneof.Fields = append(fs.Oneof.Fields, fs)
		}
	}

	for _, nested := range m.Messages {
		if err := fillMessage(a, nested); err != nil {
			return err
		}
	}
	return nil
}

func buildField(a *Arena, f *protogen.Field, oneofs map[*protogen.Oneof]*OneofSchema) *FieldSchema {
	desc := f.Desc
	fs := &FieldSchema{
		Name:           string(desc.Name()),
		Number:         int32(desc.Number()),
		Label:          labelOf(desc.Cardinality()),
		Proto:          desc.Kind(),
		Proto3Optional: desc.HasOptionalKeyword(),
		IsPacked:       desc.IsPacked(),
		TypeRef:        RefNone,
		MapValueRef:    RefNone,
	}

	switch {
	case desc.IsMap():
		fs.Kind = KindMap
		fs.MapKey = desc.MapKey().Kind()
		fs.MapValue = desc.MapValue().Kind()
		switch fs.MapValue {
		case protoreflect.MessageKind:
			fs.MapValueTypeName = string(desc.MapValue().Message().FullName())
			if ref, ok := a.Lookup(fs.MapValueTypeName); ok {
				fs.MapValueRef = ref
			}
		case protoreflect.EnumKind:
			fs.MapValueTypeName = string(desc.MapValue().Enum().FullName())
		}
	case desc.Kind() == protoreflect.MessageKind:
		fs.Kind = KindMessage
		fs.TypeName = string(f.Message.Desc.FullName())
		if ref, ok := a.Lookup(fs.TypeName); ok {
			fs.TypeRef = ref
		}
	case desc.Kind() == protoreflect.GroupKind:
		fs.Kind = KindGroup
		fs.TypeName = string(f.Message.Desc.FullName())
		if ref, ok := a.Lookup(fs.TypeName); ok {
			fs.TypeRef = ref
		}
	case desc.Kind() == protoreflect.EnumKind:
		fs.Kind = KindEnum
		fs.TypeName = string(f.Enum.Desc.FullName())
	default:
		fs.Kind = KindScalar
	}

	if f.Oneof != nil && !f.Oneof.Desc.IsSynthetic() {
		fs.Oneof = oneofs[f.Oneof]
	}
	return fs
}

func buildEnum(e *protogen.Enum, pkg string, syntax Syntax) *EnumSchema {
	es := &EnumSchema{
		Name:     string(e.Desc.Name()),
		FullName: string(e.Desc.FullName()),
		Package:  pkg,
		Syntax:   syntax,
	}
	values := e.Desc.Values()
	for i := 0; i < values.Len(); i++ {
		v := values.Get(i)
		es.Values = append(es.Values, EnumValue{
			Name:   string(v.Name()),
			Number: int32(v.Number()),
		})
	}
	return es
}

func syntaxOf(s protoreflect.Syntax) Syntax {
	if s == protoreflect.Proto3 {
		return SyntaxProto3
	}
	return SyntaxProto2
}

func labelOf(c protoreflect.Cardinality) Label {
	switch c {
	case protoreflect.Required:
		return LabelRequired
	case protoreflect.Repeated:
		return LabelRepeated
	default:
		return LabelOptional
	}
}
