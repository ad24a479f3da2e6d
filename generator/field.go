package generator

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// scalarSwiftType maps a wire kind onto the Swift value type carrying
// it. Signedness and fixed-width variants collapse onto the same Swift
// integer; the distinction survives in the codec call stem.
func scalarSwiftType(k protoreflect.Kind) string {
	switch k {
	case protoreflect.BoolKind:
		return "Bool"
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return "Int32"
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return "UInt32"
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return "Int64"
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return "UInt64"
	case protoreflect.FloatKind:
		return "Float"
	case protoreflect.DoubleKind:
		return "Double"
	case protoreflect.StringKind:
		return "String"
	case protoreflect.BytesKind:
		return "Data"
	default:
		return ""
	}
}

// protoStem selects the middle of a runtime codec call name:
// decodeSingular<stem>Field, visitRepeated<stem>Field and so on.
func protoStem(k protoreflect.Kind) string {
	switch k {
	case protoreflect.BoolKind:
		return "Bool"
	case protoreflect.Int32Kind:
		return "Int32"
	case protoreflect.Sint32Kind:
		return "SInt32"
	case protoreflect.Sfixed32Kind:
		return "SFixed32"
	case protoreflect.Uint32Kind:
		return "UInt32"
	case protoreflect.Fixed32Kind:
		return "Fixed32"
	case protoreflect.Int64Kind:
		return "Int64"
	case protoreflect.Sint64Kind:
		return "SInt64"
	case protoreflect.Sfixed64Kind:
		return "SFixed64"
	case protoreflect.Uint64Kind:
		return "UInt64"
	case protoreflect.Fixed64Kind:
		return "Fixed64"
	case protoreflect.FloatKind:
		return "Float"
	case protoreflect.DoubleKind:
		return "Double"
	case protoreflect.StringKind:
		return "String"
	case protoreflect.BytesKind:
		return "Bytes"
	case protoreflect.EnumKind:
		return "Enum"
	case protoreflect.MessageKind:
		return "Message"
	case protoreflect.GroupKind:
		return "Group"
	default:
		return ""
	}
}

// fieldGen emits the per-field fragments of a message: the stored or
// computed property, the decode and visit calls, presence guards and
// comparison operands. One instance serves one field.
type fieldGen struct {
	f     *schema.FieldSchema
	namer *Namer
	vis   string
}

func newFieldGen(f *schema.FieldSchema, namer *Namer, vis Visibility) *fieldGen {
	return &fieldGen{f: f, namer: namer, vis: vis.Prefix()}
}

// swiftBaseType is the element type: no repeated wrapper, no presence
// optional.
func (g *fieldGen) swiftBaseType() string {
	f := g.f
	switch f.Kind {
	case schema.KindMessage, schema.KindGroup:
		return g.namer.MessageTypeName(f.TypeName)
	case schema.KindEnum:
		return g.namer.EnumTypeName(f.TypeName)
	case schema.KindMap:
		return fmt.Sprintf("Dictionary<%s,%s>", scalarSwiftType(f.MapKey), g.mapValueType())
	default:
		return scalarSwiftType(f.Proto)
	}
}

func (g *fieldGen) mapValueType() string {
	switch g.f.MapValue {
	case protoreflect.MessageKind:
		return g.namer.MessageTypeName(g.f.MapValueTypeName)
	case protoreflect.EnumKind:
		return g.namer.EnumTypeName(g.f.MapValueTypeName)
	default:
		return scalarSwiftType(g.f.MapValue)
	}
}

// swiftType is the declared property type.
func (g *fieldGen) swiftType() string {
	if g.f.Kind != schema.KindMap && g.f.Label == schema.LabelRepeated {
		return "[" + g.swiftBaseType() + "]"
	}
	return g.swiftBaseType()
}

// defaultExpr is the value an unset field reads as.
func (g *fieldGen) defaultExpr() string {
	f := g.f
	if f.Kind == schema.KindMap {
		return "[:]"
	}
	if f.Label == schema.LabelRepeated {
		return "[]"
	}
	switch f.Kind {
	case schema.KindMessage, schema.KindGroup:
		return g.swiftBaseType() + "()"
	case schema.KindEnum:
		return g.namer.EnumDefaultCase(f.TypeName)
	}
	switch f.Proto {
	case protoreflect.BoolKind:
		return "false"
	case protoreflect.StringKind:
		return "String()"
	case protoreflect.BytesKind:
		return "Data()"
	default:
		return "0"
	}
}

// notDefault is the guard deciding whether an implicit-presence field
// appears on the wire.
func (g *fieldGen) notDefault(expr string) string {
	f := g.f
	if f.Label == schema.LabelRepeated {
		return "!" + expr + ".isEmpty"
	}
	switch {
	case f.Kind == schema.KindEnum:
		return expr + " != " + g.defaultExpr()
	case f.Proto == protoreflect.StringKind, f.Proto == protoreflect.BytesKind:
		return "!" + expr + ".isEmpty"
	case f.Proto == protoreflect.BoolKind:
		return expr + " != false"
	default:
		return expr + " != 0"
	}
}

// readAccess is the expression reading the field's stored value inside
// runtime methods.
func (g *fieldGen) readAccess(inStorage bool) string {
	if inStorage {
		return "_storage." + g.namer.StorageProperty(g.f)
	}
	if g.f.ExplicitPresence() {
		return "self." + g.namer.StorageProperty(g.f)
	}
	return "self." + g.namer.Property(g.f)
}

// comparand is the member compared by ==: the backing slot for
// explicit-presence fields, the visible property otherwise. Comparing
// slots keeps set-to-default distinguishable from unset.
func (g *fieldGen) comparand(inStorage bool) string {
	if inStorage || g.f.ExplicitPresence() {
		return g.namer.StorageProperty(g.f)
	}
	return g.namer.Property(g.f)
}

// decodeCall is the dispatcher line consuming one wire value.
func (g *fieldGen) decodeCall(inStorage bool) string {
	target := "&" + g.readAccess(inStorage)
	switch {
	case g.f.Kind == schema.KindMap:
		return "try decoder.decodeMapField(value: " + target + ")"
	case g.f.Label == schema.LabelRepeated:
		return "try decoder.decodeRepeated" + protoStem(g.f.Proto) + "Field(value: " + target + ")"
	default:
		return "try decoder.decodeSingular" + protoStem(g.f.Proto) + "Field(value: " + target + ")"
	}
}

// emitTraverse writes the visit block of one non-oneof field.
func (g *fieldGen) emitTraverse(p *swift.Printer, inStorage bool) {
	f := g.f
	src := g.readAccess(inStorage)
	switch {
	case f.Kind == schema.KindMap:
		p.P("if !", src, ".isEmpty {")
		p.In()
		p.P("try visitor.visitMapField(value: ", src, ", fieldNumber: ", f.Number, ")")
		p.Out()
		p.P("}")
	case f.Label == schema.LabelRepeated:
		verb := "visitRepeated"
		if f.IsPacked {
			verb = "visitPacked"
		}
		p.P("if !", src, ".isEmpty {")
		p.In()
		p.P("try visitor.", verb, protoStem(f.Proto), "Field(value: ", src, ", fieldNumber: ", f.Number, ")")
		p.Out()
		p.P("}")
	case f.ExplicitPresence():
		p.P("if let v = ", src, " {")
		p.In()
		p.P("try visitor.visitSingular", protoStem(f.Proto), "Field(value: v, fieldNumber: ", f.Number, ")")
		p.Out()
		p.P("}")
	default:
		p.P("if ", g.notDefault(src), " {")
		p.In()
		p.P("try visitor.visitSingular", protoStem(f.Proto), "Field(value: ", src, ", fieldNumber: ", f.Number, ")")
		p.Out()
		p.P("}")
	}
}

// emitInlineProperty writes the declared property of an inline message,
// plus has/clear when the field tracks presence.
func (g *fieldGen) emitInlineProperty(p *swift.Printer) {
	f := g.f
	name := g.namer.Property(f)
	if !f.ExplicitPresence() {
		p.P(g.vis, "var ", name, ": ", g.swiftType(), " = ", g.defaultExpr())
		return
	}
	slot := "self." + g.namer.StorageProperty(f)
	p.P(g.vis, "var ", name, ": ", g.swiftType(), " {")
	p.In()
	p.P("get {return ", slot, " ?? ", g.defaultExpr(), "}")
	p.P("set {", slot, " = newValue}")
	p.Out()
	p.P("}")
	g.emitHasClear(p, false)
}

// emitStorageBackedProperty writes the computed property of a
// storage-backed message: reads hit the shared class, writes go through
// the unique handle.
func (g *fieldGen) emitStorageBackedProperty(p *swift.Printer) {
	f := g.f
	slot := g.namer.StorageProperty(f)
	p.P(g.vis, "var ", g.namer.Property(f), ": ", g.swiftType(), " {")
	p.In()
	if f.ExplicitPresence() {
		p.P("get {return _storage.", slot, " ?? ", g.defaultExpr(), "}")
	} else {
		p.P("get {return _storage.", slot, "}")
	}
	p.P("set {_uniqueStorage().", slot, " = newValue}")
	p.Out()
	p.P("}")
	if f.ExplicitPresence() {
		g.emitHasClear(p, true)
	}
}

func (g *fieldGen) emitHasClear(p *swift.Printer, inStorage bool) {
	f := g.f
	doc := g.namer.properties[f]
	slot := "self." + g.namer.StorageProperty(f)
	clearTarget := slot
	if inStorage {
		slot = "_storage." + g.namer.StorageProperty(f)
		clearTarget = "_uniqueStorage()." + g.namer.StorageProperty(f)
	}
	p.P("/// Returns true if `", doc, "` has been explicitly set.")
	p.P(g.vis, "var ", g.namer.HasProperty(f), ": Bool {return ", slot, " != nil}")
	p.P("/// Clears the value of `", doc, "`. Subsequent reads from it will return its default value.")
	p.P(g.vis, "mutating func ", g.namer.ClearMethod(f), "() {", clearTarget, " = nil}")
}

// emitInlineSlot writes the fileprivate backing slot of an inline
// explicit-presence field, placed at the bottom of the struct.
func (g *fieldGen) emitInlineSlot(p *swift.Printer) {
	p.P("fileprivate var ", g.namer.StorageProperty(g.f), ": ", g.swiftBaseType(), "? = nil")
}

// emitStorageSlot writes the field's stored property inside the storage
// class.
func (g *fieldGen) emitStorageSlot(p *swift.Printer) {
	f := g.f
	if f.ExplicitPresence() {
		p.P("var ", g.namer.StorageProperty(f), ": ", g.swiftBaseType(), "? = nil")
		return
	}
	p.P("var ", g.namer.StorageProperty(f), ": ", g.swiftType(), " = ", g.defaultExpr())
}
