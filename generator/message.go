package generator

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// messageGen compiles one message: the struct with its accessors and
// nested types, and the file-bottom extension carrying the runtime
// conformances. Nested messages compile through child generators, so a
// file renders its whole message tree from the top-level ones.
type messageGen struct {
	m      *schema.MessageSchema
	arena  *schema.Arena
	namer  *Namer
	parent *messageGen // nil for top-level messages

	visibility Visibility
	vis        string

	fields   []*fieldGen // declaration order
	fieldFor map[*schema.FieldSchema]*fieldGen
	oneofs   []*oneofGen
	oneofFor map[*schema.OneofSchema]*oneofGen
	enums    []*enumGen
	nested   []*messageGen
}

func newMessageGen(m *schema.MessageSchema, arena *schema.Arena, namer *Namer, vis Visibility, parent *messageGen) *messageGen {
	g := &messageGen{
		m:          m,
		arena:      arena,
		namer:      namer,
		parent:     parent,
		visibility: vis,
		vis:        vis.Prefix(),
		fieldFor:   make(map[*schema.FieldSchema]*fieldGen, len(m.Fields)),
		oneofFor:   make(map[*schema.OneofSchema]*oneofGen, len(m.Oneofs)),
	}
	for _, f := range m.Fields {
		fg := newFieldGen(f, namer, vis)
		g.fields = append(g.fields, fg)
		g.fieldFor[f] = fg
	}
	for _, o := range m.Oneofs {
		og := newOneofGen(o, m, namer, vis)
		g.oneofs = append(g.oneofs, og)
		g.oneofFor[o] = og
	}
	for _, e := range m.Enums {
		g.enums = append(g.enums, newEnumGen(e, namer, vis))
	}
	for _, ref := range m.Messages {
		g.nested = append(g.nested, newMessageGen(arena.Message(ref), arena, namer, vis, g))
	}
	return g
}

func (g *messageGen) indirected() bool {
	return g.m.Storage == schema.StorageIndirected
}

// emitStruct writes the struct declaration, nested declarations
// included. Accessors keep field declaration order, with the oneof
// value property surfacing just before its first member's proxy.
func (g *messageGen) emitStruct(p *swift.Printer) {
	p.P(g.vis, "struct ", g.namer.DeclaredMessageName(g.m), " {")
	p.In()
	p.P("// SwiftProtobuf.Message conformance is added in an extension below. See the")
	p.P("// `Message` and `Message+*Additions` files in the SwiftProtobuf library for")
	p.P("// methods supported on all messages.")

	inStorage := g.indirected()
	seenOneof := make(map[*schema.OneofSchema]bool, len(g.oneofs))
	for _, fg := range g.fields {
		p.P()
		if o := fg.f.Oneof; o != nil {
			og := g.oneofFor[o]
			if !seenOneof[o] {
				seenOneof[o] = true
				og.emitProperty(p, inStorage)
				p.P()
			}
			og.emitProxyProperty(p, fg, inStorage)
			continue
		}
		if inStorage {
			fg.emitStorageBackedProperty(p)
		} else {
			fg.emitInlineProperty(p)
		}
	}

	p.P()
	p.P(g.vis, "var unknownFields = SwiftProtobuf.UnknownStorage()")

	for _, og := range g.oneofs {
		p.P()
		og.emitEnumDecl(p)
	}
	for _, eg := range g.enums {
		p.P()
		eg.emitDecl(p)
	}
	for _, ng := range g.nested {
		p.P()
		ng.emitStruct(p)
	}

	p.P()
	p.P(g.vis, "init() {}")

	if g.m.IsExtensible() {
		p.P()
		p.P(g.vis, "var _protobuf_extensionFieldValues = SwiftProtobuf.ExtensionFieldValueSet()")
	}
	g.emitSlots(p)
	p.Out()
	p.P("}")
}

// emitSlots writes the fileprivate backing storage at the struct
// bottom: one handle for Indirected messages, one optional slot per
// explicit-presence field otherwise. Oneof members never get slots,
// the union value carries the payload.
func (g *messageGen) emitSlots(p *swift.Printer) {
	if g.indirected() {
		p.P()
		if g.m.IsWellKnownAny {
			p.P("fileprivate var _storage = _StorageClass()")
		} else {
			p.P("fileprivate var _storage = _StorageClass.defaultInstance")
		}
		return
	}
	first := true
	for _, fg := range g.fields {
		if fg.f.Oneof != nil || !fg.f.ExplicitPresence() {
			continue
		}
		if first {
			p.P()
			first = false
		}
		fg.emitInlineSlot(p)
	}
}

// protoMessageNameExpr builds the full proto name at runtime from the
// enclosing scope, so renaming a package or parent stays a one-line
// change in the emitted file.
func (g *messageGen) protoMessageNameExpr() string {
	if g.parent != nil {
		return g.namer.MessageType(g.parent.m) + ".protoMessageName + " + swift.StringLiteral("."+g.m.Name)
	}
	if g.m.Package != "" {
		return "_protobuf_package + " + swift.StringLiteral("."+g.m.Name)
	}
	return swift.StringLiteral(g.m.Name)
}

// emitNameMap writes the text-format/JSON name table. Groups map the
// wire name (the group type) and the lowered JSON name separately;
// every other field is .same when its JSON name equals the proto name.
func (g *messageGen) emitNameMap(p *swift.Printer) {
	if len(g.fields) == 0 {
		p.P(g.vis, "static let _protobuf_nameMap = SwiftProtobuf._NameMap()")
		return
	}
	p.P(g.vis, "static let _protobuf_nameMap: SwiftProtobuf._NameMap = [")
	p.In()
	for _, fg := range g.fields {
		f := fg.f
		switch {
		case f.Kind == schema.KindGroup:
			p.P(f.Number, ": .unique(proto: ", swift.StringLiteral(simpleTypeName(f.TypeName)), ", json: ", swift.StringLiteral(f.Name), "),")
		case strcase.ToLowerCamel(f.Name) == f.Name:
			p.P(f.Number, ": .same(proto: ", swift.StringLiteral(f.Name), "),")
		default:
			p.P(f.Number, ": .standard(proto: ", swift.StringLiteral(f.Name), "),")
		}
	}
	p.Out()
	p.P("]")
}

func simpleTypeName(fullName string) string {
	if idx := strings.LastIndex(fullName, "."); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}

// emitRuntimeExtensions renders the conformance extension of this
// message, its oneof helpers, then every nested message depth-first.
// Called once per top-level message after all struct declarations.
func (g *messageGen) emitRuntimeExtensions(p *swift.Printer) {
	g.emitRuntime(p)
	for _, og := range g.oneofs {
		p.P()
		og.emitRuntimeExtension(p)
	}
	for _, eg := range g.enums {
		p.P()
		eg.emitNameMap(p)
	}
	for _, ng := range g.nested {
		p.P()
		ng.emitRuntimeExtensions(p)
	}
}

func (g *messageGen) emitRuntime(p *swift.Printer) {
	conformances := []string{
		"SwiftProtobuf.Message",
		"SwiftProtobuf._MessageImplementationBase",
		"SwiftProtobuf._ProtoNameProviding",
	}
	if g.m.IsExtensible() {
		conformances = append(conformances, "SwiftProtobuf.ExtensibleMessage")
	}
	p.P("extension ", g.namer.MessageType(g.m), ": ", strings.Join(conformances, ", "), " {")
	p.In()
	p.P(g.vis, "static let protoMessageName: String = ", g.protoMessageNameExpr())
	g.emitNameMap(p)
	if g.indirected() {
		p.P()
		g.emitStorageClass(p)
		p.P()
		g.emitUniqueStorage(p)
	}
	if g.needsIsInitialized() {
		p.P()
		g.emitIsInitialized(p)
	}
	p.P()
	g.emitDecodeMessage(p)
	p.P()
	g.emitTraverse(p)
	p.P()
	g.emitEquals(p)
	p.Out()
	p.P("}")
}
