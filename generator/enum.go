package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// enumGen compiles one enum declaration. Proto3 enums are open: raw
// values outside the declared set survive decode in an UNRECOGNIZED
// case. Proto2 enums are closed, their raw-value initializer fails
// instead and the decoder routes the value to unknown fields.
type enumGen struct {
	e     *schema.EnumSchema
	namer *Namer
	vis   string
}

func newEnumGen(e *schema.EnumSchema, namer *Namer, vis Visibility) *enumGen {
	return &enumGen{e: e, namer: namer, vis: vis.Prefix()}
}

func (g *enumGen) open() bool {
	return g.e.Syntax == schema.SyntaxProto3
}

// caseIndexes filters aliases: the first declared value per number owns
// the case, later ones are dropped.
func (g *enumGen) caseIndexes() []int {
	seen := make(map[int32]bool, len(g.e.Values))
	idxs := make([]int, 0, len(g.e.Values))
	for i, v := range g.e.Values {
		if seen[v.Number] {
			continue
		}
		seen[v.Number] = true
		idxs = append(idxs, i)
	}
	return idxs
}

func (g *enumGen) emitDecl(p *swift.Printer) {
	e := g.e
	idxs := g.caseIndexes()
	p.P(g.vis, "enum ", g.namer.DeclaredEnumName(e), ": SwiftProtobuf.Enum {")
	p.In()
	p.P(g.vis, "typealias RawValue = Int")
	for _, i := range idxs {
		p.P("case ", g.namer.EnumCaseName(e, i), " // = ", e.Values[i].Number)
	}
	if g.open() {
		p.P("case UNRECOGNIZED(Int)")
	}
	p.P()

	p.P(g.vis, "init() {")
	p.In()
	p.P("self = ", g.namer.EnumDefaultCase(e.FullName))
	p.Out()
	p.P("}")
	p.P()

	p.P(g.vis, "init?(rawValue: Int) {")
	p.In()
	p.P("switch rawValue {")
	for _, i := range idxs {
		p.P("case ", e.Values[i].Number, ": self = .", g.namer.EnumCaseName(e, i))
	}
	if g.open() {
		p.P("default: self = .UNRECOGNIZED(rawValue)")
	} else {
		p.P("default: return nil")
	}
	p.P("}")
	p.Out()
	p.P("}")
	p.P()

	p.P(g.vis, "var rawValue: Int {")
	p.In()
	p.P("switch self {")
	for _, i := range idxs {
		p.P("case .", g.namer.EnumCaseName(e, i), ": return ", e.Values[i].Number)
	}
	if g.open() {
		p.P("case .UNRECOGNIZED(let i): return i")
	}
	p.P("}")
	p.Out()
	p.P("}")
	p.Out()
	p.P("}")
}

// emitNameMap writes the file-bottom text-name mapping extension.
func (g *enumGen) emitNameMap(p *swift.Printer) {
	e := g.e
	p.P("extension ", g.namer.EnumType(e), ": SwiftProtobuf._ProtoNameProviding {")
	p.In()
	p.P(g.vis, "static let _protobuf_nameMap: SwiftProtobuf._NameMap = [")
	p.In()
	for _, i := range g.caseIndexes() {
		p.P(e.Values[i].Number, ": .same(proto: ", swift.StringLiteral(e.Values[i].Name), "),")
	}
	p.Out()
	p.P("]")
	p.Out()
	p.P("}")
}
