package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// needsIsInitialized reports whether any completeness clause can fire.
// When none can, the property is not generated at all and the runtime
// default answers true.
func (g *messageGen) needsIsInitialized() bool {
	if g.m.IsExtensible() {
		return true
	}
	for _, f := range g.m.Fields {
		if f.Label == schema.LabelRequired || f.HasRequired {
			return true
		}
	}
	return false
}

// emitIsInitialized writes the completeness predicate: extension set,
// then syntactically required slots, then fields whose type reaches a
// required field, then oneofs holding such a member. Each clause
// short-circuits false.
func (g *messageGen) emitIsInitialized(p *swift.Printer) {
	inStorage := g.indirected()
	p.P(g.vis, "var isInitialized: Bool {")
	p.In()
	if g.m.IsExtensible() {
		p.P("if !_protobuf_extensionFieldValues.isInitialized {return false}")
	}
	for _, fg := range g.fields {
		if fg.f.Label == schema.LabelRequired {
			p.P("if ", fg.readAccess(inStorage), " == nil {return false}")
		}
	}
	for _, fg := range g.fields {
		f := fg.f
		if f.Oneof != nil || !f.HasRequired {
			continue
		}
		if f.Kind == schema.KindMap || f.Label == schema.LabelRepeated {
			p.P("if !SwiftProtobuf.Internal.areAllInitialized(", fg.readAccess(inStorage), ") {return false}")
			continue
		}
		p.P("if let v = ", fg.readAccess(inStorage), ", !v.isInitialized {return false}")
	}
	for _, og := range g.oneofs {
		g.emitOneofInitialized(p, og, inStorage)
	}
	p.P("return true")
	p.Out()
	p.P("}")
}

// emitOneofInitialized checks the message-typed members whose types
// reach required fields: a single such member gets an if-case, several
// share one switch over the union.
func (g *messageGen) emitOneofInitialized(p *swift.Printer, og *oneofGen, inStorage bool) {
	var checked []*fieldGen
	for _, fg := range og.fields {
		if fg.f.HasRequired {
			checked = append(checked, fg)
		}
	}
	switch len(checked) {
	case 0:
		return
	case 1:
		p.P("if case .", g.namer.Property(checked[0].f), "(let v)? = ", og.property(inStorage), ", !v.isInitialized {return false}")
	default:
		p.P("switch ", og.property(inStorage), " {")
		for _, fg := range checked {
			p.P("case .", g.namer.Property(fg.f), "(let v)?: if !v.isInitialized {return false}")
		}
		p.P("default: break")
		p.P("}")
	}
}
