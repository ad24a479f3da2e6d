package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// emitEquals writes the == operator. Indirected messages compare
// storage identity first: the same instance means the same slots, so
// the field block is skipped and only unknown/extension state remains.
func (g *messageGen) emitEquals(p *swift.Printer) {
	t := g.namer.MessageType(g.m)
	p.P(g.vis, "static func ==(lhs: ", t, ", rhs: ", t, ") -> Bool {")
	p.In()
	if g.indirected() {
		p.P("if lhs._storage !== rhs._storage {")
		p.In()
		p.P("let storagesAreEqual: Bool = {")
		p.In()
		p.P("let _storage = lhs._storage")
		p.P("let rhs_storage = rhs._storage")
		for _, slot := range g.storageSlotNames() {
			p.P("if _storage.", slot, " != rhs_storage.", slot, " {return false}")
		}
		p.P("return true")
		p.Out()
		p.P("}()")
		p.P("if !storagesAreEqual {return false}")
		p.Out()
		p.P("}")
	} else {
		seenOneof := make(map[*schema.OneofSchema]bool, len(g.oneofs))
		for _, fg := range g.fields {
			if o := fg.f.Oneof; o != nil {
				if !seenOneof[o] {
					seenOneof[o] = true
					prop := g.namer.OneofProperty(o)
					p.P("if lhs.", prop, " != rhs.", prop, " {return false}")
				}
				continue
			}
			member := fg.comparand(false)
			p.P("if lhs.", member, " != rhs.", member, " {return false}")
		}
	}
	p.P("if lhs.unknownFields != rhs.unknownFields {return false}")
	if g.m.IsExtensible() {
		p.P("if lhs._protobuf_extensionFieldValues != rhs._protobuf_extensionFieldValues {return false}")
	}
	p.P("return true")
	p.Out()
	p.P("}")
}
