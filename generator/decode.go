package generator

import (
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// emitDecodeMessage writes the wire dispatcher: one switch over the
// number-sorted field list. Every member number of a oneof lands on a
// single case; unmatched numbers fall to the decoder, which buffers
// them into unknownFields.
func (g *messageGen) emitDecodeMessage(p *swift.Printer) {
	inStorage := g.indirected()
	p.P(g.vis, "mutating func decodeMessage<D: SwiftProtobuf.Decoder>(decoder: inout D) throws {")
	p.In()
	if inStorage {
		p.P("let _storage = _uniqueStorage()")
	}
	p.P("while let fieldNumber = try decoder.nextFieldNumber() {")
	p.In()
	p.P("switch fieldNumber {")
	seenOneof := make(map[*schema.OneofSchema]bool, len(g.oneofs))
	for _, f := range g.m.FieldsSortedByNumber() {
		if o := f.Oneof; o != nil {
			if !seenOneof[o] {
				seenOneof[o] = true
				g.oneofFor[o].emitDecodeCase(p, inStorage)
			}
			continue
		}
		p.P("case ", f.Number, ": ", g.fieldFor[f].decodeCall(inStorage))
	}
	if g.m.IsExtensible() {
		p.P("case ", intervalPatterns(g.m.ExtensionIntervals), ": try decoder.decodeExtensionField(values: &_protobuf_extensionFieldValues, messageType: ", g.namer.MessageType(g.m), ".self, fieldNumber: fieldNumber)")
	}
	p.P("default: break")
	p.P("}")
	p.Out()
	p.P("}")
	p.Out()
	p.P("}")
}

// intervalPatterns joins every extension interval into the half-open
// range patterns of the single dispatcher case.
func intervalPatterns(intervals []schema.ExtensionInterval) string {
	parts := lo.Map(intervals, func(iv schema.ExtensionInterval, _ int) string {
		return strconv.Itoa(int(iv.Start)) + "..<" + strconv.Itoa(int(iv.End))
	})
	return strings.Join(parts, ", ")
}
