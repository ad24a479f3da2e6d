package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

func TestCasePattern(t *testing.T) {
	tests := []struct {
		name     string
		numbers  []int32
		expected string
	}{
		{"single", []int32{2}, "2"},
		{"pair", []int32{3, 7}, "3, 7"},
		{"consecutive pair stays a list", []int32{3, 4}, "3, 4"},
		{"consecutive triple", []int32{3, 4, 5}, "3...5"},
		{"gapped triple", []int32{3, 4, 7}, "3, 4, 7"},
		{"long run", []int32{10, 11, 12, 13}, "10...13"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, casePattern(tt.numbers))
		})
	}
}

// packetGen builds net.Packet with oneof payload {raw=2 bytes, text=3
// string} and nothing else, so the group is continuous.
func packetGen(t *testing.T) *messageGen {
	t.Helper()
	a := schema.NewArena()
	o := &schema.OneofSchema{Name: "payload"}
	m := &schema.MessageSchema{
		Name:     "Packet",
		FullName: "net.Packet",
		Package:  "net",
		Syntax:   schema.SyntaxProto3,
		Fields: []*schema.FieldSchema{
			member(o, "raw", 2, protoreflect.BytesKind),
			member(o, "text", 3, protoreflect.StringKind),
		},
		Oneofs: []*schema.OneofSchema{o},
	}
	register(a, m)
	g := newMessageGen(m, a, NewNamer(a), VisibilityInternal, nil)
	require.Len(t, g.oneofs, 1)
	return g
}

func TestOneofGen_EnumDecl(t *testing.T) {
	g := packetGen(t)
	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitEnumDecl(p) })

	assert.Contains(t, out, "enum OneOf_Payload: Equatable {")
	assert.Contains(t, out, "case raw(Data)")
	assert.Contains(t, out, "case text(String)")
	assert.Contains(t, out, "static func ==(lhs: Net_Packet.OneOf_Payload, rhs: Net_Packet.OneOf_Payload) -> Bool {")
	assert.Contains(t, out, "case (.raw(let l), .raw(let r)): return l == r")
	assert.Contains(t, out, "case (.text(let l), .text(let r)): return l == r")
	assert.Contains(t, out, "default: return false")
}

func TestOneofGen_SingleMemberEqualityIsExhaustive(t *testing.T) {
	a := schema.NewArena()
	o := &schema.OneofSchema{Name: "kind"}
	m := &schema.MessageSchema{
		Name:     "Tag",
		FullName: "net.Tag",
		Package:  "net",
		Syntax:   schema.SyntaxProto3,
		Fields:   []*schema.FieldSchema{member(o, "ordinal", 1, protoreflect.Int32Kind)},
		Oneofs:   []*schema.OneofSchema{o},
	}
	register(a, m)
	g := newMessageGen(m, a, NewNamer(a), VisibilityInternal, nil)

	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitEnumDecl(p) })
	assert.NotContains(t, out, "default: return false")
}

func TestOneofGen_DecodeCase(t *testing.T) {
	g := packetGen(t)
	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitDecodeCase(p, false) })

	expected := "case 2, 3:\n" +
		"  let hadOneofValue = (self.payload != nil)\n" +
		"  if let v = try Net_Packet.OneOf_Payload(byDecodingFrom: &decoder, fieldNumber: fieldNumber) {\n" +
		"    if hadOneofValue {try decoder.handleConflictingOneOf()}\n" +
		"    self.payload = v\n" +
		"  }\n"
	require.Equal(t, expected, out)

	// the stream is consumed before the conflict is signalled
	assert.Less(t, strings.Index(out, "byDecodingFrom"), strings.Index(out, "handleConflictingOneOf"))
}

func TestOneofGen_MemberDecoder(t *testing.T) {
	g := packetGen(t)
	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitRuntimeExtension(p) })

	assert.Contains(t, out, "extension Net_Packet.OneOf_Payload {")
	assert.Contains(t, out, "fileprivate init?<D: SwiftProtobuf.Decoder>(byDecodingFrom decoder: inout D, fieldNumber: Int) throws {")
	assert.Contains(t, out, "var v: Data?")
	assert.Contains(t, out, "try decoder.decodeSingularBytesField(value: &v)")
	assert.Contains(t, out, "if let v = v {self = .raw(v); return}")
	assert.Contains(t, out, "return nil")
}

func TestOneofGen_ContinuousGroupTraversesUnbounded(t *testing.T) {
	g := packetGen(t)
	require.True(t, g.oneofs[0].o.ContinuousInParent)

	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitRuntimeExtension(p) })
	assert.Contains(t, out, "fileprivate func traverse<V: SwiftProtobuf.Visitor>(visitor: inout V) throws {")
	assert.NotContains(t, out, "start: Int")
}

func TestOneofGen_SplitGroupTraversesBounded(t *testing.T) {
	a := schema.NewArena()
	o := &schema.OneofSchema{Name: "payload"}
	m := &schema.MessageSchema{
		Name:     "Frame",
		FullName: "net.Frame",
		Package:  "net",
		Syntax:   schema.SyntaxProto3,
		Fields: []*schema.FieldSchema{
			member(o, "raw", 2, protoreflect.BytesKind),
			scalar("checksum", 5, protoreflect.Uint32Kind),
			member(o, "text", 8, protoreflect.StringKind),
		},
		Oneofs: []*schema.OneofSchema{o},
	}
	register(a, m)
	g := newMessageGen(m, a, NewNamer(a), VisibilityInternal, nil)
	require.False(t, g.oneofs[0].o.ContinuousInParent)

	out := rendered(func(p *swift.Printer) { g.oneofs[0].emitRuntimeExtension(p) })
	assert.Contains(t, out, "fileprivate func traverse<V: SwiftProtobuf.Visitor>(visitor: inout V, start: Int, end: Int) throws {")
	assert.Contains(t, out, "if start <= 2 && 2 < end {")
	assert.Contains(t, out, "if start <= 8 && 8 < end {")
}
