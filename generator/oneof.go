package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// casePattern renders a sorted member-number set as the switch pattern
// matching it: three or more exactly consecutive numbers compress to a
// closed range, everything else stays an explicit list.
func casePattern(numbers []int32) string {
	if len(numbers) >= 3 && isConsecutive(numbers) {
		return fmt.Sprintf("%d...%d", numbers[0], numbers[len(numbers)-1])
	}
	parts := lo.Map(numbers, func(n int32, _ int) string { return strconv.Itoa(int(n)) })
	return strings.Join(parts, ", ")
}

func isConsecutive(numbers []int32) bool {
	for i := 1; i < len(numbers); i++ {
		if numbers[i] != numbers[i-1]+1 {
			return false
		}
	}
	return true
}

// oneofGen emits everything one oneof contributes to its message: the
// nested union enum, the value property and per-member proxies, the
// grouped decode case, the traverse hooks, the storage slot.
type oneofGen struct {
	o     *schema.OneofSchema
	m     *schema.MessageSchema
	namer *Namer
	vis   string

	fields []*fieldGen // number-sorted members
}

func newOneofGen(o *schema.OneofSchema, m *schema.MessageSchema, namer *Namer, vis Visibility) *oneofGen {
	og := &oneofGen{o: o, m: m, namer: namer, vis: vis.Prefix()}
	for _, f := range o.FieldsSortedByNumber() {
		og.fields = append(og.fields, newFieldGen(f, namer, vis))
	}
	return og
}

func (og *oneofGen) property(inStorage bool) string {
	if inStorage {
		return "_storage." + og.namer.OneofStorageProperty(og.o)
	}
	return "self." + og.namer.OneofProperty(og.o)
}

// emitProperty writes the property holding the active union value.
func (og *oneofGen) emitProperty(p *swift.Printer, inStorage bool) {
	qual := og.namer.QualifiedOneofTypeName(og.m, og.o)
	name := og.namer.OneofProperty(og.o)
	if !inStorage {
		p.P(og.vis, "var ", name, ": ", qual, "? = nil")
		return
	}
	slot := og.namer.OneofStorageProperty(og.o)
	p.P(og.vis, "var ", name, ": ", qual, "? {")
	p.In()
	p.P("get {return _storage.", slot, "}")
	p.P("set {_uniqueStorage().", slot, " = newValue}")
	p.Out()
	p.P("}")
}

// emitProxyProperty writes a member's forwarding accessor: reads yield
// the payload when the member is active, the default otherwise; writes
// switch the union to this member.
func (og *oneofGen) emitProxyProperty(p *swift.Printer, fg *fieldGen, inStorage bool) {
	caseName := og.namer.Property(fg.f)
	p.P(og.vis, "var ", caseName, ": ", fg.swiftBaseType(), " {")
	p.In()
	p.P("get {")
	p.In()
	p.P("if case .", caseName, "(let v)? = ", og.property(inStorage), " {return v}")
	p.P("return ", fg.defaultExpr())
	p.Out()
	p.P("}")
	if inStorage {
		p.P("set {_uniqueStorage().", og.namer.OneofStorageProperty(og.o), " = .", caseName, "(newValue)}")
	} else {
		p.P("set {", og.property(false), " = .", caseName, "(newValue)}")
	}
	p.Out()
	p.P("}")
}

// emitEnumDecl writes the nested union enum with its member cases and
// whole-value equality.
func (og *oneofGen) emitEnumDecl(p *swift.Printer) {
	qual := og.namer.QualifiedOneofTypeName(og.m, og.o)
	p.P(og.vis, "enum ", og.namer.OneofTypeName(og.o), ": Equatable {")
	p.In()
	for _, fg := range og.fields {
		p.P("case ", og.namer.Property(fg.f), "(", fg.swiftBaseType(), ")")
	}
	p.P()
	p.P(og.vis, "static func ==(lhs: ", qual, ", rhs: ", qual, ") -> Bool {")
	p.In()
	p.P("switch (lhs, rhs) {")
	for _, fg := range og.fields {
		c := og.namer.Property(fg.f)
		p.P("case (.", c, "(let l), .", c, "(let r)): return l == r")
	}
	if len(og.fields) > 1 {
		p.P("default: return false")
	}
	p.P("}")
	p.Out()
	p.P("}")
	p.Out()
	p.P("}")
}

// emitStorageSlot writes the union's slot inside the storage class.
func (og *oneofGen) emitStorageSlot(p *swift.Printer) {
	p.P("var ", og.namer.OneofStorageProperty(og.o), ": ", og.namer.QualifiedOneofTypeName(og.m, og.o), "? = nil")
}

// emitDecodeCase writes the dispatcher case consuming every member
// number of the group. The payload decodes first so the stream stays
// aligned; only then does an already-populated group surface the
// conflict.
func (og *oneofGen) emitDecodeCase(p *swift.Printer, inStorage bool) {
	prop := og.property(inStorage)
	qual := og.namer.QualifiedOneofTypeName(og.m, og.o)
	p.P("case ", casePattern(og.o.MemberNumbers()), ":")
	p.In()
	p.P("let hadOneofValue = (", prop, " != nil)")
	p.P("if let v = try ", qual, "(byDecodingFrom: &decoder, fieldNumber: fieldNumber) {")
	p.In()
	p.P("if hadOneofValue {try decoder.handleConflictingOneOf()}")
	p.P(prop, " = v")
	p.Out()
	p.P("}")
	p.Out()
}

// emitRuntimeExtension writes the file-bottom helpers: the failable
// member decoder and the traverse hooks. The bounded traverse is only
// generated when interleaving actually splits the group.
func (og *oneofGen) emitRuntimeExtension(p *swift.Printer) {
	qual := og.namer.QualifiedOneofTypeName(og.m, og.o)
	p.P("extension ", qual, " {")
	p.In()
	p.P("fileprivate init?<D: SwiftProtobuf.Decoder>(byDecodingFrom decoder: inout D, fieldNumber: Int) throws {")
	p.In()
	p.P("switch fieldNumber {")
	for _, fg := range og.fields {
		p.P("case ", fg.f.Number, ":")
		p.In()
		p.P("var v: ", fg.swiftBaseType(), "?")
		p.P("try decoder.decodeSingular", protoStem(fg.f.Proto), "Field(value: &v)")
		p.P("if let v = v {self = .", og.namer.Property(fg.f), "(v); return}")
		p.Out()
	}
	p.P("default:")
	p.In()
	p.P("break")
	p.Out()
	p.P("}")
	p.P("return nil")
	p.Out()
	p.P("}")
	p.P()
	p.P("fileprivate func traverse<V: SwiftProtobuf.Visitor>(visitor: inout V) throws {")
	p.In()
	p.P("switch self {")
	for _, fg := range og.fields {
		p.P("case .", og.namer.Property(fg.f), "(let v):")
		p.In()
		p.P("try visitor.visitSingular", protoStem(fg.f.Proto), "Field(value: v, fieldNumber: ", fg.f.Number, ")")
		p.Out()
	}
	p.P("}")
	p.Out()
	p.P("}")
	if !og.o.ContinuousInParent {
		p.P()
		p.P("fileprivate func traverse<V: SwiftProtobuf.Visitor>(visitor: inout V, start: Int, end: Int) throws {")
		p.In()
		p.P("switch self {")
		for _, fg := range og.fields {
			n := fg.f.Number
			p.P("case .", og.namer.Property(fg.f), "(let v):")
			p.In()
			p.P("if start <= ", n, " && ", n, " < end {")
			p.In()
			p.P("try visitor.visitSingular", protoStem(fg.f.Proto), "Field(value: v, fieldNumber: ", n, ")")
			p.Out()
			p.P("}")
			p.Out()
		}
		p.P("}")
		p.Out()
		p.P("}")
	}
	p.Out()
	p.P("}")
}
