package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// storageSlotNames lists the backing-class members in declaration
// order, one per plain field and one per oneof group.
func (g *messageGen) storageSlotNames() []string {
	names := make([]string, 0, len(g.fields))
	seenOneof := make(map[*schema.OneofSchema]bool, len(g.oneofs))
	for _, fg := range g.fields {
		if o := fg.f.Oneof; o != nil {
			if !seenOneof[o] {
				seenOneof[o] = true
				names = append(names, g.namer.OneofStorageProperty(o))
			}
			continue
		}
		names = append(names, g.namer.StorageProperty(fg.f))
	}
	return names
}

// emitStorageClass writes the heap-side half of the copy-on-write
// split: every slot, the shared default instance, and the deep-copying
// initializer _uniqueStorage rebinds to. google.protobuf.Any aliases
// the runtime's specialized storage instead of generating one.
func (g *messageGen) emitStorageClass(p *swift.Printer) {
	if g.m.IsWellKnownAny {
		p.P("fileprivate typealias _StorageClass = SwiftProtobuf.AnyMessageStorage")
		return
	}
	p.P("fileprivate final class _StorageClass {")
	p.In()
	seenOneof := make(map[*schema.OneofSchema]bool, len(g.oneofs))
	for _, fg := range g.fields {
		if o := fg.f.Oneof; o != nil {
			if !seenOneof[o] {
				seenOneof[o] = true
				g.oneofFor[o].emitStorageSlot(p)
			}
			continue
		}
		fg.emitStorageSlot(p)
	}
	p.P()
	p.P("static let defaultInstance = _StorageClass()")
	p.P()
	p.P("private init() {}")
	p.P()
	p.P("init(copying source: _StorageClass) {")
	p.In()
	for _, slot := range g.storageSlotNames() {
		p.P(slot, " = source.", slot)
	}
	p.Out()
	p.P("}")
	p.Out()
	p.P("}")
}

// emitUniqueStorage writes the mutating entry point of the split: the
// exclusivity test runs on every call, never cached, so a handle that
// became shared since the last mutation still copies before writing.
func (g *messageGen) emitUniqueStorage(p *swift.Printer) {
	p.P("fileprivate mutating func _uniqueStorage() -> _StorageClass {")
	p.In()
	p.P("if !isKnownUniquelyReferenced(&_storage) {")
	p.In()
	if g.m.IsWellKnownAny {
		p.P("_storage = _storage.copy()")
	} else {
		p.P("_storage = _StorageClass(copying: _storage)")
	}
	p.Out()
	p.P("}")
	p.P("return _storage")
	p.Out()
	p.P("}")
}
