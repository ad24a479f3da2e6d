package generator

import (
	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// fileGen renders one input file into one Swift source: header,
// declarations, then the runtime-support extensions at the bottom.
type fileGen struct {
	fs    *schema.FileSchema
	arena *schema.Arena
	namer *Namer

	enums    []*enumGen
	messages []*messageGen
}

func newFileGen(fs *schema.FileSchema, arena *schema.Arena, namer *Namer, vis Visibility) *fileGen {
	fg := &fileGen{fs: fs, arena: arena, namer: namer}
	for _, e := range fs.Enums {
		fg.enums = append(fg.enums, newEnumGen(e, namer, vis))
	}
	for _, ref := range fs.Messages {
		fg.messages = append(fg.messages, newMessageGen(arena.Message(ref), arena, namer, vis, nil))
	}
	return fg
}

func (fg *fileGen) render(p *swift.Printer) {
	fg.emitHeader(p)
	fg.emitVersionCheck(p)

	for _, eg := range fg.enums {
		p.P()
		eg.emitDecl(p)
	}
	for _, mg := range fg.messages {
		p.P()
		mg.emitStruct(p)
	}

	if len(fg.enums) == 0 && len(fg.messages) == 0 {
		return
	}
	p.P()
	p.P("// MARK: - Code below here is support for the SwiftProtobuf runtime.")
	if fg.fs.Package != "" {
		p.P()
		p.P("fileprivate let _protobuf_package = ", swift.StringLiteral(fg.fs.Package))
	}
	for _, eg := range fg.enums {
		p.P()
		eg.emitNameMap(p)
	}
	for _, mg := range fg.messages {
		p.P()
		mg.emitRuntimeExtensions(p)
	}
}

func (fg *fileGen) emitHeader(p *swift.Printer) {
	p.P("// DO NOT EDIT.")
	p.P("// swift-format-ignore-file")
	p.P("// swiftlint:disable all")
	p.P("//")
	p.P("// Generated by the Swift generator plugin for the protocol buffer compiler.")
	p.P("// Source: ", fg.fs.Path)
	p.P("//")
	p.P("// For information on using the generated types, please see the documentation:")
	p.P("//   https://github.com/apple/swift-protobuf/")
	p.P()
	p.P("import Foundation")
	p.P("import SwiftProtobuf")
	p.P()
}

// emitVersionCheck pins the emitted source to the runtime API
// generation it was written against: the struct fails to compile when
// the linked runtime speaks a different version.
func (fg *fileGen) emitVersionCheck(p *swift.Printer) {
	p.P("// If the compiler emits an error on this type, it is because this file")
	p.P("// was generated by a version of the `protoc` Swift plug-in that is")
	p.P("// incompatible with the version of SwiftProtobuf to which you are linking.")
	p.P("// Please ensure that you are building against the same version of the API")
	p.P("// that was used to generate this file.")
	p.P("fileprivate struct _GeneratedWithProtocGenSwiftVersion: SwiftProtobuf.ProtobufAPIVersionCheck {")
	p.In()
	p.P("struct _2: SwiftProtobuf.ProtobufAPIVersion_2 {}")
	p.P("typealias Version = _2")
	p.Out()
	p.P("}")
}
