package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/compiler/protogen"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/pluginpb"
)

func fld(name string, number int32, label descriptorpb.FieldDescriptorProto_Label, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  label.Enum(),
		Type:   typ.Enum(),
	}
}

func typed(f *descriptorpb.FieldDescriptorProto, typeName string) *descriptorpb.FieldDescriptorProto {
	f.TypeName = proto.String(typeName)
	return f
}

func inOneof(f *descriptorpb.FieldDescriptorProto, index int32) *descriptorpb.FieldDescriptorProto {
	f.OneofIndex = proto.Int32(index)
	return f
}

// commonFile carries a required field behind an import boundary.
//
//	syntax = "proto2"; package vault;
//	message Stamp { required int64 at = 1; }
func commonFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("vault/common.proto"),
		Package: proto.String("vault"),
		Syntax:  proto.String("proto2"),
		Options: &descriptorpb.FileOptions{GoPackage: proto.String("example.com/vault/common;common")},
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Stamp"),
			Field: []*descriptorpb.FieldDescriptorProto{
				fld("at", 1, descriptorpb.FieldDescriptorProto_LABEL_REQUIRED, descriptorpb.FieldDescriptorProto_TYPE_INT64),
			},
		}},
	}
}

// recordsFile is the proto2 exercise: required fields, nested mutual
// recursion, a map, a group, a oneof with a message member, and an
// extension range.
//
//	syntax = "proto2"; package vault;
//	message Ledger {
//	  required string owner = 1;
//	  optional int64 revision = 2;
//	  repeated Entry entries = 3;
//	  map<string, Entry> index = 4;
//	  oneof payload { bytes raw = 5; Entry parsed = 6; }
//	  optional group Attachment = 7 { optional string mime = 1; }
//	  optional Stamp stamp = 8;
//	  extensions 100 to 200;
//	  message Entry { required string key = 1; optional Ledger back = 2; }
//	}
func recordsFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("vault/records.proto"),
		Package:    proto.String("vault"),
		Syntax:     proto.String("proto2"),
		Dependency: []string{"vault/common.proto"},
		Options:    &descriptorpb.FileOptions{GoPackage: proto.String("example.com/vault;vault")},
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("Ledger"),
			Field: []*descriptorpb.FieldDescriptorProto{
				fld("owner", 1, descriptorpb.FieldDescriptorProto_LABEL_REQUIRED, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				fld("revision", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				typed(fld("entries", 3, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Ledger.Entry"),
				typed(fld("index", 4, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Ledger.IndexEntry"),
				inOneof(fld("raw", 5, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_BYTES), 0),
				inOneof(typed(fld("parsed", 6, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Ledger.Entry"), 0),
				typed(fld("attachment", 7, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_GROUP), ".vault.Ledger.Attachment"),
				typed(fld("stamp", 8, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Stamp"),
			},
			OneofDecl: []*descriptorpb.OneofDescriptorProto{{Name: proto.String("payload")}},
			ExtensionRange: []*descriptorpb.DescriptorProto_ExtensionRange{
				{Start: proto.Int32(100), End: proto.Int32(201)},
			},
			NestedType: []*descriptorpb.DescriptorProto{
				{
					Name: proto.String("Entry"),
					Field: []*descriptorpb.FieldDescriptorProto{
						fld("key", 1, descriptorpb.FieldDescriptorProto_LABEL_REQUIRED, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						typed(fld("back", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Ledger"),
					},
				},
				{
					Name:    proto.String("IndexEntry"),
					Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
					Field: []*descriptorpb.FieldDescriptorProto{
						fld("key", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING),
						typed(fld("value", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), ".vault.Ledger.Entry"),
					},
				},
				{
					Name: proto.String("Attachment"),
					Field: []*descriptorpb.FieldDescriptorProto{
						fld("mime", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING),
					},
				},
			},
		}},
	}
}

// tagsFile is the proto3 exercise: implicit presence, the optional
// keyword with its synthetic oneof, a real oneof, a packed repeated
// field, and an enum.
//
//	syntax = "proto3"; package vault;
//	enum Color { COLOR_UNSPECIFIED = 0; COLOR_RED = 1; }
//	message TagSet {
//	  string name = 1;
//	  optional string note = 2;
//	  oneof kind { int32 ordinal = 3; string label = 4; }
//	  repeated int32 weights = 5;
//	  Color color = 6;
//	}
func tagsFile() *descriptorpb.FileDescriptorProto {
	note := fld("note", 2, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING)
	note.Proto3Optional = proto.Bool(true)
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("vault/tags.proto"),
		Package: proto.String("vault"),
		Syntax:  proto.String("proto3"),
		Options: &descriptorpb.FileOptions{GoPackage: proto.String("example.com/vault/tags;tags")},
		EnumType: []*descriptorpb.EnumDescriptorProto{{
			Name: proto.String("Color"),
			Value: []*descriptorpb.EnumValueDescriptorProto{
				{Name: proto.String("COLOR_UNSPECIFIED"), Number: proto.Int32(0)},
				{Name: proto.String("COLOR_RED"), Number: proto.Int32(1)},
			},
		}},
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("TagSet"),
			Field: []*descriptorpb.FieldDescriptorProto{
				fld("name", 1, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				inOneof(note, 1),
				inOneof(fld("ordinal", 3, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_INT32), 0),
				inOneof(fld("label", 4, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_STRING), 0),
				fld("weights", 5, descriptorpb.FieldDescriptorProto_LABEL_REPEATED, descriptorpb.FieldDescriptorProto_TYPE_INT32),
				typed(fld("color", 6, descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL, descriptorpb.FieldDescriptorProto_TYPE_ENUM), ".vault.Color"),
			},
			OneofDecl: []*descriptorpb.OneofDescriptorProto{
				{Name: proto.String("kind")},
				{Name: proto.String("_note")},
			},
		}},
	}
}

func loadFiles(t *testing.T) []*protogen.File {
	t.Helper()
	req := &pluginpb.CodeGeneratorRequest{
		FileToGenerate: []string{"vault/records.proto", "vault/tags.proto"},
		ProtoFile: []*descriptorpb.FileDescriptorProto{
			commonFile(), recordsFile(), tagsFile(),
		},
	}
	gen, err := protogen.Options{}.New(req)
	require.NoError(t, err)
	return gen.Files
}

func TestBuild_RegistersAllFiles(t *testing.T) {
	files := loadFiles(t)
	a, schemas, err := Build(files)
	require.NoError(t, err)
	require.Len(t, schemas, 3)

	// Map entry synthetics never register.
	assert.Equal(t, 5, a.Len())
	for _, fullName := range []string{"vault.Stamp", "vault.Ledger", "vault.Ledger.Entry", "vault.Ledger.Attachment", "vault.TagSet"} {
		_, ok := a.Lookup(fullName)
		assert.True(t, ok, fullName)
	}
	_, ok := a.Lookup("vault.Ledger.IndexEntry")
	assert.False(t, ok)

	assert.Equal(t, "vault/common.proto", schemas[0].Path)
	assert.Equal(t, "vault", schemas[0].Package)
	assert.Equal(t, SyntaxProto2, schemas[0].Syntax)
	assert.Equal(t, SyntaxProto3, schemas[2].Syntax)

	require.NoError(t, a.Validate())
}

func TestBuild_Proto2Message(t *testing.T) {
	files := loadFiles(t)
	a, _, err := Build(files)
	require.NoError(t, err)

	ref, ok := a.Lookup("vault.Ledger")
	require.True(t, ok)
	ledger := a.Message(ref)

	assert.Equal(t, "Ledger", ledger.Name)
	assert.Equal(t, "vault", ledger.Package)
	assert.Equal(t, SyntaxProto2, ledger.Syntax)
	assert.Equal(t, []ExtensionInterval{{Start: 100, End: 201}}, ledger.ExtensionIntervals)
	assert.True(t, ledger.IsExtensible())
	assert.Equal(t, StorageIndirected, ledger.Storage)
	assert.True(t, ledger.HasRequiredFieldsTransitively())
	require.Len(t, ledger.Fields, 8)
	require.Len(t, ledger.Oneofs, 1)
	require.Len(t, ledger.Messages, 2) // Entry, Attachment; IndexEntry absorbed

	byName := make(map[string]*FieldSchema)
	for _, f := range ledger.Fields {
		byName[f.Name] = f
	}

	owner := byName["owner"]
	assert.Equal(t, LabelRequired, owner.Label)
	assert.Equal(t, KindScalar, owner.Kind)
	assert.Equal(t, protoreflect.StringKind, owner.Proto)
	assert.True(t, owner.ExplicitPresence())

	revision := byName["revision"]
	assert.True(t, revision.ExplicitPresence(), "proto2 singular scalar tracks presence")

	entries := byName["entries"]
	assert.Equal(t, LabelRepeated, entries.Label)
	assert.Equal(t, KindMessage, entries.Kind)
	assert.Equal(t, "vault.Ledger.Entry", entries.TypeName)
	assert.NotEqual(t, RefNone, entries.TypeRef)
	assert.True(t, entries.HasRequired, "Entry.key is required")
	assert.False(t, entries.ExplicitPresence())

	index := byName["index"]
	assert.Equal(t, KindMap, index.Kind)
	assert.Equal(t, protoreflect.StringKind, index.MapKey)
	assert.Equal(t, protoreflect.MessageKind, index.MapValue)
	assert.Equal(t, "vault.Ledger.Entry", index.MapValueTypeName)
	assert.Equal(t, entries.TypeRef, index.MapValueRef)
	assert.True(t, index.HasRequired)
	assert.True(t, index.ReachesMessages())

	raw, parsed := byName["raw"], byName["parsed"]
	require.NotNil(t, raw.Oneof)
	assert.Same(t, raw.Oneof, parsed.Oneof)
	assert.Equal(t, "payload", raw.Oneof.Name)
	assert.Equal(t, []int32{5, 6}, raw.Oneof.MemberNumbers())
	assert.True(t, raw.Oneof.ContinuousInParent)
	assert.False(t, parsed.ExplicitPresence())

	attachment := byName["attachment"]
	assert.Equal(t, KindGroup, attachment.Kind)
	assert.Equal(t, "vault.Ledger.Attachment", attachment.TypeName)
	assert.NotEqual(t, RefNone, attachment.TypeRef)
	assert.True(t, attachment.IsMessageKind())

	stamp := byName["stamp"]
	assert.Equal(t, "vault.Stamp", stamp.TypeName)
	assert.NotEqual(t, RefNone, stamp.TypeRef, "imported type resolves into the arena")
	assert.True(t, stamp.HasRequired)
}

func TestBuild_MutualRecursion(t *testing.T) {
	files := loadFiles(t)
	a, _, err := Build(files)
	require.NoError(t, err)

	ref, ok := a.Lookup("vault.Ledger.Entry")
	require.True(t, ok)
	entry := a.Message(ref)

	assert.Equal(t, StorageIndirected, entry.Storage, "singular message field forces indirection")
	assert.True(t, entry.HasRequiredFieldsTransitively())

	back := entry.Fields[1]
	assert.Equal(t, "back", back.Name)
	assert.True(t, back.ExplicitPresence())
	assert.True(t, back.HasRequired, "Ledger is required-bearing through owner")

	ledgerRef, _ := a.Lookup("vault.Ledger")
	assert.Equal(t, ledgerRef, back.TypeRef)
}

func TestBuild_Proto3Message(t *testing.T) {
	files := loadFiles(t)
	a, _, err := Build(files)
	require.NoError(t, err)

	ref, ok := a.Lookup("vault.TagSet")
	require.True(t, ok)
	tagSet := a.Message(ref)

	assert.Equal(t, SyntaxProto3, tagSet.Syntax)
	assert.Equal(t, StorageInline, tagSet.Storage)
	assert.False(t, tagSet.HasRequiredFieldsTransitively())
	require.Len(t, tagSet.Oneofs, 1, "synthetic oneof for the optional keyword never registers")
	assert.Equal(t, "kind", tagSet.Oneofs[0].Name)

	byName := make(map[string]*FieldSchema)
	for _, f := range tagSet.Fields {
		byName[f.Name] = f
	}

	assert.False(t, byName["name"].ExplicitPresence())

	note := byName["note"]
	assert.True(t, note.Proto3Optional)
	assert.Nil(t, note.Oneof)
	assert.True(t, note.ExplicitPresence())

	ordinal, label := byName["ordinal"], byName["label"]
	require.NotNil(t, ordinal.Oneof)
	assert.Same(t, ordinal.Oneof, label.Oneof)
	assert.True(t, ordinal.Oneof.ContinuousInParent)

	weights := byName["weights"]
	assert.True(t, weights.IsPacked, "proto3 repeated scalars pack by default")

	color := byName["color"]
	assert.Equal(t, KindEnum, color.Kind)
	assert.Equal(t, "vault.Color", color.TypeName)
	assert.Equal(t, RefNone, color.TypeRef)

	enum, ok := a.LookupEnum("vault.Color")
	require.True(t, ok)
	assert.Equal(t, "Color", enum.Name)
	require.Len(t, enum.Values, 2)
	assert.Equal(t, EnumValue{Name: "COLOR_UNSPECIFIED", Number: 0}, enum.Values[0])
}
