package generator

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

func scalar(name string, number int32, kind protoreflect.Kind) *schema.FieldSchema {
	return &schema.FieldSchema{
		Name:   name,
		Number: number,
		Label:  schema.LabelOptional,
		Kind:   schema.KindScalar,
		Proto:  kind,
	}
}

// member links a scalar field into o, both directions.
func member(o *schema.OneofSchema, name string, number int32, kind protoreflect.Kind) *schema.FieldSchema {
	f := scalar(name, number, kind)
	f.Oneof = o
	o.Fields = append(o.Fields, f)
	return f
}

func msgField(name string, number int32, typeName string, ref schema.MessageRef) *schema.FieldSchema {
	return &schema.FieldSchema{
		Name:     name,
		Number:   number,
		Label:    schema.LabelOptional,
		Kind:     schema.KindMessage,
		Proto:    protoreflect.MessageKind,
		TypeName: typeName,
		TypeRef:  ref,
	}
}

func register(a *schema.Arena, m *schema.MessageSchema) *schema.MessageSchema {
	a.Append(m)
	m.Finalize()
	return m
}

// rendered runs one emitter against a fresh printer.
func rendered(emit func(*swift.Printer)) string {
	p := swift.NewPrinter()
	emit(p)
	return p.String()
}
