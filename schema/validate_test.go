package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validArena(t *testing.T) *Arena {
	t.Helper()
	a := NewArena()
	m := &MessageSchema{
		Name:     "Record",
		FullName: "vault.Record",
		Fields: []*FieldSchema{
			{Name: "id", Number: 1, Kind: KindScalar},
			{Name: "blob", Number: 2, Kind: KindScalar},
		},
		ExtensionIntervals: []ExtensionInterval{{Start: 100, End: 201}, {Start: 300, End: 301}},
	}
	m.Finalize()
	a.Append(m)
	return a
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validArena(t).Validate())
}

func TestValidate_Violations(t *testing.T) {
	oneof := &OneofSchema{Name: "choice"}
	orphan := &FieldSchema{Name: "stray", Number: 3, Kind: KindScalar, Oneof: oneof}

	tests := []struct {
		name    string
		message *MessageSchema
		substr  string
	}{
		{
			name: "nonpositive field number",
			message: &MessageSchema{
				FullName: "vault.Bad",
				Fields:   []*FieldSchema{{Name: "zero", Number: 0, Kind: KindScalar}},
			},
			substr: "must be positive",
		},
		{
			name: "duplicate field number",
			message: &MessageSchema{
				FullName: "vault.Bad",
				Fields: []*FieldSchema{
					{Name: "a", Number: 4, Kind: KindScalar},
					{Name: "b", Number: 4, Kind: KindScalar},
				},
			},
			substr: `field number 4 already used by "a"`,
		},
		{
			name: "undeclared oneof",
			message: &MessageSchema{
				FullName: "vault.Bad",
				Fields:   []*FieldSchema{orphan},
			},
			substr: "does not declare",
		},
		{
			name: "malformed interval",
			message: &MessageSchema{
				FullName:           "vault.Bad",
				ExtensionIntervals: []ExtensionInterval{{Start: 10, End: 10}},
			},
			substr: "malformed extension interval [10,10)",
		},
		{
			name: "overlapping intervals",
			message: &MessageSchema{
				FullName:           "vault.Bad",
				ExtensionIntervals: []ExtensionInterval{{Start: 10, End: 20}, {Start: 15, End: 30}},
			},
			substr: "overlaps",
		},
		{
			name: "field inside interval",
			message: &MessageSchema{
				FullName:           "vault.Bad",
				Fields:             []*FieldSchema{{Name: "inside", Number: 12, Kind: KindScalar}},
				ExtensionIntervals: []ExtensionInterval{{Start: 10, End: 20}},
			},
			substr: "falls inside extension interval [10,20)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArena()
			a.Append(tt.message)
			err := a.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
			assert.Contains(t, err.Error(), "vault.Bad")
		})
	}
}

func TestValidate_OneofBacklink(t *testing.T) {
	one := &OneofSchema{Name: "choice"}
	member := &FieldSchema{Name: "raw", Number: 1, Kind: KindScalar, Oneof: one}
	stranger := &FieldSchema{Name: "other", Number: 2, Kind: KindScalar}
	one.Fields = []*FieldSchema{member, stranger}

	a := NewArena()
	a.Append(&MessageSchema{
		FullName: "vault.Bad",
		Fields:   []*FieldSchema{member, stranger},
		Oneofs:   []*OneofSchema{one},
	})
	err := a.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not link back")
}

func TestError_Formatting(t *testing.T) {
	withField := &Error{FullName: "pkg.M", Field: "f", Detail: "boom"}
	assert.Equal(t, `schema pkg.M: field "f": boom`, withField.Error())
	bare := &Error{FullName: "pkg.M", Detail: "boom"}
	assert.Equal(t, "schema pkg.M: boom", bare.Error())
}
