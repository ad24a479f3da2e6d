package generator

import (
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/noom/swift-protobuf/schema"
	"github.com/noom/swift-protobuf/swift"
)

// Namer resolves every Swift-side name of one plugin run. Member names
// are claimed up front, scope by scope, so two distinct schema entities
// never collide: a claimed name that is already taken grows trailing
// underscores until it is free.
type Namer struct {
	arena *schema.Arena

	properties map[*schema.FieldSchema]string // disambiguated lowerCamel, unescaped
	oneofProps map[*schema.OneofSchema]string
	enumCases  map[*schema.EnumSchema][]string
}

func NewNamer(arena *schema.Arena) *Namer {
	n := &Namer{
		arena:      arena,
		properties: make(map[*schema.FieldSchema]string),
		oneofProps: make(map[*schema.OneofSchema]string),
		enumCases:  make(map[*schema.EnumSchema][]string),
	}
	for _, m := range arena.Messages() {
		n.claimMembers(m)
	}
	return n
}

// claimMembers hands out the member namespace of one message in
// declaration order: every field property first, then every oneof
// property.
func (n *Namer) claimMembers(m *schema.MessageSchema) {
	used := make(map[string]bool, len(m.Fields)+len(m.Oneofs))
	claim := func(base string) string {
		name := base
		for used[name] {
			name += "_"
		}
		used[name] = true
		return name
	}
	for _, f := range m.Fields {
		n.properties[f] = claim(strcase.ToLowerCamel(f.Name))
	}
	for _, o := range m.Oneofs {
		n.oneofProps[o] = claim(strcase.ToLowerCamel(o.Name))
	}
}

// MangledPackage turns a proto package into the prefix carried by its
// top-level Swift types: each dot component UpperCamelCased, joined
// with underscores. "tutorial.v1" becomes "Tutorial_V1".
func MangledPackage(pkg string) string {
	if pkg == "" {
		return ""
	}
	comps := strings.Split(pkg, ".")
	for i, c := range comps {
		comps[i] = strcase.ToCamel(c)
	}
	return strings.Join(comps, "_")
}

// swiftTypePath maps a proto full name into the dotted Swift path: the
// package collapses into the first component's prefix, nesting stays
// dotted. "vault" + "vault.Ledger.Entry" becomes "Vault_Ledger.Entry".
func swiftTypePath(pkg, fullName string) string {
	rel := fullName
	if pkg != "" {
		rel = strings.TrimPrefix(fullName, pkg+".")
	}
	comps := strings.Split(rel, ".")
	for i, c := range comps {
		comps[i] = swift.SanitizeTypeName(c)
	}
	if prefix := MangledPackage(pkg); prefix != "" {
		comps[0] = prefix + "_" + comps[0]
	}
	return strings.Join(comps, ".")
}

// declaredName is the component written at the declaration site: the
// whole mangled name for top-level types, the simple name for nested
// ones (the parent provides the rest of the path).
func declaredName(swiftFullName string) string {
	if idx := strings.LastIndex(swiftFullName, "."); idx >= 0 {
		return swiftFullName[idx+1:]
	}
	return swiftFullName
}

// MessageType returns the fully qualified Swift type of m.
func (n *Namer) MessageType(m *schema.MessageSchema) string {
	return swiftTypePath(m.Package, m.FullName)
}

// MessageTypeRef resolves ref through the arena.
func (n *Namer) MessageTypeRef(ref schema.MessageRef) string {
	return n.MessageType(n.arena.Message(ref))
}

// MessageTypeName resolves a proto full name, falling back to a
// heuristic split for types outside the compiled set: leading lowercase
// components are treated as the package.
func (n *Namer) MessageTypeName(fullName string) string {
	if ref, ok := n.arena.Lookup(fullName); ok {
		return n.MessageTypeRef(ref)
	}
	return swiftTypePath(guessPackage(fullName), fullName)
}

// EnumType returns the fully qualified Swift type of e.
func (n *Namer) EnumType(e *schema.EnumSchema) string {
	return swiftTypePath(e.Package, e.FullName)
}

// EnumTypeName resolves a proto full name through the arena, with the
// same fallback as MessageTypeName.
func (n *Namer) EnumTypeName(fullName string) string {
	if e, ok := n.arena.LookupEnum(fullName); ok {
		return n.EnumType(e)
	}
	return swiftTypePath(guessPackage(fullName), fullName)
}

func guessPackage(fullName string) string {
	comps := strings.Split(fullName, ".")
	n := 0
	for n < len(comps)-1 && len(comps[n]) > 0 && comps[n][0] >= 'a' && comps[n][0] <= 'z' {
		n++
	}
	return strings.Join(comps[:n], ".")
}

// DeclaredMessageName is the name written on the struct declaration.
func (n *Namer) DeclaredMessageName(m *schema.MessageSchema) string {
	return declaredName(n.MessageType(m))
}

// DeclaredEnumName is the name written on the enum declaration.
func (n *Namer) DeclaredEnumName(e *schema.EnumSchema) string {
	return declaredName(n.EnumType(e))
}

// Property returns the Swift property name of a field, keyword-escaped.
// Oneof members use the same name for the case and the proxy accessor.
func (n *Namer) Property(f *schema.FieldSchema) string {
	return swift.QuoteMemberName(n.properties[f])
}

// StorageProperty is the backing slot behind an explicit-presence
// accessor or a storage-class field. The underscore prefix keeps it out
// of keyword territory, so no escaping.
func (n *Namer) StorageProperty(f *schema.FieldSchema) string {
	return "_" + n.properties[f]
}

// HasProperty names the presence query of an explicit-presence field.
func (n *Namer) HasProperty(f *schema.FieldSchema) string {
	return "has" + upperFirst(n.properties[f])
}

// ClearMethod names the presence reset of an explicit-presence field.
func (n *Namer) ClearMethod(f *schema.FieldSchema) string {
	return "clear" + upperFirst(n.properties[f])
}

// OneofProperty returns the Swift property holding the oneof value.
func (n *Namer) OneofProperty(o *schema.OneofSchema) string {
	return swift.QuoteMemberName(n.oneofProps[o])
}

// OneofStorageProperty is the oneof's slot inside a storage class.
func (n *Namer) OneofStorageProperty(o *schema.OneofSchema) string {
	return "_" + n.oneofProps[o]
}

// OneofTypeName is the nested enum type representing the oneof.
func (n *Namer) OneofTypeName(o *schema.OneofSchema) string {
	return "OneOf_" + strcase.ToCamel(o.Name)
}

// QualifiedOneofTypeName is the oneof enum as seen from outside the
// message.
func (n *Namer) QualifiedOneofTypeName(m *schema.MessageSchema, o *schema.OneofSchema) string {
	return n.MessageType(m) + "." + n.OneofTypeName(o)
}

// EnumCaseName returns the Swift case of value index i, with the
// enum-name prefix stripped when that leaves a usable identifier.
func (n *Namer) EnumCaseName(e *schema.EnumSchema, i int) string {
	return swift.QuoteMemberName(n.caseNamesFor(e)[i])
}

// EnumDefaultCase is the dotted expression an unset field of the enum
// reads as: the zero-numbered case for proto3, the first declared one
// for proto2.
func (n *Namer) EnumDefaultCase(fullName string) string {
	e, ok := n.arena.LookupEnum(fullName)
	if !ok || len(e.Values) == 0 {
		return ".init()"
	}
	idx := 0
	if e.Syntax == schema.SyntaxProto3 {
		for i, v := range e.Values {
			if v.Number == 0 {
				idx = i
				break
			}
		}
	}
	return "." + n.EnumCaseName(e, idx)
}

func (n *Namer) caseNamesFor(e *schema.EnumSchema) []string {
	if names, ok := n.enumCases[e]; ok {
		return names
	}
	used := make(map[string]bool, len(e.Values))
	names := make([]string, len(e.Values))
	for i, v := range e.Values {
		base := strcase.ToLowerCamel(stripEnumPrefix(e.Name, v.Name))
		for used[base] {
			base += "_"
		}
		used[base] = true
		names[i] = base
	}
	n.enumCases[e] = names
	return names
}

// stripEnumPrefix drops a COLOR_ style prefix from COLOR_RED when the
// prefix spells the enum name, case and underscores ignored, and the
// remainder still starts an identifier.
func stripEnumPrefix(enumName, valueName string) string {
	want := strings.ToLower(strings.ReplaceAll(enumName, "_", ""))
	lower := strings.ToLower(valueName)
	i, matched := 0, 0
	for i < len(lower) && matched < len(want) {
		if lower[i] == '_' {
			i++
			continue
		}
		if lower[i] != want[matched] {
			return valueName
		}
		i++
		matched++
	}
	if matched < len(want) {
		return valueName
	}
	rest := strings.TrimLeft(valueName[i:], "_")
	if rest == "" || (rest[0] >= '0' && rest[0] <= '9') {
		return valueName
	}
	return rest
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
