package swift

// Swift keywords and declaration names that cannot be used verbatim as
// identifiers in emitted code. Most positions accept a backtick-quoted
// keyword; the handful below never do.
var reservedWords = map[string]bool{
	"associatedtype": true, "class": true, "deinit": true, "enum": true,
	"extension": true, "fileprivate": true, "func": true, "import": true,
	"init": true, "inout": true, "internal": true, "let": true,
	"open": true, "operator": true, "private": true, "protocol": true,
	"public": true, "rethrows": true, "static": true, "struct": true,
	"subscript": true, "typealias": true, "var": true,
	"break": true, "case": true, "continue": true, "default": true,
	"defer": true, "do": true, "else": true, "fallthrough": true,
	"for": true, "guard": true, "if": true, "in": true, "repeat": true,
	"return": true, "switch": true, "where": true, "while": true,
	"as": true, "catch": true, "false": true, "is": true, "nil": true,
	"throw": true, "throws": true, "true": true, "try": true,
}

// Backticks are rejected for these even in member position.
var unquotableWords = map[string]bool{
	"self":  true,
	"Self":  true,
	"super": true,
	"Any":   true,
	"Type":  true,
}

// IsReserved reports whether name collides with a Swift keyword.
func IsReserved(name string) bool {
	return reservedWords[name] || unquotableWords[name]
}

// QuoteMemberName makes name usable as a property, case, or parameter
// name: keywords are backtick-quoted where Swift allows it, the few
// unquotable names get an underscore suffix.
func QuoteMemberName(name string) string {
	if unquotableWords[name] {
		return name + "_"
	}
	if reservedWords[name] {
		return "`" + name + "`"
	}
	return name
}

// SanitizeTypeName makes name usable as a type declaration name.
// Backticked type names read poorly at every use site, so collisions
// take an underscore suffix instead.
func SanitizeTypeName(name string) string {
	if IsReserved(name) {
		return name + "_"
	}
	return name
}
