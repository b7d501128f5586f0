package token

// keywords holds the reserved words of C17 and C++20.
var keywords = map[string]struct{}{
	"alignas": {}, "alignof": {}, "asm": {}, "auto": {}, "bool": {}, "break": {},
	"case": {}, "catch": {}, "char": {}, "char8_t": {}, "char16_t": {}, "char32_t": {},
	"class": {}, "concept": {}, "const": {}, "consteval": {}, "constexpr": {}, "constinit": {},
	"const_cast": {}, "continue": {}, "co_await": {}, "co_return": {}, "co_yield": {},
	"decltype": {}, "default": {}, "delete": {}, "do": {}, "double": {}, "dynamic_cast": {},
	"else": {}, "enum": {}, "explicit": {}, "export": {}, "extern": {}, "false": {},
	"float": {}, "for": {}, "friend": {}, "goto": {}, "if": {}, "inline": {}, "int": {},
	"long": {}, "mutable": {}, "namespace": {}, "new": {}, "noexcept": {}, "nullptr": {},
	"operator": {}, "private": {}, "protected": {}, "public": {}, "register": {},
	"reinterpret_cast": {}, "requires": {}, "restrict": {}, "return": {}, "short": {},
	"signed": {}, "sizeof": {}, "static": {}, "static_assert": {}, "static_cast": {},
	"struct": {}, "switch": {}, "template": {}, "this": {}, "thread_local": {}, "throw": {},
	"true": {}, "try": {}, "typedef": {}, "typeid": {}, "typename": {}, "union": {},
	"unsigned": {}, "using": {}, "virtual": {}, "void": {}, "volatile": {}, "wchar_t": {},
	"while": {},
	"_Alignas": {}, "_Alignof": {}, "_Atomic": {}, "_Bool": {}, "_Complex": {},
	"_Generic": {}, "_Imaginary": {}, "_Noreturn": {}, "_Static_assert": {}, "_Thread_local": {},
}

// LookupKeyword reports whether ident is a reserved word.
// Keywords are case sensitive.
func LookupKeyword(ident string) bool {
	_, ok := keywords[ident]
	return ok
}
