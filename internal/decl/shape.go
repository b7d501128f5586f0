package decl

import (
	"apiscan/internal/source"
)

// Shape is the closed set of declaration forms.
type Shape uint8

const (
	Unrecognized Shape = iota
	Function
	Variable
	Type
	Enum
	Enumerator
	Namespace
	Macro
)

var shapeNames = [...]string{
	Unrecognized: "unrecognized",
	Function:     "function",
	Variable:     "variable",
	Type:         "type",
	Enum:         "enum",
	Enumerator:   "enumerator",
	Namespace:    "namespace",
	Macro:        "macro",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "invalid"
}

// ParseShape is the inverse of Shape.String.
func ParseShape(name string) (Shape, bool) {
	for i, n := range shapeNames {
		if n == name {
			return Shape(i), true
		}
	}
	return Unrecognized, false
}

// Modifiers is a set of declaration specifiers that matter for classification.
type Modifiers uint16

const (
	ModStatic Modifiers = 1 << iota
	ModExtern
	ModInline
	ModConstexpr
	ModVirtual
	ModExplicit
	ModThreadLocal
	ModMutable
	ModRegister
	ModTypedef
	ModFriend
	ModTemplate
)

var modifierNames = [...]string{
	"static", "extern", "inline", "constexpr", "virtual", "explicit",
	"thread_local", "mutable", "register", "typedef", "friend", "template",
}

var modifierWords = map[string]Modifiers{
	"static":        ModStatic,
	"extern":        ModExtern,
	"inline":        ModInline,
	"__inline":      ModInline,
	"__inline__":    ModInline,
	"constexpr":     ModConstexpr,
	"consteval":     ModConstexpr,
	"constinit":     ModConstexpr,
	"virtual":       ModVirtual,
	"explicit":      ModExplicit,
	"thread_local":  ModThreadLocal,
	"_Thread_local": ModThreadLocal,
	"__thread":      ModThreadLocal,
	"mutable":       ModMutable,
	"register":      ModRegister,
	"typedef":       ModTypedef,
	"friend":        ModFriend,
}

func (m Modifiers) Has(f Modifiers) bool { return m&f != 0 }

// Strings lists the set modifiers in declaration order.
func (m Modifiers) Strings() []string {
	var out []string
	for i, name := range modifierNames {
		if m&(1<<i) != 0 {
			out = append(out, name)
		}
	}
	return out
}

// ParseModifiers is the inverse of Strings. Unknown names are ignored.
func ParseModifiers(names []string) Modifiers {
	var m Modifiers
	for _, n := range names {
		for i, name := range modifierNames {
			if name == n {
				m |= 1 << i
			}
		}
	}
	return m
}

// Decl is one recognised declaration.
type Decl struct {
	Shape     Shape
	Name      string
	Qualifier []string // A, B for an out-of-line A::B::name
	Modifiers Modifiers
	NameSpan  source.Span
	Span      source.Span
	Signature string
}

func (d Decl) IsStatic() bool { return d.Modifiers.Has(ModStatic) }

// Context is what the recognizer needs to know about the enclosing scope.
type Context struct {
	InRecord bool
	Record   string                  // name of the enclosing class or struct, may be empty
	Line     func(off uint32) uint32 // names anonymous types; nil leaves the line out
}
