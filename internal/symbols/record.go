package symbols

import (
	"strings"

	"apiscan/internal/decl"
	"apiscan/internal/source"
)

// Kind classifies what a record declares.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFunction
	KindVariable
	KindType
	KindEnum
	KindEnumerator
	KindNamespace
	KindMacro
	KindMethod // member function of a class, struct or union
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindType:
		return "type"
	case KindEnum:
		return "enum"
	case KindEnumerator:
		return "enumerator"
	case KindNamespace:
		return "namespace"
	case KindMacro:
		return "macro"
	case KindMethod:
		return "method"
	default:
		return "invalid"
	}
}

// KindOf maps a declaration shape to a record kind.
func KindOf(s decl.Shape) Kind {
	switch s {
	case decl.Function:
		return KindFunction
	case decl.Variable:
		return KindVariable
	case decl.Type:
		return KindType
	case decl.Enum:
		return KindEnum
	case decl.Enumerator:
		return KindEnumerator
	case decl.Namespace:
		return KindNamespace
	case decl.Macro:
		return KindMacro
	default:
		return KindInvalid
	}
}

// Visibility is the effective API exposure of a symbol.
type Visibility uint8

const (
	Public Visibility = iota
	Internal
	Inaccessible
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Internal:
		return "internal"
	case Inaccessible:
		return "inaccessible"
	default:
		return "invalid"
	}
}

// ParseVisibility accepts the names produced by String.
func ParseVisibility(s string) (Visibility, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "public":
		return Public, true
	case "internal":
		return Internal, true
	case "inaccessible":
		return Inaccessible, true
	}
	return Public, false
}

// Linkage is the translation-unit linkage of a symbol.
type Linkage uint8

const (
	LinkageExternal Linkage = iota
	LinkageInternal
	LinkageNone
)

func (l Linkage) String() string {
	switch l {
	case LinkageExternal:
		return "external"
	case LinkageInternal:
		return "internal"
	case LinkageNone:
		return "none"
	default:
		return "invalid"
	}
}

// ParseLinkage accepts the names produced by String.
func ParseLinkage(s string) (Linkage, bool) {
	switch s {
	case "external":
		return LinkageExternal, true
	case "internal":
		return LinkageInternal, true
	case "none":
		return LinkageNone, true
	}
	return LinkageNone, false
}

// ParseKind accepts the names produced by Kind.String.
func ParseKind(s string) (Kind, bool) {
	for k := KindFunction; k <= KindMethod; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return KindInvalid, false
}

// Record is the unit of a manifest. Records are immutable once emitted.
type Record struct {
	Name       string
	Kind       Kind
	Scope      []string // enclosing names, outermost first
	Visibility Visibility
	Linkage    Linkage
	Doc        string
	Signature  string
	Modifiers  []string
	Span       source.Span
	Pos        source.LineCol // position of the name
	EndLine    uint32
}

// ScopePath returns the qualified name, e.g. "Utils::clamp".
func (r Record) ScopePath() string {
	if len(r.Scope) == 0 {
		return r.Name
	}
	return strings.Join(r.Scope, "::") + "::" + r.Name
}

// HasDoc reports whether a documentation comment was attached.
func (r Record) HasDoc() bool { return r.Doc != "" }
