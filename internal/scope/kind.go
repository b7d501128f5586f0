package scope

// Kind enumerates lexical scope categories.
type Kind uint8

const (
	KindFile      Kind = iota // artificial root per file
	KindNamespace             // namespace N { ... }
	KindClass                 // class C { ... }
	KindStruct                // struct S { ... } and union U { ... }
	KindFunction              // function body, opaque
	KindEnum                  // enumerator list
	KindExtern                // extern "C" { ... }, transparent
	KindBlock                 // any other brace pair, opaque
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindNamespace:
		return "namespace"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindEnum:
		return "enum"
	case KindExtern:
		return "extern"
	case KindBlock:
		return "block"
	default:
		return "invalid"
	}
}

// IsRecord reports whether members of the scope are subject to access control.
func (k Kind) IsRecord() bool { return k == KindClass || k == KindStruct }

// IsOpaque reports whether declarations inside the scope are not recognised.
func (k Kind) IsOpaque() bool { return k == KindFunction || k == KindBlock }

// Access is a C++ access level.
type Access uint8

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "invalid"
	}
}

// ParseAccess maps an access keyword to its level.
func ParseAccess(word string) (Access, bool) {
	switch word {
	case "public":
		return AccessPublic, true
	case "protected":
		return AccessProtected, true
	case "private":
		return AccessPrivate, true
	}
	return AccessPublic, false
}

// LinkageHint records whether names declared directly in a scope can have external linkage.
type LinkageHint uint8

const (
	HintExternal LinkageHint = iota
	HintInternal
)

func (h LinkageHint) String() string {
	if h == HintInternal {
		return "internal"
	}
	return "external"
}
