package dialect

import "fmt"

// Kind is the source language a file most resembles.
type Kind uint8

const (
	Unknown Kind = iota
	C
	CPP

	kindCount
)

func (k Kind) String() string {
	switch k {
	case C:
		return "c"
	case CPP:
		return "c++"
	default:
		return "unknown"
	}
}

func (k Kind) GoString() string {
	return fmt.Sprintf("dialect.Kind(%s)", k.String())
}

// ParseKind accepts the names produced by String.
func ParseKind(s string) Kind {
	switch s {
	case "c":
		return C
	case "c++":
		return CPP
	default:
		return Unknown
	}
}
