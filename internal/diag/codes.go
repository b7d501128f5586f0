package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnterminatedLiteral Code = 1001
	LexUnterminatedComment Code = 1002

	// Скоупы
	ScopeInfo               Code = 2000
	ScopeUnbalanced         Code = 2001
	ScopeUnterminated       Code = 2002
	ScopeMaxNestingExceeded Code = 2003

	// Распознавание объявлений
	DeclInfo            Code = 3000
	DeclDuplicateRecord Code = 3001

	// I/O
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Конфигурация
	CfgInfo          Code = 5000
	CfgInvalidConfig Code = 5001
	CfgInvalidGlob   Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:             "Unknown error",
	LexInfo:                 "Lexical information",
	LexUnterminatedLiteral:  "Unterminated string or character literal",
	LexUnterminatedComment:  "Unterminated block comment",
	ScopeInfo:               "Scope information",
	ScopeUnbalanced:         "Closing brace without a matching opening brace",
	ScopeUnterminated:       "Scope is not closed before end of input",
	ScopeMaxNestingExceeded: "Maximum nesting depth exceeded",
	DeclInfo:                "Declaration information",
	DeclDuplicateRecord:     "Duplicate symbol record dropped",
	IOInfo:                  "I/O information",
	IOLoadFileError:         "Failed to load file",
	IOCacheError:            "Manifest cache failure",
	CfgInfo:                 "Configuration information",
	CfgInvalidConfig:        "Invalid configuration",
	CfgInvalidGlob:          "Invalid glob pattern",
}

// IsScopeImbalance reports whether the code belongs to the unbalanced scope class.
func (c Code) IsScopeImbalance() bool {
	return c == ScopeUnbalanced || c == ScopeUnterminated
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
