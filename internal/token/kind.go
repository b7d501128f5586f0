package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid marks the unterminated remainder of a literal or comment.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace is a run of spaces, tabs, form feeds and vertical tabs.
	Whitespace
	// Newline is a single '\n'.
	Newline

	// Identifier represents a name.
	Identifier
	// Keyword represents a reserved C or C++ word.
	Keyword
	// Number represents a numeric literal (pp-number).
	Number
	// Punctuation represents an operator or separator.
	Punctuation
	// StringLiteral represents a string literal including prefix and quotes.
	StringLiteral
	// CharLiteral represents a character literal including prefix and quotes.
	CharLiteral

	// Comment represents an ordinary line or block comment.
	Comment
	// DocComment represents a comment with a documentation marker (///, //!, /**, /*!).
	DocComment
	// Directive represents a whole preprocessor line.
	Directive

	// Other represents any byte the lexer does not otherwise classify.
	Other
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Whitespace:    "Whitespace",
	Newline:       "Newline",
	Identifier:    "Identifier",
	Keyword:       "Keyword",
	Number:        "Number",
	Punctuation:   "Punctuation",
	StringLiteral: "StringLiteral",
	CharLiteral:   "CharLiteral",
	Comment:       "Comment",
	DocComment:    "DocComment",
	Directive:     "Directive",
	Other:         "Other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
