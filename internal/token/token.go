package token

import (
	"apiscan/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsTrivia reports whether the token carries no syntax: whitespace, newlines and comments.
func (t Token) IsTrivia() bool {
	switch t.Kind {
	case Whitespace, Newline, Comment, DocComment:
		return true
	default:
		return false
	}
}

// IsComment reports whether the token is an ordinary or documentation comment.
func (t Token) IsComment() bool {
	return t.Kind == Comment || t.Kind == DocComment
}

// IsLiteral reports whether the token is a numeric, string or character literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case Number, StringLiteral, CharLiteral:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Identifier }

// IsKeyword reports whether the token is the keyword kw.
func (t Token) IsKeyword(kw string) bool { return t.Kind == Keyword && t.Text == kw }

// IsPunct reports whether the token is the punctuator p.
func (t Token) IsPunct(p string) bool { return t.Kind == Punctuation && t.Text == p }

// IsWord reports whether the token is an identifier or keyword spelled w.
func (t Token) IsWord(w string) bool {
	return (t.Kind == Identifier || t.Kind == Keyword) && t.Text == w
}
