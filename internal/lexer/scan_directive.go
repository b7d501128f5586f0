package lexer

import (
	"apiscan/internal/diag"
	"apiscan/internal/token"
)

// scanDirective scans a preprocessor line starting at '#'. Backslash continuations
// and block comments extend the directive; a trailing `//` comment is left for the
// next token. Quotes are skipped only when they close on the same line, so text such
// as `#error don't` does not run away.
func (lx *Lexer) scanDirective() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n':
			return lx.emit(token.Directive, start)
		case lx.isLineSplice():
			lx.cursor.Bump()
			lx.cursor.Bump()
		case b == '/' && lx.cursor.PeekAt(1) == '/':
			return lx.emit(token.Directive, start)
		case b == '/' && lx.cursor.PeekAt(1) == '*':
			if !lx.skipBlockComment() {
				tok := lx.emit(token.Invalid, start)
				lx.errLex(diag.LexUnterminatedComment, tok.Span, "unterminated block comment in preprocessor directive")
				return tok
			}
		case b == '"' || b == '\'':
			lx.skipQuotedOnLine(b)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.emit(token.Directive, start)
}

func (lx *Lexer) skipBlockComment() bool {
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			return true
		}
		lx.cursor.Bump()
	}
	return false
}

func (lx *Lexer) skipQuotedOnLine(quote byte) {
	m := lx.cursor.Mark()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case quote:
			lx.cursor.Bump()
			return
		case '\\':
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case '\n':
			// кавычка без пары: считаем её обычным символом
			lx.cursor.Reset(m)
			lx.cursor.Bump()
			return
		}
		lx.cursor.Bump()
	}
	lx.cursor.Reset(m)
	lx.cursor.Bump()
}
