package lexer

import (
	"strings"

	"apiscan/internal/diag"
	"apiscan/internal/token"
)

// scanComment scans `//...` up to the newline or `/* ... */`.
// Block comments do not nest. An unterminated block comment swallows the rest
// of the input as a single Invalid token.
func (lx *Lexer) scanComment() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	if lx.cursor.Bump() == '/' {
		// line splice продлевает однострочный комментарий
		for !lx.cursor.EOF() {
			if lx.isLineSplice() {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			if lx.cursor.Peek() == '\n' {
				break
			}
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Comment, start)
		if IsDocMarker(tok.Text) {
			tok.Kind = token.DocComment
		}
		return tok
	}

	for !lx.cursor.EOF() {
		if lx.try2('*', '/') {
			tok := lx.emit(token.Comment, start)
			if IsDocMarker(tok.Text) {
				tok.Kind = token.DocComment
			}
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedComment, tok.Span, "unterminated block comment")
	return tok
}

// IsDocMarker reports whether comment text starts with a documentation marker:
// `///`, `//!`, `/**` or `/*!`. Banner lines (`////`, `/***`), the empty block
// `/**/` and trailing member docs (`///<`, `//!<`, `/**<`, `/*!<`) are ordinary.
func IsDocMarker(text string) bool {
	var rest string
	switch {
	case strings.HasPrefix(text, "///"):
		rest = text[3:]
		if strings.HasPrefix(rest, "/") {
			return false
		}
	case strings.HasPrefix(text, "//!"):
		rest = text[3:]
	case strings.HasPrefix(text, "/**"):
		rest = text[3:]
		if strings.HasPrefix(rest, "*") || strings.HasPrefix(rest, "/") {
			return false
		}
	case strings.HasPrefix(text, "/*!"):
		rest = text[3:]
	default:
		return false
	}
	return !strings.HasPrefix(rest, "<")
}
