package lexer

import (
	"apiscan/internal/diag"
	"apiscan/internal/token"
)

const maxRawDelimiter = 16

// scanQuoted scans a string or character literal whose opening quote is at the cursor.
// start may precede the cursor when an encoding prefix was already consumed.
// A literal cannot span lines: an unescaped newline or EOF ends it as an Invalid token.
func (lx *Lexer) scanQuoted(start Mark, quote byte) token.Token {
	kind := token.StringLiteral
	what := "string"
	if quote == '\'' {
		kind = token.CharLiteral
		what = "character"
	}

	lx.cursor.Bump() // открывающая кавычка
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return lx.emit(kind, start)
		case '\\':
			// escape: съедаем '\' и следующий байт, включая перевод строки
			lx.cursor.Bump()
			lx.cursor.Bump()
			continue
		case '\n':
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexUnterminatedLiteral, tok.Span, "missing terminating "+string(quote)+" in "+what+" literal")
			return tok
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedLiteral, tok.Span, "unterminated "+what+" literal at end of input")
	return tok
}

// scanRawString scans R"delim( ... )delim". The body may span lines and has no escapes.
// A malformed delimiter falls back to an ordinary string literal.
func (lx *Lexer) scanRawString(start Mark) token.Token {
	quote := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	delimStart := lx.cursor.Off
	for lx.cursor.Peek() != '(' {
		b := lx.cursor.Peek()
		if lx.cursor.EOF() || lx.cursor.Off-delimStart >= maxRawDelimiter ||
			b == ')' || b == '\\' || b == '"' || isSpace(b) || b == '\n' {
			lx.cursor.Reset(quote)
			return lx.scanQuoted(start, '"')
		}
		lx.cursor.Bump()
	}
	delim := lx.file.Content[delimStart:lx.cursor.Off]
	lx.cursor.Bump() // '('

	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == ')' && lx.hasRawTerminator(delim) {
			lx.cursor.Off += uint32(len(delim)) + 2 //nolint:gosec // len(delim) <= maxRawDelimiter
			return lx.emit(token.StringLiteral, start)
		}
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Invalid, start)
	lx.errLex(diag.LexUnterminatedLiteral, tok.Span, "unterminated raw string literal")
	return tok
}

// hasRawTerminator checks for ')delim"' at the cursor.
func (lx *Lexer) hasRawTerminator(delim []byte) bool {
	off := int(lx.cursor.Off) + 1
	content := lx.file.Content
	if off+len(delim) >= len(content) {
		return false
	}
	for i, b := range delim {
		if content[off+i] != b {
			return false
		}
	}
	return content[off+len(delim)] == '"'
}
