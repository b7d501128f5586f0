package lexer

import (
	"apiscan/internal/token"
)

// scanOperatorOrPunct is greedy: 3-byte punctuators first, then 2-byte, then single bytes.
// Bytes that are not C/C++ punctuators become Other.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try3('.', '.', '.'),
		lx.try3('<', '<', '='),
		lx.try3('>', '>', '='),
		lx.try3('<', '=', '>'),
		lx.try3('-', '>', '*'):
		return lx.emit(token.Punctuation, start)
	case lx.try2(':', ':'),
		lx.try2('-', '>'),
		lx.try2('.', '*'),
		lx.try2('+', '+'),
		lx.try2('-', '-'),
		lx.try2('&', '&'),
		lx.try2('|', '|'),
		lx.try2('=', '='),
		lx.try2('!', '='),
		lx.try2('<', '='),
		lx.try2('>', '='),
		lx.try2('<', '<'),
		lx.try2('>', '>'),
		lx.try2('+', '='),
		lx.try2('-', '='),
		lx.try2('*', '='),
		lx.try2('/', '='),
		lx.try2('%', '='),
		lx.try2('&', '='),
		lx.try2('|', '='),
		lx.try2('^', '='),
		lx.try2('#', '#'):
		return lx.emit(token.Punctuation, start)
	}

	switch lx.cursor.Bump() {
	case '{', '}', '[', ']', '(', ')', ';', ':', ',', '.', '?', '~', '!',
		'+', '-', '*', '/', '%', '^', '&', '|', '=', '<', '>', '#':
		return lx.emit(token.Punctuation, start)
	default:
		return lx.emit(token.Other, start)
	}
}
