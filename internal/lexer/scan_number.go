package lexer

import (
	"apiscan/internal/token"
)

// scanNumber consumes a preprocessing number: digits, letters, '.', exponent signs
// and digit separators. Validation is not needed for declaration recognition.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	prev := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case isIdentContinueByte(b) || b == '.':
		case (b == '+' || b == '-') && isExponentMark(prev):
		case b == '\'' && isHex(prev) && isIdentContinueByte(lx.cursor.PeekAt(1)):
			// разделитель разрядов C++14: 1'000'000
		default:
			return lx.emit(token.Number, start)
		}
		prev = lx.cursor.Bump()
	}
	return lx.emit(token.Number, start)
}

func isExponentMark(b byte) bool {
	return b == 'e' || b == 'E' || b == 'p' || b == 'P'
}
