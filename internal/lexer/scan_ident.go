package lexer

import (
	"apiscan/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans an identifier and classifies it through LookupKeyword.
// An encoding or raw prefix glued to a quote (u8"..", L'x', R"(..)") starts a literal instead.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 || (r >= utf8RuneSelf && !isIdentStartRune(r)) {
		// байт вне идентификатора
		lx.bumpRune()
		return lx.emit(token.Other, start)
	}
	for {
		r, sz = lx.peekRune()
		if sz == 0 {
			break
		}
		if r < utf8RuneSelf {
			if !isIdentContinueByte(byte(r)) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if !isIdentContinueRune(r) {
			break
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])

	switch q := lx.cursor.Peek(); {
	case q == '"' && isRawPrefix(text):
		return lx.scanRawString(start)
	case (q == '"' || q == '\'') && isEncodingPrefix(text):
		return lx.scanQuoted(start, q)
	}

	if token.LookupKeyword(text) {
		return token.Token{Kind: token.Keyword, Span: sp, Text: text}
	}
	return token.Token{Kind: token.Identifier, Span: sp, Text: text}
}

func isEncodingPrefix(s string) bool {
	switch s {
	case "L", "u", "U", "u8":
		return true
	}
	return false
}

func isRawPrefix(s string) bool {
	switch s {
	case "R", "LR", "uR", "UR", "u8R":
		return true
	}
	return false
}
