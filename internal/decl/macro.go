package decl

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

// RecognizeMacro recognises an object-like or function-like `#define NAME`.
func RecognizeMacro(tok token.Token) (Decl, bool) {
	if tok.Kind != token.Directive {
		return Decl{}, false
	}
	text := tok.Text
	i := skipBlank(text, 1)
	if !strings.HasPrefix(text[i:], "define") {
		return Decl{}, false
	}
	i += len("define")
	j := skipBlank(text, i)
	if j == i || j >= len(text) || !isNameStart(text[j]) {
		return Decl{}, false
	}
	end := j + 1
	for end < len(text) && isNamePart(text[end]) {
		end++
	}
	return Decl{
		Shape:     Macro,
		Name:      text[j:end],
		NameSpan:  subSpan(tok.Span, j, end),
		Span:      tok.Span,
		Signature: strings.Join(strings.Fields(strings.ReplaceAll(text, "\\\n", " ")), " "),
	}, true
}

// skipBlank skips spaces, tabs and line splices.
func skipBlank(s string, i int) int {
	for i < len(s) {
		switch {
		case s[i] == ' ' || s[i] == '\t':
			i++
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n':
			i += 2
		default:
			return i
		}
	}
	return i
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNamePart(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

func subSpan(sp source.Span, from, to int) source.Span {
	f, err := safecast.Conv[uint32](from)
	if err != nil {
		panic(fmt.Errorf("macro name offset overflow: %w", err))
	}
	t, err := safecast.Conv[uint32](to)
	if err != nil {
		panic(fmt.Errorf("macro name offset overflow: %w", err))
	}
	return source.Span{File: sp.File, Start: sp.Start + f, End: sp.Start + t}
}
