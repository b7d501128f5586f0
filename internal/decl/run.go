package decl

import (
	"strings"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

// Tok is a significant token of a run.
type Tok struct {
	token.Token
	SpaceBefore bool // trivia separated it from the previous token
}

// Run is the token sequence between two terminators.
type Run []Tok

// Text joins the run into normalised source text: any trivia becomes one space.
func (r Run) Text() string {
	var sb strings.Builder
	for i, t := range r {
		if i > 0 && t.SpaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}

// Span covers the run from its first to its last token.
func (r Run) Span() source.Span {
	if len(r) == 0 {
		return source.Span{}
	}
	return r[0].Span.Cover(r[len(r)-1].Span)
}

// attributeCalls are words followed by a parenthesised group that carries no declaration.
var attributeCalls = map[string]bool{
	"__attribute__": true, "__attribute": true, "__declspec": true,
	"alignas": true, "_Alignas": true,
	"asm": true, "__asm__": true, "__asm": true,
}

var statementWords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "do": true, "switch": true,
	"case": true, "default": true, "return": true, "goto": true, "break": true,
	"continue": true, "throw": true, "try": true, "catch": true, "co_return": true,
	"co_yield": true, "co_await": true, "delete": true, "new": true,
	"public": true, "protected": true, "private": true,
	"static_assert": true, "_Static_assert": true,
}

func isStatementWord(t Tok) bool {
	return t.Kind == token.Keyword && statementWords[t.Text]
}

func isClassKey(t Tok) bool {
	return t.IsKeyword("class") || t.IsKeyword("struct") || t.IsKeyword("union") || t.IsKeyword("enum")
}

// strip removes attributes, template headers and the linkage string of
// `extern "C"` from the run. ok is false for runs that only look like
// declarations: explicit instantiations and friend declarations.
func strip(run Run) (out Run, mods Modifiers, ok bool) {
	out = make(Run, 0, len(run))
	for i := 0; i < len(run); {
		t := run[i]
		switch {
		case t.IsPunct("[") && i+1 < len(run) && run[i+1].IsPunct("["):
			i = skipGroup(run, i)
			continue
		case (t.Kind == token.Identifier || t.Kind == token.Keyword) && attributeCalls[t.Text]:
			if i+1 < len(run) && run[i+1].IsPunct("(") {
				i = skipGroup(run, i+1)
			} else {
				i++
			}
			continue
		case t.IsKeyword("template"):
			if i+1 >= len(run) || !run[i+1].IsPunct("<") {
				if len(out) == 0 || out[len(out)-1].IsKeyword("extern") {
					return nil, 0, false
				}
				i++
				continue
			}
			mods |= ModTemplate
			i = skipAngles(run, i+1)
			continue
		case t.IsKeyword("friend"):
			return nil, 0, false
		case t.IsKeyword("export") && len(out) == 0:
			i++
			continue
		case t.Kind == token.StringLiteral && len(out) > 0 && out[len(out)-1].IsKeyword("extern"):
			i++
			continue
		}
		out = append(out, t)
		i++
	}
	return out, mods, true
}

// skipGroup returns the index after the bracket group opened at r[i].
// An unclosed group extends to the end of the run.
func skipGroup(r Run, i int) int {
	depth := 0
	for ; i < len(r); i++ {
		if r[i].Kind != token.Punctuation {
			continue
		}
		switch r[i].Text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(r)
}

// skipAngles returns the index after the template argument list opened at r[i].
func skipAngles(r Run, i int) int {
	depth := 0
	for i < len(r) {
		t := r[i]
		if t.Kind == token.Punctuation {
			switch t.Text {
			case "(", "[", "{":
				i = skipGroup(r, i)
				continue
			case "<":
				depth++
			case ">":
				depth--
			case ">>":
				depth -= 2
			}
		}
		i++
		if depth <= 0 {
			return i
		}
	}
	return len(r)
}

// levels computes the bracket nesting of every token. Opening and closing
// brackets sit at the outer level. '<' counts as a bracket only after an
// identifier and outside initializers.
func levels(r Run) []int {
	lv := make([]int, len(r))
	var stack []string
	init := false
	for i, t := range r {
		d := len(stack)
		lv[i] = d
		if t.Kind != token.Punctuation {
			continue
		}
		switch t.Text {
		case "(", "[", "{":
			stack = append(stack, t.Text)
		case ")", "]", "}":
			for len(stack) > 0 && stack[len(stack)-1] == "<" {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			lv[i] = len(stack)
		case "<":
			if !init && i > 0 && (r[i-1].Kind == token.Identifier || r[i-1].IsKeyword("template")) {
				stack = append(stack, "<")
			}
		case ">", ">>":
			n := 1
			if t.Text == ">>" {
				n = 2
			}
			for n > 0 && len(stack) > 0 && stack[len(stack)-1] == "<" {
				stack = stack[:len(stack)-1]
				n--
			}
			lv[i] = len(stack)
		case "=":
			if d == 0 && !(i > 0 && r[i-1].IsKeyword("operator")) {
				init = true
			}
		case ",":
			if d == 0 {
				init = false
			}
		}
	}
	return lv
}

// splitTop returns the [start, end) bounds of the parts of r separated by
// top-level commas.
func splitTop(r Run, lv []int) [][2]int {
	var parts [][2]int
	start := 0
	for i, t := range r {
		if lv[i] == 0 && t.IsPunct(",") {
			parts = append(parts, [2]int{start, i})
			start = i + 1
		}
	}
	return append(parts, [2]int{start, len(r)})
}

// findTop returns the index of the first top-level punctuator p in r[from:to], or to.
func findTop(r Run, lv []int, from, to int, p string) int {
	for i := from; i < to; i++ {
		if lv[i] == 0 && r[i].IsPunct(p) {
			if p == "=" && i > 0 && r[i-1].IsKeyword("operator") {
				continue
			}
			return i
		}
	}
	return to
}

// closing returns the index of the bracket that closes r[open].
func closing(r Run, lv []int, open int) int {
	want := map[string]string{"(": ")", "[": "]", "{": "}"}[r[open].Text]
	for i := open + 1; i < len(r); i++ {
		if lv[i] == lv[open] && r[i].IsPunct(want) {
			return i
		}
	}
	return len(r)
}

// collectModifiers gathers specifier keywords of r[from:to] at the top level.
func collectModifiers(r Run, lv []int, from, to int) Modifiers {
	var m Modifiers
	for i := from; i < to; i++ {
		if lv[i] != 0 {
			continue
		}
		if r[i].Kind == token.Keyword || r[i].Kind == token.Identifier {
			m |= modifierWords[r[i].Text]
		}
	}
	return m
}

// skipModifierWords returns the index of the first token of r that is not a
// specifier keyword or cv-qualifier.
func skipModifierWords(r Run, i int) int {
	for ; i < len(r); i++ {
		t := r[i]
		if t.Kind != token.Keyword && t.Kind != token.Identifier {
			return i
		}
		if _, ok := modifierWords[t.Text]; ok {
			continue
		}
		if t.Text == "const" || t.Text == "volatile" {
			continue
		}
		return i
	}
	return i
}

func joinText(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
