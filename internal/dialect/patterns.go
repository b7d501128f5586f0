package dialect

import (
	"strings"

	"apiscan/internal/token"
)

// ObserveTokenPair records token-pattern evidence, if any, using a sliding
// 2-token window over significant tokens. The caller feeds tokens in source order.
func ObserveTokenPair(e *Evidence, prev, tok token.Token) {
	if e == nil {
		return
	}

	// scope resolution: std::string, ::free
	if tok.IsPunct("::") {
		e.Add(Hint{Dialect: CPP, Score: 3, Reason: "scope resolution `::`", Span: tok.Span})
	}

	// template <...>
	if prev.IsKeyword("template") && tok.IsPunct("<") {
		e.Add(Hint{Dialect: CPP, Score: 4, Reason: "template parameter list", Span: prev.Span.Cover(tok.Span)})
	}

	// extern "C" is written by C++ code (or by headers shared with it)
	if prev.IsKeyword("extern") && tok.Kind == token.StringLiteral && tok.Text == `"C"` {
		e.Add(Hint{Dialect: CPP, Score: 2, Reason: `linkage specification extern "C"`, Span: prev.Span.Cover(tok.Span)})
	}
}

// cppHeaders are standard headers that only exist in C++.
var cppHeaders = map[string]struct{}{
	"iostream": {}, "string": {}, "vector": {}, "map": {}, "memory": {},
	"algorithm": {}, "utility": {}, "functional": {}, "optional": {}, "variant": {},
	"unordered_map": {}, "unordered_set": {}, "set": {}, "array": {}, "sstream": {},
	"fstream": {}, "thread": {}, "mutex": {}, "chrono": {}, "type_traits": {},
	"cstdio": {}, "cstdlib": {}, "cstring": {}, "cstdint": {}, "cmath": {}, "cassert": {},
}

// ObserveDirective records evidence from a preprocessor line.
func ObserveDirective(e *Evidence, tok token.Token) {
	if e == nil || tok.Kind != token.Directive {
		return
	}
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tok.Text), "#"))
	rest, ok := strings.CutPrefix(text, "include")
	if !ok {
		return
	}
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '<' {
		return
	}
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		return
	}
	header := rest[1:end]
	if _, ok := cppHeaders[header]; ok {
		e.Add(Hint{Dialect: CPP, Score: 5, Reason: "C++ standard header <" + header + ">", Span: tok.Span})
		return
	}
	switch header {
	case "stdbool.h", "stdatomic.h", "tgmath.h", "threads.h", "stdnoreturn.h":
		e.Add(Hint{Dialect: C, Score: 3, Reason: "C header <" + header + ">", Span: tok.Span})
	}
}
