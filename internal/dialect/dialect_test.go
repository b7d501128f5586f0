package dialect_test

import (
	"testing"

	"apiscan/internal/dialect"
	"apiscan/internal/lexer"
	"apiscan/internal/source"
	"apiscan/internal/token"
)

func classify(name, src string) dialect.Classification {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	ev := dialect.NewEvidence()
	dialect.RecordPath(ev, file)

	var prev token.Token
	for tok := range lexer.New(file, lexer.Options{}).All() {
		switch {
		case tok.Kind == token.Directive:
			dialect.ObserveDirective(ev, tok)
			continue
		case tok.IsTrivia():
			continue
		case tok.Kind == token.Keyword || tok.Kind == token.Identifier:
			dialect.RecordWord(ev, tok.Text, tok.Span)
		}
		dialect.ObserveTokenPair(ev, prev, tok)
		prev = tok
	}
	return dialect.Classifier{}.Classify(ev)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		file string
		src  string
		want dialect.Kind
	}{
		{"c extension", "util.c", "int add(int a, int b);\n", dialect.C},
		{"cpp extension", "util.cpp", "int add(int a, int b);\n", dialect.CPP},
		{"header with namespace", "api.h", "namespace api { int run(); }\n", dialect.CPP},
		{"header with restrict", "api.h", "void copy(char *restrict dst, const char *restrict src);\n", dialect.C},
		{"cpp header include", "api.h", "#include <vector>\nint n;\n", dialect.CPP},
		{"template", "api.h", "template <typename T> T id(T v);\n", dialect.CPP},
		{"scope resolution", "api.h", "int x = ::global;\n", dialect.CPP},
		{"plain header", "api.h", "int add(int a, int b);\n", dialect.Unknown},
		{"upper case C", "legacy.C", "int x;\n", dialect.CPP},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.file, tc.src)
			if got.Kind != tc.want {
				t.Fatalf("Kind = %v, want %v (score %d/%d)", got.Kind, tc.want, got.Score, got.TotalScore)
			}
		})
	}
}

func TestClassifyConfidence(t *testing.T) {
	got := classify("mixed.c", "namespace n {}\n")
	// extension says C (10), namespace says C++ (6)
	if got.Kind != dialect.C {
		t.Fatalf("Kind = %v, want c", got.Kind)
	}
	if got.RunnerUp != dialect.CPP || got.RunnerUpScore != 6 {
		t.Fatalf("runner-up = %v/%d", got.RunnerUp, got.RunnerUpScore)
	}
	if got.Confidence <= 0.5 || got.Confidence >= 1 {
		t.Fatalf("Confidence = %v", got.Confidence)
	}
}

func TestClassifyEmpty(t *testing.T) {
	var c dialect.Classifier
	if got := c.Classify(nil); got.Kind != dialect.Unknown {
		t.Fatalf("nil evidence: %v", got.Kind)
	}
	if got := c.Classify(dialect.NewEvidence()); got.Kind != dialect.Unknown {
		t.Fatalf("empty evidence: %v", got.Kind)
	}
}

func TestKindNames(t *testing.T) {
	for _, k := range []dialect.Kind{dialect.Unknown, dialect.C, dialect.CPP} {
		if got := dialect.ParseKind(k.String()); got != k {
			t.Errorf("ParseKind(%q) = %v", k.String(), got)
		}
	}
}

func TestRepeatedReasonIsCapped(t *testing.T) {
	ev := dialect.NewEvidence()
	for range 10 {
		ev.Add(dialect.Hint{Dialect: dialect.CPP, Score: 3, Reason: "scope resolution `::`"})
	}
	hints := ev.Hints()
	if len(hints) != 1 {
		t.Fatalf("expected merged hint, got %d", len(hints))
	}
	if hints[0].Count != 10 || hints[0].Score != 9 {
		t.Fatalf("count=%d score=%d, want 10 and 9", hints[0].Count, hints[0].Score)
	}
}
