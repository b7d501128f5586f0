package testkit

import (
	"testing"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

func TestCheckTokenCoverageDetectsGap(t *testing.T) {
	fs := source.NewFileSet()
	sf := fs.Get(fs.AddVirtual("gap.c", []byte("ab")))

	good := []token.Token{
		{Kind: token.Identifier, Span: sf.Span(0, 2), Text: "ab"},
		{Kind: token.EOF, Span: sf.Span(2, 2)},
	}
	if err := CheckTokenCoverage(good, sf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gap := []token.Token{
		{Kind: token.Identifier, Span: sf.Span(0, 1), Text: "a"},
		{Kind: token.EOF, Span: sf.Span(2, 2)},
	}
	if err := CheckTokenCoverage(gap, sf); err == nil {
		t.Fatal("expected gap to be reported")
	}

	noEOF := good[:1]
	if err := CheckTokenCoverage(noEOF, sf); err == nil {
		t.Fatal("expected missing EOF to be reported")
	}
}
