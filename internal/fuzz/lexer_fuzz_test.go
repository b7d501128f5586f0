package fuzztests

import (
	"testing"

	"apiscan/internal/diag"
	"apiscan/internal/lexer"
	"apiscan/internal/scan"
	"apiscan/internal/source"
	"apiscan/internal/testkit"
)

const maxFuzzInput = 1 << 16 // 64 KiB

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cpp", clampInput(input)))

		bag := diag.NewBag(64)
		tokens := lexer.Tokenize(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err := testkit.CheckTokenCoverage(tokens, file); err != nil {
			t.Fatal(err)
		}
	})
}

func FuzzScanManifest(f *testing.F) {
	addCorpusSeeds(f)
	const maxDepth = 8
	f.Fuzz(func(t *testing.T, input []byte) {
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.cpp", clampInput(input)))

		bag := diag.NewBag(0)
		m := scan.Analyze(file, scan.Options{
			MaxDepth: maxDepth,
			Macros:   true,
			Reporter: diag.BagReporter{Bag: bag},
		})
		type recordKey struct {
			path string
			pos  source.LineCol
		}
		seen := make(map[recordKey]int, len(m.Records))
		for i, r := range m.Records {
			if r.Name == "" {
				t.Fatalf("record %d has an empty name", i)
			}
			if r.Pos.Line == 0 {
				t.Fatalf("record %q has no position", r.ScopePath())
			}
			k := recordKey{path: r.ScopePath(), pos: r.Pos}
			if j, dup := seen[k]; dup {
				t.Fatalf("records %d and %d are both %q at %d:%d", j, i, k.path, k.pos.Line, k.pos.Col)
			}
			seen[k] = i
		}
		if bag.HasErrors() {
			t.Fatalf("source findings must be warnings: %v", bag.Items()[0])
		}
	})
}
