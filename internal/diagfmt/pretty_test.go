package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"apiscan/internal/diag"
	"apiscan/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSetWithBase("/home/user/project")
	content := []byte("const char *s = \"unterminated;\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.c", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.LexUnterminatedLiteral,
		source.Span{File: fileID, Start: 16, End: 30},
		"unterminated string literal",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/test.c"},
		{"Relative path", PathModeRelative, "src/test.c:1:17"},
		{"Basename only", PathModeBasename, "test.c:1:17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING LEX1001: unterminated string literal") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettyUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cpp", []byte("namespace a {\nint x;\n}\n}\n"))

	bag := diag.NewBag(4)
	bag.Add(diag.NewWarning(diag.ScopeUnbalanced, source.Span{File: fileID, Start: 23, End: 24}, "unmatched '}' ignored"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1})
	want := "a.cpp:4:1: WARNING SCP2001: unmatched '}' ignored\n" +
		"3 | }\n" +
		"4 | }\n" +
		"  | ^\n" +
		"5 | \n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrettyNotesAndDropped(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("deep.c", []byte("struct a { struct b {\n"))

	bag := diag.NewBag(1)
	d := diag.NewWarning(diag.ScopeMaxNestingExceeded, source.Span{File: fileID, Start: 20, End: 21}, "maximum nesting depth 1 exceeded").
		WithNote(source.Span{File: fileID, Start: 9, End: 10}, "outermost scope opened here")
	bag.Add(d)
	bag.Add(diag.NewWarning(diag.ScopeUnterminated, source.Span{File: fileID, Start: 9, End: 10}, "scope is not closed"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowNotes: true, PathMode: PathModeBasename})
	output := buf.String()

	for _, want := range []string{
		"note: deep.c:1:10: outermost scope opened here",
		"1 more diagnostic(s) not shown",
		"^",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("missing %q in:\n%s", want, output)
		}
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.c", []byte("}\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.NewWarning(diag.ScopeUnbalanced, source.Span{File: fileID, Start: 0, End: 1}, "unmatched"))

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatal("plain output contains escape codes")
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatal("colored output lacks escape codes")
	}
}

func TestParsePathMode(t *testing.T) {
	if m, err := ParsePathMode("relative"); err != nil || m != PathModeRelative {
		t.Fatalf("ParsePathMode(relative) = %v, %v", m, err)
	}
	if _, err := ParsePathMode("nowhere"); err == nil {
		t.Fatal("expected error")
	}
}
