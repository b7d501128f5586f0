package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"apiscan/internal/project"
)

const maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	addSnippetSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "scan", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// все C/C++ файлы из testdata сканера
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || !project.IsSourceFile(path) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func addSnippetSeeds(f *testing.F) {
	for _, s := range []string{
		"",
		"int main(void) { return 0; }\n",
		"namespace a { namespace { static int x; } }\n",
		"class C { public: void f(); private: int y; };\n",
		"/* unterminated",
		"const char *s = \"unterminated\n",
		"}}}{{{",
		"#define F(x) \\\n  ((x) + 1)\n",
		"template <typename T> struct S { T v; };\n",
		"R\"(raw \" string)\" ;\n",
		"enum class E : int { A = 1 << 2, B };\n",
		"/// doc\nextern \"C\" { int c_api(void); }\n",
		"typedef struct { struct { int a; } in; } P; union { int b; } q, r;\n",
		"struct A { void f(); }; void A::f() {} int A::n, A::m;\n",
	} {
		f.Add([]byte(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
