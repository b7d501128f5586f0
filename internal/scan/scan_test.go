package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiscan/internal/diag"
	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

func analyze(t *testing.T, name, src string, opts Options) (manifest.Manifest, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(src)))
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	return Analyze(file, opts), bag
}

func analyzeFixture(t *testing.T, name string) (manifest.Manifest, *diag.Bag) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return analyze(t, name, string(data), Options{})
}

func find(t *testing.T, m manifest.Manifest, path string) symbols.Record {
	t.Helper()
	for _, r := range m.Records {
		if r.ScopePath() == path {
			return r
		}
	}
	require.Failf(t, "record not found", "%s in %v", path, paths(m))
	return symbols.Record{}
}

func paths(m manifest.Manifest) []string {
	out := make([]string, 0, len(m.Records))
	for _, r := range m.Records {
		out = append(out, r.ScopePath())
	}
	return out
}

type expect struct {
	path string
	kind symbols.Kind
	vis  symbols.Visibility
	link symbols.Linkage
	doc  string
}

func checkRecords(t *testing.T, m manifest.Manifest, want []expect) {
	t.Helper()
	for _, w := range want {
		r := find(t, m, w.path)
		assert.Equal(t, w.kind, r.Kind, "%s kind", w.path)
		assert.Equal(t, w.vis, r.Visibility, "%s visibility", w.path)
		assert.Equal(t, w.link, r.Linkage, "%s linkage", w.path)
		assert.Equal(t, w.doc, r.Doc, "%s doc", w.path)
	}
}

func TestFixtureExports(t *testing.T) {
	m, bag := analyzeFixture(t, "exports.c")
	assert.Zero(t, bag.Len())
	assert.Equal(t, []string{
		"public_func", "private_helper", "internal_counter", "PublicStruct", "PublicStruct::value",
	}, paths(m))
	checkRecords(t, m, []expect{
		{path: "public_func", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "private_helper", kind: symbols.KindFunction, vis: symbols.Internal, link: symbols.LinkageInternal},
		{path: "internal_counter", kind: symbols.KindVariable, vis: symbols.Internal, link: symbols.LinkageInternal},
		{path: "PublicStruct", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "PublicStruct::value", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
	})

	f := find(t, m, "public_func")
	assert.Equal(t, source.LineCol{Line: 3, Col: 6}, f.Pos)
	assert.Equal(t, uint32(5), f.EndLine)
	assert.Equal(t, "void public_func(int x)", f.Signature)
}

func TestFixtureMain(t *testing.T) {
	m, bag := analyzeFixture(t, "main.c")
	assert.Zero(t, bag.Len())
	for _, name := range []string{"Server", "Config", "State", "init_server", "start_server", "stop_server", "main"} {
		r := find(t, m, name)
		assert.Equal(t, symbols.Public, r.Visibility, name)
		assert.Equal(t, symbols.LinkageExternal, r.Linkage, name)
	}
	checkRecords(t, m, []expect{
		{path: "State", kind: symbols.KindEnum, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "STATE_IDLE", kind: symbols.KindEnumerator, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "Server", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "Server::config", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
		{path: "Server::state", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
		{path: "Config::host", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
	})
	for _, r := range m.Records {
		assert.NotEqual(t, symbols.KindMacro, r.Kind, "macros are off by default")
	}
}

func TestFixtureDocstrings(t *testing.T) {
	m, bag := analyzeFixture(t, "docstrings.cpp")
	assert.Zero(t, bag.Len())
	assert.Equal(t, []string{
		"RequestHandler",
		"RequestHandler::handle",
		"RequestHandler::name",
		"RequestHandler::log_internal",
		"factorial",
		"module_init",
		"Utils",
		"Utils::clamp",
	}, paths(m))
	checkRecords(t, m, []expect{
		{path: "RequestHandler", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageExternal,
			doc: "A request handler for the HTTP server."},
		{path: "RequestHandler::handle", kind: symbols.KindMethod, vis: symbols.Public, link: symbols.LinkageNone,
			doc: "Process an incoming request."},
		{path: "RequestHandler::name", kind: symbols.KindMethod, vis: symbols.Public, link: symbols.LinkageNone,
			doc: "Get the handler name."},
		{path: "RequestHandler::log_internal", kind: symbols.KindMethod, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "factorial", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal,
			doc: "Compute the factorial of n.\n\nUses iterative approach for efficiency."},
		{path: "module_init", kind: symbols.KindFunction, vis: symbols.Internal, link: symbols.LinkageInternal},
		{path: "Utils", kind: symbols.KindNamespace, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "Utils::clamp", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal,
			doc: "Clamp a value to the given range."},
	})
}

func TestIdempotent(t *testing.T) {
	for _, name := range []string{"exports.c", "main.c", "docstrings.cpp"} {
		first, _ := analyzeFixture(t, name)
		second, _ := analyzeFixture(t, name)
		assert.Equal(t, first, second, name)
	}
}

func TestDocAdjacency(t *testing.T) {
	src := `/// attached
int a;

/// separated by a blank line

int b;
/// first line
// ordinary comment in between
int c;
/// consumed once
int d, e;
/// broken by a directive
#include <x.h>
int f;
`
	m, _ := analyze(t, "adj.c", src, Options{})
	docs := map[string]string{}
	for _, r := range m.Records {
		docs[r.Name] = r.Doc
	}
	assert.Equal(t, map[string]string{
		"a": "attached",
		"b": "",
		"c": "first line",
		"d": "consumed once",
		"e": "",
		"f": "",
	}, docs)
}

func TestUnterminatedScopes(t *testing.T) {
	src := "namespace a {\nclass B {\npublic:\n  void run();\n"
	m, bag := analyze(t, "open.cpp", src, Options{})
	assert.Equal(t, 2, bag.Count(diag.ScopeUnterminated))
	for _, d := range bag.Items() {
		assert.Equal(t, diag.SevWarning, d.Severity)
	}
	assert.Equal(t, []string{"a", "a::B", "a::B::run"}, paths(m))
}

func TestUnbalancedClose(t *testing.T) {
	m, bag := analyze(t, "extra.c", "int a;\n}\nint b;\n", Options{})
	assert.Equal(t, 1, bag.Count(diag.ScopeUnbalanced))
	assert.Equal(t, []string{"a", "b"}, paths(m))
}

func TestDepthLimit(t *testing.T) {
	src := "namespace a { namespace b { namespace c { int deep; } } }\nint after;\n"
	m, bag := analyze(t, "deep.cpp", src, Options{MaxDepth: 2})
	assert.Equal(t, 1, bag.Count(diag.ScopeMaxNestingExceeded))
	assert.Zero(t, bag.Count(diag.ScopeUnbalanced))
	assert.Equal(t, []string{"a", "a::b", "a::b::c", "after"}, paths(m), "c is declared at depth 2, its body is skipped")
}

func TestUnterminatedLiteralRecovers(t *testing.T) {
	src := "const char *s = \"oops;\nint next;\n"
	m, bag := analyze(t, "lit.c", src, Options{})
	assert.Equal(t, 1, bag.Count(diag.LexUnterminatedLiteral))
	assert.Contains(t, paths(m), "next")
}

func TestClassFeatures(t *testing.T) {
	src := `namespace net::http {
struct Header;
class Client final : public Base {
  Client(int n) : size_{n}, data_(nullptr) {}
  ~Client();
  int size_{0};
protected:
  enum class Mode { Fast, Safe };
  static int count;
  friend class Helper;
  using Base::run;
public:
  bool operator==(const Client& o) const;
  struct { int x; } pos;
};
int Client::count = 0;
Client::~Client() {}
}
namespace {
int hidden;
}
extern "C" {
void c_api(void);
}
`
	m, bag := analyze(t, "cls.cpp", src, Options{})
	assert.Zero(t, bag.Len())
	checkRecords(t, m, []expect{
		{path: "net::http", kind: symbols.KindNamespace, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "net::http::Header", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "net::http::Client::Client", kind: symbols.KindMethod, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::~Client", kind: symbols.KindMethod, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::size_", kind: symbols.KindVariable, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::Mode", kind: symbols.KindEnum, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::Mode::Fast", kind: symbols.KindEnumerator, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::count", kind: symbols.KindVariable, vis: symbols.Inaccessible, link: symbols.LinkageNone},
		{path: "net::http::Client::operator==", kind: symbols.KindMethod, vis: symbols.Public, link: symbols.LinkageNone},
		{path: "net::http::Client::pos", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
		{path: "net::http::Client::x", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageNone},
		{path: "hidden", kind: symbols.KindVariable, vis: symbols.Internal, link: symbols.LinkageInternal},
		{path: "c_api", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal},
	})

	defs := 0
	for _, r := range m.Records {
		if r.ScopePath() == "net::http::Client::count" && r.Linkage == symbols.LinkageExternal {
			defs++
		}
	}
	assert.Equal(t, 1, defs, "out-of-line definition of count")
	assert.NotContains(t, paths(m), "net::http::Client::Helper")
	assert.NotContains(t, paths(m), "net::http::Client::run")
	assert.Contains(t, paths(m), "net::http::Client::<anonymous@struct:14>")
}

func TestMethods(t *testing.T) {
	src := `class Shape {
public:
  double area() const;
  static Shape unit();
};
double Shape::area() const { return 0; }
namespace geo {
struct Point { void move(int dx); };
void Point::move(int dx) {}
void helper(void);
}
void geo::helper(void) {}
int Missing::call() { return 1; }
`
	m, bag := analyze(t, "m.cpp", src, Options{})
	assert.Zero(t, bag.Len())
	kinds := map[string][]symbols.Kind{}
	for _, r := range m.Records {
		kinds[r.ScopePath()] = append(kinds[r.ScopePath()], r.Kind)
	}
	assert.Equal(t, []symbols.Kind{symbols.KindMethod, symbols.KindMethod}, kinds["Shape::area"])
	assert.Equal(t, []symbols.Kind{symbols.KindMethod}, kinds["Shape::unit"])
	assert.Equal(t, []symbols.Kind{symbols.KindMethod, symbols.KindMethod}, kinds["geo::Point::move"])
	assert.Equal(t, []symbols.Kind{symbols.KindFunction, symbols.KindFunction}, kinds["geo::helper"])
	assert.Equal(t, []symbols.Kind{symbols.KindFunction}, kinds["Missing::call"], "no body seen for Missing")
}

func TestOldStyleDeclarators(t *testing.T) {
	src := `void (*signal(int sig, void (*func)(int)))(int);
int old(a, b)
int a;
char *b;
{
  return a;
}
int (*handler)(int);
int after;
`
	m, bag := analyze(t, "knr.c", src, Options{})
	assert.Zero(t, bag.Len())
	assert.Equal(t, []string{"signal", "old", "handler", "after"}, paths(m))
	checkRecords(t, m, []expect{
		{path: "signal", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "old", kind: symbols.KindFunction, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "handler", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageExternal},
	})
	old := find(t, m, "old")
	assert.Equal(t, "int old(a, b)", old.Signature)
	assert.Equal(t, uint32(7), old.EndLine)
}

func TestAnonymousTypes(t *testing.T) {
	src := `/// Tagged value.
union { int i; float f; } value;
enum { LIMIT = 8 };
typedef struct { int a; } Pair;
struct Outer {
  struct { int x; } pos;
};
`
	m, bag := analyze(t, "anon.c", src, Options{})
	assert.Zero(t, bag.Len())
	assert.Equal(t, []string{
		"<anonymous@union:2>", "i", "f", "value",
		"<anonymous@enum:3>", "LIMIT",
		"Pair::a", "Pair",
		"Outer", "Outer::<anonymous@struct:6>", "Outer::x", "Outer::pos",
	}, paths(m))
	checkRecords(t, m, []expect{
		{path: "<anonymous@union:2>", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "value", kind: symbols.KindVariable, vis: symbols.Public, link: symbols.LinkageExternal, doc: "Tagged value."},
		{path: "<anonymous@enum:3>", kind: symbols.KindEnum, vis: symbols.Public, link: symbols.LinkageExternal},
		{path: "Outer::<anonymous@struct:6>", kind: symbols.KindType, vis: symbols.Public, link: symbols.LinkageNone},
	})
	u := find(t, m, "<anonymous@union:2>")
	assert.Equal(t, uint32(2), u.EndLine)
}

func TestMacros(t *testing.T) {
	src := "/// Upper bound.\n#define MAX_SIZE 100\n#define SQUARE(x) ((x) * (x))\n#include <stdio.h>\nint v;\n"
	m, _ := analyze(t, "m.h", src, Options{Macros: true})
	assert.Equal(t, []string{"MAX_SIZE", "SQUARE", "v"}, paths(m))
	r := find(t, m, "MAX_SIZE")
	assert.Equal(t, symbols.KindMacro, r.Kind)
	assert.Equal(t, symbols.LinkageNone, r.Linkage)
	assert.Equal(t, symbols.Public, r.Visibility)
	assert.Equal(t, "Upper bound.", r.Doc)
}

func TestInitializersAndBodiesAreOpaque(t *testing.T) {
	src := `int table[] = { 1, 2, {3} };
struct P { int x, y; } origin = { 0, 0 };
auto cb = [](int v) { int local = v; return local; };
void f(void) {
  int local;
  struct Inner { int z; };
}
int tail;
`
	m, bag := analyze(t, "init.cpp", src, Options{})
	assert.Zero(t, bag.Len())
	assert.Equal(t, []string{"table", "P", "P::x", "P::y", "origin", "cb", "f", "tail"}, paths(m))
}

func TestMalformedInputCompletes(t *testing.T) {
	corpus := []string{
		"",
		"}}}}",
		"{{{{",
		"class",
		"struct {",
		"typedef struct { int a; }",
		"enum { A, B",
		"int f(int a, {",
		"/* never closed",
		"R\"x(raw never closed",
		"template <class T",
		"namespace a::b::",
		"operator",
		"int (*)(int);",
		"::;",
		"public: private: int x;",
		"#define\n#define 1\n",
		"a b c d e f;",
		"int x = (1, 2, 3;",
		"}; int y;",
	}
	for _, src := range corpus {
		t.Run(src, func(t *testing.T) {
			assert.NotPanics(t, func() {
				analyze(t, "bad.cpp", src, Options{Macros: true})
			})
		})
	}
}

func TestLanguage(t *testing.T) {
	m, _ := analyzeFixture(t, "exports.c")
	assert.Equal(t, "c", m.Language)

	m, _ = analyzeFixture(t, "docstrings.cpp")
	assert.Equal(t, "c++", m.Language)

	m, _ = analyze(t, "api.h", "namespace api {\nint run();\n}\n", Options{})
	assert.Equal(t, "c++", m.Language)

	m, _ = analyze(t, "api.h", "int run(void);\n", Options{})
	assert.Empty(t, m.Language)
}
