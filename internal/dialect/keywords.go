package dialect

import (
	"path/filepath"
	"strings"

	"apiscan/internal/source"
)

type keywordSignal struct {
	Dialect Kind
	Score   int
}

// Only words reserved in one of the two languages carry signal.
var keywordSignals = map[string]keywordSignal{
	// C++
	"class":            {CPP, 4},
	"namespace":        {CPP, 6},
	"template":         {CPP, 6},
	"typename":         {CPP, 4},
	"public":           {CPP, 3},
	"private":          {CPP, 3},
	"protected":        {CPP, 3},
	"virtual":          {CPP, 4},
	"operator":         {CPP, 4},
	"this":             {CPP, 3},
	"new":              {CPP, 2},
	"delete":           {CPP, 2},
	"nullptr":          {CPP, 4},
	"constexpr":        {CPP, 3},
	"consteval":        {CPP, 4},
	"constinit":        {CPP, 4},
	"concept":          {CPP, 4},
	"requires":         {CPP, 3},
	"noexcept":         {CPP, 4},
	"decltype":         {CPP, 4},
	"explicit":         {CPP, 3},
	"friend":           {CPP, 4},
	"mutable":          {CPP, 3},
	"using":            {CPP, 3},
	"try":              {CPP, 2},
	"catch":            {CPP, 3},
	"throw":            {CPP, 3},
	"static_cast":      {CPP, 5},
	"dynamic_cast":     {CPP, 5},
	"reinterpret_cast": {CPP, 5},
	"const_cast":       {CPP, 5},
	"co_await":         {CPP, 5},
	"co_return":        {CPP, 5},
	"co_yield":         {CPP, 5},

	// C
	"restrict":       {C, 4},
	"_Bool":          {C, 3},
	"_Generic":       {C, 5},
	"_Static_assert": {C, 3},
	"_Noreturn":      {C, 4},
	"_Atomic":        {C, 2},
	"_Thread_local":  {C, 3},
	"_Complex":       {C, 3},
	"_Alignas":       {C, 3},
	"_Alignof":       {C, 3},
}

// RecordWord collects keyword evidence for a keyword or identifier token.
// Keywords are case sensitive in both languages.
func RecordWord(e *Evidence, word string, span source.Span) {
	if e == nil || word == "" {
		return
	}
	sig, ok := keywordSignals[word]
	if !ok {
		return
	}
	e.Add(Hint{
		Dialect: sig.Dialect,
		Score:   sig.Score,
		Reason:  "keyword `" + word + "`",
		Span:    span,
	})
}

var extSignals = map[string]keywordSignal{
	".c":   {C, 10},
	".cc":  {CPP, 10},
	".cpp": {CPP, 10},
	".cxx": {CPP, 10},
	".c++": {CPP, 10},
	".hh":  {CPP, 10},
	".hpp": {CPP, 10},
	".hxx": {CPP, 10},
	".h++": {CPP, 10},
	".ipp": {CPP, 8},
	".inl": {CPP, 4},
	// .h is shared by both languages
}

// RecordPath collects evidence from the file extension.
func RecordPath(e *Evidence, file *source.File) {
	if e == nil || file == nil {
		return
	}
	ext := strings.ToLower(filepath.Ext(file.Path))
	// .C (upper case) is C++ by convention
	if filepath.Ext(file.Path) == ".C" {
		ext = ".cpp"
	}
	if sig, ok := extSignals[ext]; ok {
		e.Add(Hint{Dialect: sig.Dialect, Score: sig.Score, Reason: "extension " + ext, Span: file.Span(0, 0)})
	}
}
