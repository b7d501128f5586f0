package decl

import (
	"strconv"
	"strings"

	"apiscan/internal/scope"
	"apiscan/internal/token"
)

// Open describes the brace that ends a run.
type Open struct {
	Kind   scope.Kind
	Name   string // scope name; may be qualified, e.g. "a::b"
	Scoped bool   // enum class
	Init   bool   // the brace belongs to an initializer and the run goes on after '}'
	Decls  []Decl // the entity that owns the scope, if any
	Tail   *Tail  // set for class, struct, union and enum bodies
}

// Tail carries what the declarators after a type body share with its head.
type Tail struct {
	Shape     Shape // Type or Enum, used for typedef names
	Typedef   bool
	Anonymous bool
	Modifiers Modifiers
	Signature string // head text, e.g. "typedef struct"
}

// RecognizeOpen decides which scope a run terminated by '{' opens.
func RecognizeOpen(run Run, ctx Context) Open {
	block := Open{Kind: scope.KindBlock}
	r, mods, ok := strip(run)
	if !ok || len(r) == 0 || isStatementWord(r[0]) {
		return block
	}
	lv := levels(r)
	k := skipModifierWords(r, 0)
	switch {
	case k < len(r) && r[k].IsKeyword("namespace"):
		return openNamespace(r, k, run)
	case len(r) == 1 && r[0].IsKeyword("extern") && len(run) > 1 && run[1].Kind == token.StringLiteral:
		return Open{Kind: scope.KindExtern}
	}
	if findTop(r, lv, 0, len(r), "=") < len(r) {
		return Open{Kind: scope.KindBlock, Init: true}
	}
	paren := findTop(r, lv, 0, len(r), "(")
	if k < len(r) && isClassKey(r[k]) && paren == len(r) {
		return openType(r, k, mods|collectModifiers(r, lv, 0, k), run, ctx)
	}
	if paren < len(r) {
		if memberInit(r, lv, paren) {
			return Open{Kind: scope.KindBlock, Init: true}
		}
		a := analyzer{r: r, lv: lv, ctx: ctx}
		d, specEnd, ok := a.analyze(0, len(r), "", false)
		if !ok || d.Shape != Function {
			return block
		}
		d.Modifiers = mods | collectModifiers(r, lv, 0, specEnd)
		d.Span = run.Span()
		return Open{Kind: scope.KindFunction, Name: d.Name, Decls: []Decl{d}}
	}
	if len(r) >= 2 && r[len(r)-1].Kind == token.Identifier {
		prev := r[len(r)-2]
		if prev.Kind == token.Identifier || prev.Kind == token.Keyword || prev.IsPunct(">") || prev.IsPunct("*") || prev.IsPunct("&") {
			return Open{Kind: scope.KindBlock, Init: true}
		}
	}
	return block
}

// memberInit reports whether the brace is a braced member initializer inside a
// constructor initializer list, as in `Foo() : a{1}, b{2} {`.
func memberInit(r Run, lv []int, paren int) bool {
	end := closing(r, lv, paren)
	colon := findTop(r, lv, end, len(r), ":")
	if colon == len(r) {
		return false
	}
	last := r[len(r)-1]
	return last.Kind == token.Identifier || last.IsPunct(">")
}

func openNamespace(r Run, k int, run Run) Open {
	var (
		mods  Modifiers
		parts []string
		last  Tok
	)
	for i := 0; i < k; i++ {
		mods |= modifierWords[r[i].Text]
	}
	for i := k + 1; i < len(r); i++ {
		if r[i].Kind == token.Identifier {
			parts = append(parts, r[i].Text)
			last = r[i]
		}
	}
	if len(parts) == 0 {
		return Open{Kind: scope.KindNamespace}
	}
	d := Decl{
		Shape:     Namespace,
		Name:      parts[len(parts)-1],
		Qualifier: parts[:len(parts)-1],
		Modifiers: mods,
		NameSpan:  last.Span,
		Span:      run.Span(),
		Signature: r.Text(),
	}
	return Open{Kind: scope.KindNamespace, Name: strings.Join(parts, "::"), Decls: []Decl{d}}
}

func openType(r Run, k int, mods Modifiers, run Run, ctx Context) Open {
	kind, shape := scope.KindStruct, Type
	switch r[k].Text {
	case "class":
		kind = scope.KindClass
	case "enum":
		kind, shape = scope.KindEnum, Enum
	}
	i := k + 1
	scoped := false
	if shape == Enum && i < len(r) && (r[i].IsKeyword("class") || r[i].IsKeyword("struct")) {
		scoped = true
		i++
	}

	var (
		parts []string
		name  Tok
	)
head:
	for ; i < len(r); i++ {
		t := r[i]
		switch {
		case t.IsPunct(":"):
			break head
		case t.Kind == token.Identifier && t.Text == "final" && len(parts) > 0:
			break head
		case t.Kind == token.Identifier:
			if len(parts) > 0 && !r[i-1].IsPunct("::") {
				parts = parts[:0]
			}
			parts = append(parts, t.Text)
			name = t
		case t.IsPunct("<"):
			i = skipAngles(r, i) - 1
		}
	}

	open := Open{
		Kind:   kind,
		Name:   strings.Join(parts, "::"),
		Scoped: scoped,
		Tail: &Tail{
			Shape:     shape,
			Typedef:   mods.Has(ModTypedef),
			Anonymous: len(parts) == 0,
			Modifiers: mods,
			Signature: r[:i].Text(),
		},
	}
	switch {
	case len(parts) > 0:
		open.Decls = []Decl{{
			Shape:     shape,
			Name:      name.Text,
			Qualifier: append([]string(nil), parts[:len(parts)-1]...),
			Modifiers: mods & ModTemplate,
			NameSpan:  name.Span,
			Span:      run.Span(),
			Signature: r[k:i].Text(),
		}}
	case !open.Tail.Typedef:
		// the typedef name follows the body and becomes the record instead
		line := uint32(0)
		if ctx.Line != nil {
			line = ctx.Line(r[k].Span.Start)
		}
		open.Decls = []Decl{{
			Shape:     shape,
			Name:      AnonymousName(r[k].Text, line),
			Modifiers: mods & ModTemplate,
			NameSpan:  r[k].Span,
			Span:      run.Span(),
			Signature: r[k:i].Text(),
		}}
	}
	return open
}

// AnonymousName names an unnamed type after its keyword and line, e.g.
// "<anonymous@union:12>". Line 0 is left out.
func AnonymousName(keyword string, line uint32) string {
	if line == 0 {
		return "<anonymous@" + keyword + ">"
	}
	return "<anonymous@" + keyword + ":" + strconv.FormatUint(uint64(line), 10) + ">"
}

// RecognizeEnumerator recognises one entry of an enumerator list: `NAME` or `NAME = value`.
func RecognizeEnumerator(run Run) (Decl, bool) {
	r, _, ok := strip(run)
	if !ok || len(r) == 0 || r[0].Kind != token.Identifier {
		return Decl{}, false
	}
	return Decl{
		Shape:     Enumerator,
		Name:      r[0].Text,
		NameSpan:  r[0].Span,
		Span:      run.Span(),
		Signature: r.Text(),
	}, true
}

// AccessLabel recognises `public:`, `protected:` and `private:` at the end of
// a run, including Qt style `public slots:`.
func AccessLabel(run Run) (scope.Access, bool) {
	n := len(run)
	if n == 0 {
		return scope.AccessPublic, false
	}
	if run[n-1].Kind == token.Keyword {
		return scope.ParseAccess(run[n-1].Text)
	}
	if n >= 2 && run[n-2].Kind == token.Keyword && run[n-1].Kind == token.Identifier {
		return scope.ParseAccess(run[n-2].Text)
	}
	return scope.AccessPublic, false
}
