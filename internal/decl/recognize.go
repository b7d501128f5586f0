package decl

import (
	"strings"

	"apiscan/internal/token"
)

// words that take a parenthesised operand inside a type
var typeOperators = map[string]bool{
	"decltype": true, "sizeof": true, "alignof": true, "_Alignof": true, "noexcept": true,
	"throw": true, "_Atomic": true, "typeof": true, "__typeof__": true, "__typeof": true,
}

// punctuators allowed before a declarator name
var declaratorPunct = map[string]bool{
	"*": true, "&": true, "&&": true, "::": true, "<": true, ">": true, ">>": true,
	"...": true, "(": true, ")": true, "^": true,
}

// Recognize classifies a run terminated by ';'.
// It returns nil for runs that are not declarations.
func Recognize(run Run, ctx Context) []Decl {
	r, mods, ok := strip(run)
	if !ok || len(r) == 0 || isStatementWord(r[0]) {
		return nil
	}
	switch {
	case r[0].IsKeyword("using"):
		return recognizeUsing(r, mods, run)
	case r[0].IsKeyword("namespace"):
		return nil
	}
	if d, ok := forward(r, mods); ok {
		d.Span = run.Span()
		return []Decl{d}
	}
	if end, ok := oldStyle(r); ok {
		r = r[:end+1]
	}
	return declarators(r, mods, ctx, "", false, run, Type)
}

// type words that can open a K&R parameter declaration
var oldStyleWords = map[string]bool{
	"int": true, "char": true, "short": true, "long": true, "unsigned": true, "signed": true,
	"float": true, "double": true, "struct": true, "union": true, "enum": true,
	"register": true, "_Bool": true, "void": true,
}

// OldStyleHead reports whether run is the head of a K&R function definition
// followed by its first parameter declaration, as in `int old(a, b) int a;`,
// and returns the names of the identifier list. Declarations of those names up
// to the body's '{' belong to the definition.
func OldStyleHead(run Run) (params []string, ok bool) {
	r, _, ok := strip(run)
	if !ok {
		return nil, false
	}
	end, ok := oldStyle(r)
	if !ok {
		return nil, false
	}
	for i := end - 1; i >= 0 && !r[i].IsPunct("("); i -= 2 {
		params = append(params, r[i].Text)
	}
	return params, true
}

// oldStyle returns the index of the ')' that closes the identifier list of a
// K&R head.
func oldStyle(r Run) (int, bool) {
	lv := levels(r)
	open := findTop(r, lv, 0, len(r), "(")
	if open == 0 || open >= len(r) || r[open-1].Kind != token.Identifier {
		return 0, false
	}
	end := closing(r, lv, open)
	if end >= len(r) || end == open+1 {
		return 0, false
	}
	for i := open + 1; i < end; i++ {
		want := (i-open)%2 == 1
		if (want && r[i].Kind != token.Identifier) || (!want && !r[i].IsPunct(",")) {
			return 0, false
		}
	}
	rest := r[end+1:]
	if len(rest) < 2 {
		return 0, false
	}
	if last := rest[len(rest)-1]; last.Kind != token.Identifier && !last.IsPunct("]") {
		return 0, false
	}
	switch first := rest[0]; {
	case first.Kind == token.Keyword:
		return end, oldStyleWords[first.Text]
	case first.Kind == token.Identifier && first.Text != "override" && first.Text != "final":
		return end, rest[1].Kind == token.Identifier || rest[1].IsPunct("*")
	}
	return 0, false
}

// RecognizeTail classifies the declarators that follow the closing brace of
// a class, struct, union or enum body, e.g. `} Server;` or `} a, *b;`.
func RecognizeTail(tail Tail, run Run, ctx Context) []Decl {
	r, mods, ok := strip(run)
	if !ok || len(r) == 0 {
		return nil
	}
	spec := joinText(tail.Signature, "{...}")
	return declarators(r, tail.Modifiers|mods, ctx, spec, true, run, tail.Shape)
}

// recognizeUsing handles alias declarations; using-directives and
// using-declarations introduce no names of their own.
func recognizeUsing(r Run, mods Modifiers, run Run) []Decl {
	if len(r) < 3 || r[1].Kind != token.Identifier || !r[2].IsPunct("=") {
		return nil
	}
	return []Decl{{
		Shape:     Type,
		Name:      r[1].Text,
		Modifiers: mods,
		NameSpan:  r[1].Span,
		Span:      run.Span(),
		Signature: r.Text(),
	}}
}

// forward recognises `struct X;`, `class A::B;` and `enum class E : int;`.
func forward(r Run, mods Modifiers) (Decl, bool) {
	if !isClassKey(r[0]) {
		return Decl{}, false
	}
	shape, i := Type, 1
	if r[0].IsKeyword("enum") {
		shape = Enum
		if i < len(r) && (r[i].IsKeyword("class") || r[i].IsKeyword("struct")) {
			i++
		}
	}
	if i >= len(r) || r[i].Kind != token.Identifier {
		return Decl{}, false
	}
	nameIdx := i
	var qual []string
	for nameIdx+2 < len(r) && r[nameIdx+1].IsPunct("::") && r[nameIdx+2].Kind == token.Identifier {
		qual = append(qual, r[nameIdx].Text)
		nameIdx += 2
	}
	if rest := nameIdx + 1; rest < len(r) && !(shape == Enum && r[rest].IsPunct(":")) {
		return Decl{}, false
	}
	return Decl{
		Shape:     shape,
		Name:      r[nameIdx].Text,
		Qualifier: qual,
		Modifiers: mods,
		NameSpan:  r[nameIdx].Span,
		Signature: r.Text(),
	}, true
}

// declarators splits r at top-level commas and recognises every part.
// The first part carries the shared specifiers unless spec already holds them.
// Under typedef, every declared name becomes a typedefShape record.
func declarators(r Run, mods Modifiers, ctx Context, spec string, hasSpec bool, run Run, typedefShape Shape) []Decl {
	lv := levels(r)
	a := analyzer{r: r, lv: lv, ctx: ctx}
	var (
		out    []Decl
		prefix string
	)
	for n, part := range splitTop(r, lv) {
		if part[0] >= part[1] {
			continue
		}
		sp, has := spec, hasSpec
		if n > 0 {
			sp, has = prefix, true
		}
		d, specEnd, ok := a.analyze(part[0], part[1], sp, has)
		if !ok {
			if n == 0 {
				return nil
			}
			continue
		}
		if n == 0 {
			mods |= collectModifiers(r, lv, part[0], specEnd)
			prefix = joinText(spec, trimDeclaratorOps(r[part[0]:specEnd]).Text())
		}
		d.Modifiers = mods
		d.Span = run.Span()
		if mods.Has(ModTypedef) {
			d.Shape = typedefShape
		}
		out = append(out, d)
	}
	return out
}

// trimDeclaratorOps drops pointer and reference operators that belong to the
// first declarator from a specifier prefix.
func trimDeclaratorOps(r Run) Run {
	for len(r) > 0 {
		switch r[len(r)-1].Text {
		case "*", "&", "&&", "^", "const", "volatile", "restrict", "__restrict":
			r = r[:len(r)-1]
		default:
			return r
		}
	}
	return r
}

type analyzer struct {
	r   Run
	lv  []int
	ctx Context
}

// analyze recognises one declarator in r[from:to]. spec is the signature text
// of specifiers shared with an earlier part; hasSpec reports that a type is
// known to precede the part. specEnd is where the specifiers of this part end.
func (a *analyzer) analyze(from, to int, spec string, hasSpec bool) (d Decl, specEnd int, ok bool) {
	r, lv := a.r, a.lv
	eq := findTop(r, lv, from, to, "=")
	for i := from; i < eq; i++ {
		if lv[i] != 0 {
			continue
		}
		t := r[i]
		if t.IsKeyword("operator") {
			return a.operatorFunc(from, to, i, spec, hasSpec)
		}
		if !t.IsPunct("(") {
			continue
		}
		end := closing(r, lv, i)
		if a.pointerGroup(i, end) {
			return a.pointer(from, eq, i, end, spec, hasSpec)
		}
		if i == from {
			return Decl{}, 0, false
		}
		prev := r[i-1]
		switch {
		case prev.Kind == token.Identifier && !typeOperators[prev.Text]:
			return a.function(from, to, i, end, spec, hasSpec)
		case prev.Kind == token.Keyword || typeOperators[prev.Text]:
			i = end
		default:
			return Decl{}, 0, false
		}
	}
	return a.variable(from, eq, spec, hasSpec)
}

// pointerGroup reports whether the group at r[open:end] is a grouped
// declarator like (*fp), (&ref) or (Class::*member).
func (a *analyzer) pointerGroup(open, end int) bool {
	r := a.r
	i := open + 1
	for i+1 < end && r[i].Kind == token.Identifier && r[i+1].IsPunct("::") {
		i += 2
	}
	if i >= end || r[i].Kind != token.Punctuation {
		return false
	}
	switch r[i].Text {
	case "*", "&", "&&", "^":
		return true
	}
	return false
}

func (a *analyzer) function(from, to, open, end int, spec string, hasSpec bool) (Decl, int, bool) {
	r := a.r
	nameIdx := open - 1
	start := nameIdx
	name := r[nameIdx].Text
	if start-1 >= from && r[start-1].IsPunct("~") {
		name = "~" + name
		start--
	}
	qual, qstart := a.qualifier(from, start)
	if !hasSpec && !a.typeLike(from, qstart) {
		ctor := a.ctx.InRecord && len(qual) == 0 && (name == a.ctx.Record || strings.HasPrefix(name, "~"))
		outOfLine := len(qual) > 0 && qual[len(qual)-1] == strings.TrimPrefix(name, "~")
		if !ctor && !outOfLine {
			return Decl{}, 0, false
		}
	}
	shape := Function
	if open+1 < end && looksLikeValue(r[open+1]) {
		shape = Variable
	}
	return Decl{
		Shape:     shape,
		Name:      name,
		Qualifier: qual,
		NameSpan:  r[start].Span.Cover(r[nameIdx].Span),
		Signature: joinText(spec, r[from:a.signatureEnd(end, to)].Text()),
	}, qstart, true
}

// operatorFunc recognises operator overloads and conversion functions.
func (a *analyzer) operatorFunc(from, to, op int, spec string, hasSpec bool) (Decl, int, bool) {
	r, lv := a.r, a.lv
	var sb strings.Builder
	sb.WriteString("operator")
	i := op + 1
	if i+1 < to && ((r[i].IsPunct("(") && r[i+1].IsPunct(")")) || (r[i].IsPunct("[") && r[i+1].IsPunct("]"))) {
		sb.WriteString(r[i].Text + r[i+1].Text)
		i += 2
	}
	prevWord := true
	for ; i < to && !r[i].IsPunct("("); i++ {
		word := r[i].Kind == token.Identifier || r[i].Kind == token.Keyword
		if word && prevWord {
			sb.WriteByte(' ')
		}
		sb.WriteString(r[i].Text)
		prevWord = word
	}
	if i >= to {
		return Decl{}, 0, false
	}
	end := closing(r, lv, i)
	qual, qstart := a.qualifier(from, op)
	if !hasSpec && !a.typeLike(from, qstart) && !a.ctx.InRecord && len(qual) == 0 {
		return Decl{}, 0, false
	}
	return Decl{
		Shape:     Function,
		Name:      sb.String(),
		Qualifier: qual,
		NameSpan:  r[op].Span.Cover(r[i-1].Span),
		Signature: joinText(spec, r[from:a.signatureEnd(end, to)].Text()),
	}, qstart, true
}

// pointer recognises grouped declarators: int (*fp)(int), void (&ref)[3]
// and functions returning function pointers.
func (a *analyzer) pointer(from, eq, open, end int, spec string, hasSpec bool) (Decl, int, bool) {
	r, lv := a.r, a.lv
	nameIdx := -1
	for i := open + 1; i < end; i++ {
		if lv[i] != lv[open]+1 {
			continue
		}
		if r[i].IsPunct("(") || r[i].IsPunct("[") {
			break
		}
		if r[i].Kind == token.Identifier {
			nameIdx = i
		}
	}
	if nameIdx < 0 || (!hasSpec && !a.typeLike(from, open)) {
		return Decl{}, 0, false
	}
	// void (*signal(int, void (*)(int)))(int) declares a function returning a pointer
	shape := Variable
	if nameIdx+1 < end && r[nameIdx+1].IsPunct("(") {
		shape = Function
	}
	return Decl{
		Shape:     shape,
		Name:      r[nameIdx].Text,
		NameSpan:  r[nameIdx].Span,
		Signature: joinText(spec, r[from:eq].Text()),
	}, open, true
}

func (a *analyzer) variable(from, eq int, spec string, hasSpec bool) (Decl, int, bool) {
	r, lv := a.r, a.lv
	stop := eq
	for i := from; i < eq; i++ {
		if lv[i] == 0 && (r[i].IsPunct("[") || r[i].IsPunct("{") || r[i].IsPunct(":")) {
			stop = i
			break
		}
	}
	nameIdx := stop - 1
	if nameIdx < from || lv[nameIdx] != 0 || r[nameIdx].Kind != token.Identifier {
		return Decl{}, 0, false
	}
	qual, qstart := a.qualifier(from, nameIdx)
	if !hasSpec && !a.typeLike(from, qstart) {
		return Decl{}, 0, false
	}
	for i := from; i < qstart; i++ {
		if lv[i] == 0 && r[i].Kind == token.Punctuation && !declaratorPunct[r[i].Text] {
			return Decl{}, 0, false
		}
	}
	return Decl{
		Shape:     Variable,
		Name:      r[nameIdx].Text,
		Qualifier: qual,
		NameSpan:  r[nameIdx].Span,
		Signature: joinText(spec, r[from:eq].Text()),
	}, qstart, true
}

// qualifier collects the A::B:: chain that ends right before r[start].
func (a *analyzer) qualifier(from, start int) ([]string, int) {
	r, lv := a.r, a.lv
	var qual []string
	k := start
	for k-2 >= from && r[k-1].IsPunct("::") {
		j := k - 2
		if r[j].IsPunct(">") || r[j].IsPunct(">>") {
			for j >= from && !(r[j].IsPunct("<") && lv[j] == lv[k-2]) {
				j--
			}
			j--
			if j < from {
				break
			}
		}
		if r[j].Kind != token.Identifier {
			break
		}
		qual = append([]string{r[j].Text}, qual...)
		k = j
	}
	if k-1 >= from && r[k-1].IsPunct("::") {
		k--
	}
	return qual, k
}

// typeLike reports whether r[from:to] holds a word that can name a type.
func (a *analyzer) typeLike(from, to int) bool {
	for i := from; i < to; i++ {
		if a.r[i].Kind == token.Identifier || a.r[i].Kind == token.Keyword {
			return true
		}
	}
	return false
}

// signatureEnd cuts a function declarator before a constructor initializer
// list, a function-try-block or a body.
func (a *analyzer) signatureEnd(close, to int) int {
	for i := close + 1; i < to; i++ {
		if a.lv[i] != 0 {
			continue
		}
		if a.r[i].IsPunct(":") || a.r[i].IsPunct("{") || a.r[i].IsKeyword("try") {
			return i
		}
	}
	return to
}

func looksLikeValue(t Tok) bool {
	switch {
	case t.IsLiteral():
		return true
	case t.IsKeyword("true"), t.IsKeyword("false"), t.IsKeyword("nullptr"):
		return true
	}
	return false
}
