package symbols

import (
	"slices"
	"strings"

	"apiscan/internal/decl"
	"apiscan/internal/scope"
	"apiscan/internal/source"
)

// Context is the scope state a declaration is classified in.
type Context struct {
	Path      []string
	Scope     scope.Scope // innermost scope that decides linkage
	Record    scope.Scope // innermost class or struct, valid when InRecord
	InRecord  bool
	Anonymous bool            // inside an anonymous namespace
	Classes   map[string]bool // qualified names of records with a body in the file
}

// ContextOf snapshots the tracker state.
func ContextOf(t *scope.Tracker) Context {
	rec, ok := t.Record()
	return Context{
		Path:      t.Path(),
		Scope:     t.Context(),
		Record:    rec,
		InRecord:  ok,
		Anonymous: t.InAnonymousNamespace(),
	}
}

// LinkageOf decides the linkage of d.
func LinkageOf(d decl.Decl, ctx Context) Linkage {
	if d.Shape == decl.Macro {
		return LinkageNone
	}
	switch ctx.Scope.Kind {
	case scope.KindFile, scope.KindNamespace:
		if d.IsStatic() || ctx.Anonymous {
			return LinkageInternal
		}
		return LinkageExternal
	default:
		return LinkageNone
	}
}

// VisibilityOf combines access control and linkage.
func VisibilityOf(d decl.Decl, ctx Context, l Linkage) Visibility {
	switch {
	case d.Shape == decl.Macro:
		return Public
	case ctx.InRecord && ctx.Record.Access != scope.AccessPublic:
		return Inaccessible
	case l == LinkageInternal:
		return Internal
	default:
		return Public
	}
}

// Classify turns a declaration into a record. Out-of-line definitions such as
// `int Foo::bar()` are placed under their qualifier.
func Classify(file *source.File, d decl.Decl, ctx Context, doc string) Record {
	l := LinkageOf(d, ctx)
	rec := Record{
		Name:       d.Name,
		Kind:       KindOf(d.Shape),
		Scope:      append(slices.Clone(ctx.Path), d.Qualifier...),
		Visibility: VisibilityOf(d, ctx, l),
		Linkage:    l,
		Doc:        doc,
		Signature:  d.Signature,
		Modifiers:  d.Modifiers.Strings(),
		Span:       d.Span,
	}
	if rec.Kind == KindFunction && isMethod(d, ctx, rec.Scope) {
		rec.Kind = KindMethod
	}
	if file != nil {
		rec.Pos = file.Position(d.NameSpan.Start)
		end := d.Span.End
		if end > d.Span.Start {
			end--
		}
		rec.EndLine = file.Line(end)
	}
	return rec
}

// isMethod reports whether a function belongs to a class: it is declared in
// the body, or it is defined out of line under the name of a record whose body
// the file contains.
func isMethod(d decl.Decl, ctx Context, scope []string) bool {
	if len(d.Qualifier) == 0 {
		return ctx.InRecord && ctx.Scope.Kind.IsRecord()
	}
	return ctx.Classes[strings.Join(scope, "::")]
}
