// Package scan runs the single-pass analysis of one file: tokens flow from the
// lexer into the comment store, the scope tracker and the declaration
// recognizer, and classified records are appended to the manifest.
package scan

import (
	"apiscan/internal/comments"
	"apiscan/internal/decl"
	"apiscan/internal/dialect"
	"apiscan/internal/diag"
	"apiscan/internal/lexer"
	"apiscan/internal/manifest"
	"apiscan/internal/scope"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
	"apiscan/internal/token"
)

type Options struct {
	MaxDepth int  // 0 means scope.DefaultMaxDepth
	Macros   bool // record #define names
	Reporter diag.Reporter
}

// frame mirrors one scope pushed on the tracker.
type frame struct {
	kind  scope.Kind
	owner int        // manifest index of the owning record, -1 if none
	init  bool       // braces of an initializer; the run resumes after '}'
	tail  *decl.Tail // declarators may follow the closing brace
	doc   string     // doc of an owner that is only named after the body
	first int        // manifest length when the scope was opened
	depth int        // scope path length outside the scope
}

type scanner struct {
	file   *source.File
	opts   Options
	lx     *lexer.Lexer
	store  *comments.Store
	scopes *scope.Tracker
	out    *manifest.Builder
	lang   *dialect.Evidence
	prev   token.Token     // last significant token outside bodies
	named  map[string]bool // records with a body, by qualified name

	run    decl.Run
	doc    string
	space  bool
	parens int
	frames []frame
	tail   *frame    // body closed, declarators pending until ';'
	kr     *oldStyle // K&R head seen, parameter declarations until '{'
}

// oldStyle is a K&R definition whose body has not opened yet.
type oldStyle struct {
	owner  int
	name   string
	params map[string]bool
}

// Analyze builds the manifest of file. Problems in the source are reported to
// opts.Reporter as warnings; the analysis always completes.
func Analyze(file *source.File, opts Options) manifest.Manifest {
	if file == nil {
		panic("scan: nil file")
	}
	s := &scanner{
		file:   file,
		opts:   opts,
		lx:     lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		store:  comments.NewStore(file),
		scopes: scope.NewTracker(scope.Options{MaxDepth: opts.MaxDepth, Reporter: opts.Reporter}),
		out:    manifest.NewBuilder(file.Path, opts.Reporter),
		lang:   dialect.NewEvidence(),
		named:  make(map[string]bool),
	}
	dialect.RecordPath(s.lang, file)
	for tok := range s.lx.All() {
		s.step(tok)
	}
	if !s.opaque() {
		s.flush()
	}
	s.scopes.Finish()
	m := s.out.Manifest()
	if c := (dialect.Classifier{}).Classify(s.lang); c.Kind != dialect.Unknown {
		m.Language = c.Kind.String()
	}
	return m
}

func (s *scanner) step(tok token.Token) {
	switch tok.Kind {
	case token.EOF:
		return
	case token.Whitespace, token.Newline:
		s.space = true
		return
	case token.Comment, token.DocComment:
		s.space = true
		if !s.opaque() {
			s.store.Add(tok)
		}
		return
	case token.Directive:
		s.space = true
		dialect.ObserveDirective(s.lang, tok)
		s.directive(tok)
		return
	}
	if s.opaque() {
		switch {
		case tok.IsPunct("{"):
			s.pushBlock(tok, false)
		case tok.IsPunct("}"):
			s.closeBrace(tok)
		}
		return
	}
	if tok.Kind == token.Keyword || tok.Kind == token.Identifier {
		dialect.RecordWord(s.lang, tok.Text, tok.Span)
	}
	dialect.ObserveTokenPair(s.lang, s.prev, tok)
	s.prev = tok
	s.significant(tok)
}

// opaque reports whether tokens are only scanned for braces: inside bodies,
// initializers and braces beyond the depth limit.
func (s *scanner) opaque() bool {
	return s.scopes.Overflowing() || s.scopes.Current().Kind.IsOpaque()
}

func (s *scanner) significant(tok token.Token) {
	if len(s.run) == 0 && s.tail == nil {
		s.doc = ""
		if b, ok := s.store.Take(s.file.Line(tok.Span.Start)); ok {
			s.doc = b.Text
		}
	} else {
		s.store.Break()
	}

	cur := s.scopes.Current()
	switch {
	case tok.IsPunct("(") || tok.IsPunct("["):
		s.parens++
		s.push(tok)
	case tok.IsPunct(")") || tok.IsPunct("]"):
		if s.parens > 0 {
			s.parens--
		}
		s.push(tok)
	case tok.IsPunct(";") && s.parens == 0:
		s.flush()
	case tok.Kind == token.Invalid:
		// unterminated literal: the rest of the line is gone, end the run here
		s.push(tok)
		s.flush()
	case tok.IsPunct("{"):
		s.openBrace(tok)
	case tok.IsPunct("}"):
		s.closeBrace(tok)
	case tok.IsPunct(",") && s.parens == 0 && cur.Kind == scope.KindEnum:
		s.enumerator()
		s.resetRun()
	case tok.IsPunct(":") && s.parens == 0 && cur.Kind.IsRecord() && s.tail == nil:
		if a, ok := decl.AccessLabel(s.run); ok {
			s.scopes.SetAccess(a)
			s.resetRun()
			return
		}
		s.push(tok)
	default:
		s.push(tok)
	}
}

func (s *scanner) push(tok token.Token) {
	s.run = append(s.run, decl.Tok{Token: tok, SpaceBefore: s.space})
	s.space = false
}

func (s *scanner) resetRun() {
	s.run = s.run[:0]
	s.parens = 0
	s.doc = ""
	s.space = false
}

func (s *scanner) declContext() decl.Context {
	cur := s.scopes.Current()
	return decl.Context{InRecord: cur.Kind.IsRecord(), Record: cur.Name, Line: s.file.Line}
}

// emit classifies ds in the current scope. Only the first record gets doc.
// It returns the manifest index of the first record, or -1.
func (s *scanner) emit(ds []decl.Decl, doc string) int {
	ctx := symbols.ContextOf(s.scopes)
	ctx.Classes = s.named
	first := -1
	for i, d := range ds {
		if i > 0 {
			doc = ""
		}
		idx := s.out.Add(symbols.Classify(s.file, d, ctx, doc))
		if i == 0 {
			first = idx
		}
	}
	return first
}

// flush ends the current run at ';', at '}' or at end of input.
func (s *scanner) flush() {
	switch {
	case s.tail != nil:
		s.finishTail()
	case len(s.run) == 0:
	case s.scopes.Current().Kind == scope.KindEnum:
		s.enumerator()
	default:
		ds := decl.Recognize(s.run, s.declContext())
		if s.kr != nil && s.kr.declares(ds) {
			break
		}
		s.kr = nil
		idx := s.emit(ds, s.doc)
		if params, ok := decl.OldStyleHead(s.run); ok && idx >= 0 {
			s.kr = &oldStyle{owner: idx, name: ds[0].Name, params: make(map[string]bool, len(params))}
			for _, p := range params {
				s.kr.params[p] = true
			}
		}
	}
	s.resetRun()
}

// declares reports whether ds only declares parameters of the K&R head.
func (k *oldStyle) declares(ds []decl.Decl) bool {
	if len(ds) == 0 {
		return false
	}
	for _, d := range ds {
		if d.Shape != decl.Variable || !k.params[d.Name] {
			return false
		}
	}
	return true
}

func (s *scanner) enumerator() {
	if d, ok := decl.RecognizeEnumerator(s.run); ok {
		s.emit([]decl.Decl{d}, s.doc)
	}
}

func (s *scanner) finishTail() {
	f := s.tail
	s.tail = nil
	ds := decl.RecognizeTail(*f.tail, s.run, s.declContext())
	idx := s.emit(ds, f.doc)
	if idx >= 0 && f.tail.Typedef && f.tail.Anonymous && f.tail.Shape == decl.Type {
		s.out.Requalify(f.first, idx, f.depth, ds[0].Name)
	}
}

func (s *scanner) openBrace(tok token.Token) {
	if s.parens > 0 || s.tail != nil || s.scopes.Current().Kind == scope.KindEnum {
		s.pushBlock(tok, true)
		return
	}
	if k := s.kr; k != nil {
		s.kr = nil
		if len(s.run) == 0 {
			f := frame{kind: scope.KindFunction, owner: k.owner, depth: len(s.scopes.Path()), first: s.out.Len()}
			if s.scopes.Push(scope.KindFunction, k.name, false, tok.Span) {
				s.frames = append(s.frames, f)
			}
			s.resetRun()
			return
		}
	}
	open := decl.RecognizeOpen(s.run, s.declContext())
	if open.Init {
		s.pushBlock(tok, true)
		return
	}
	f := frame{
		kind:  open.Kind,
		owner: -1,
		tail:  open.Tail,
		depth: len(s.scopes.Path()),
	}
	switch {
	case len(open.Decls) > 0 && open.Tail != nil && open.Tail.Anonymous:
		// the doc belongs to the declarators after the body
		f.owner = s.emit(open.Decls, "")
		f.doc = s.doc
	case len(open.Decls) > 0:
		f.owner = s.emit(open.Decls, s.doc)
	default:
		f.doc = s.doc
	}
	f.first = s.out.Len()
	if s.scopes.Push(open.Kind, open.Name, open.Scoped, tok.Span) {
		s.frames = append(s.frames, f)
		if open.Kind.IsRecord() && open.Name != "" {
			s.named[s.scopes.PathString()] = true
		}
	}
	s.resetRun()
}

// pushBlock enters an opaque brace pair. For initializers the braces stay in the run.
func (s *scanner) pushBlock(tok token.Token, init bool) {
	if init {
		s.push(tok)
	}
	if s.scopes.Push(scope.KindBlock, "", false, tok.Span) {
		s.frames = append(s.frames, frame{kind: scope.KindBlock, owner: -1, init: init})
	}
}

func (s *scanner) closeBrace(tok token.Token) {
	s.kr = nil
	s.store.Break()
	if !s.opaque() {
		s.flush()
	}
	if _, popped := s.scopes.Pop(tok.Span); !popped {
		return
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.out.SetEnd(f.owner, s.file.Line(tok.Span.Start))
	switch {
	case f.init:
		s.push(tok)
	case f.tail != nil:
		s.tail = &f
	}
}

func (s *scanner) directive(tok token.Token) {
	if s.opaque() {
		return
	}
	if s.opts.Macros {
		if d, ok := decl.RecognizeMacro(tok); ok {
			doc := ""
			if b, ok := s.store.Take(s.file.Line(tok.Span.Start)); ok {
				doc = b.Text
			}
			ctx := symbols.Context{Scope: scope.Scope{Kind: scope.KindFile}}
			s.out.Add(symbols.Classify(s.file, d, ctx, doc))
			return
		}
	}
	s.store.Break()
}
