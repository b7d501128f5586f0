package scope

import (
	"fmt"
	"strings"

	"apiscan/internal/diag"
	"apiscan/internal/source"
)

// DefaultMaxDepth bounds nesting when Options.MaxDepth is zero.
const DefaultMaxDepth = 256

// Scope is one entry of the scope stack.
type Scope struct {
	Kind        Kind
	Name        string // empty for anonymous scopes
	Access      Access // meaningful for KindClass and KindStruct only
	LinkageHint LinkageHint
	Scoped      bool // enum class / enum struct
	Depth       int
	Open        source.Span // opening brace
}

type Options struct {
	MaxDepth int           // 0 means DefaultMaxDepth
	Reporter diag.Reporter // может быть nil
}

// Tracker maintains the scope stack of one file.
// The File scope is always at the bottom and is never popped.
type Tracker struct {
	stack    []Scope
	opts     Options
	overflow []source.Span // braces refused by the depth limit, still awaiting '}'
}

// NewTracker creates a tracker holding only the File scope.
func NewTracker(opts Options) *Tracker {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Tracker{
		stack: []Scope{{Kind: KindFile}},
		opts:  opts,
	}
}

// DefaultAccess returns the access level a record scope starts with.
func DefaultAccess(kind Kind) Access {
	if kind == KindClass {
		return AccessPrivate
	}
	return AccessPublic
}

// Push enters a scope opened by brace. It returns false when the depth limit
// refuses the scope: the brace is then only counted so that its '}' is absorbed.
func (t *Tracker) Push(kind Kind, name string, scoped bool, brace source.Span) bool {
	if len(t.overflow) > 0 || t.Depth() >= t.opts.MaxDepth {
		if len(t.overflow) == 0 {
			diag.ReportWarning(t.opts.Reporter, diag.ScopeMaxNestingExceeded, brace,
				fmt.Sprintf("nesting deeper than %d scopes; inner braces are only counted", t.opts.MaxDepth)).Emit()
		}
		t.overflow = append(t.overflow, brace)
		return false
	}
	sc := Scope{
		Kind:        kind,
		Name:        name,
		Access:      DefaultAccess(kind),
		LinkageHint: HintExternal,
		Scoped:      scoped,
		Depth:       len(t.stack),
		Open:        brace,
	}
	if kind == KindNamespace && name == "" {
		sc.LinkageHint = HintInternal
	}
	t.stack = append(t.stack, sc)
	return true
}

// Pop leaves the innermost scope on '}'. popped is false when the brace closed a
// counted overflow brace or had no matching '{' at all; the latter is reported.
func (t *Tracker) Pop(brace source.Span) (sc Scope, popped bool) {
	if n := len(t.overflow); n > 0 {
		t.overflow = t.overflow[:n-1]
		return Scope{}, false
	}
	if len(t.stack) == 1 {
		diag.ReportWarning(t.opts.Reporter, diag.ScopeUnbalanced, brace, "unmatched '}' ignored").Emit()
		return Scope{}, false
	}
	sc = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return sc, true
}

// SetAccess applies an access label to the innermost scope if it is a class or struct.
func (t *Tracker) SetAccess(a Access) bool {
	top := &t.stack[len(t.stack)-1]
	if !top.Kind.IsRecord() {
		return false
	}
	top.Access = a
	return true
}

// Finish reports every scope still open at end of input, outermost first.
// Braces refused by the depth limit get one summary report. It returns the number of reports.
func (t *Tracker) Finish() int {
	n := 0
	for _, sc := range t.stack[1:] {
		msg := fmt.Sprintf("%s scope is never closed", sc.Kind)
		if sc.Name != "" {
			msg = fmt.Sprintf("%s scope %q is never closed", sc.Kind, sc.Name)
		}
		diag.ReportWarning(t.opts.Reporter, diag.ScopeUnterminated, sc.Open, msg).Emit()
		n++
	}
	if len(t.overflow) > 0 {
		diag.ReportWarning(t.opts.Reporter, diag.ScopeUnterminated, t.overflow[0],
			fmt.Sprintf("%d brace(s) beyond the nesting limit are never closed", len(t.overflow))).Emit()
		n++
	}
	return n
}

// Depth returns the number of open scopes above the File scope, overflow excluded.
func (t *Tracker) Depth() int { return len(t.stack) - 1 }

// Overflowing reports whether the tracker is inside braces refused by the depth limit.
func (t *Tracker) Overflowing() bool { return len(t.overflow) > 0 }

// Current returns the innermost scope.
func (t *Tracker) Current() Scope { return t.stack[len(t.stack)-1] }

// Stack returns the open scopes, File first. The slice must not be modified.
func (t *Tracker) Stack() []Scope { return t.stack }

// Path returns the names of the enclosing named scopes, outermost first.
// File, extern blocks and unscoped enums contribute nothing; a qualified
// name such as "a::b" contributes each of its parts.
func (t *Tracker) Path() []string {
	var out []string
	for _, sc := range t.stack[1:] {
		if sc.Name == "" || sc.Kind == KindExtern || (sc.Kind == KindEnum && !sc.Scoped) {
			continue
		}
		out = append(out, strings.Split(sc.Name, "::")...)
	}
	return out
}

// PathString joins Path with "::".
func (t *Tracker) PathString() string {
	return strings.Join(t.Path(), "::")
}

// Context returns the innermost scope that decides linkage: extern blocks and
// enumerator lists are looked through.
func (t *Tracker) Context() Scope {
	for i := len(t.stack) - 1; i > 0; i-- {
		switch t.stack[i].Kind {
		case KindExtern, KindEnum:
			continue
		}
		return t.stack[i]
	}
	return t.stack[0]
}

// Record returns the innermost class or struct enclosing the current position
// without crossing a namespace, function or block.
func (t *Tracker) Record() (Scope, bool) {
	for i := len(t.stack) - 1; i > 0; i-- {
		sc := t.stack[i]
		switch {
		case sc.Kind.IsRecord():
			return sc, true
		case sc.Kind == KindExtern || sc.Kind == KindEnum:
			continue
		default:
			return Scope{}, false
		}
	}
	return Scope{}, false
}

// InAnonymousNamespace reports whether any enclosing scope is an anonymous namespace.
func (t *Tracker) InAnonymousNamespace() bool {
	for _, sc := range t.stack[1:] {
		if sc.Kind == KindNamespace && sc.LinkageHint == HintInternal {
			return true
		}
	}
	return false
}
