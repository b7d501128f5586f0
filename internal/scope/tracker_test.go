package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiscan/internal/diag"
	"apiscan/internal/source"
)

func brace(off uint32) source.Span {
	return source.Span{File: 1, Start: off, End: off + 1}
}

func newTestTracker(max int) (*Tracker, *diag.Bag) {
	bag := diag.NewBag(0)
	return NewTracker(Options{MaxDepth: max, Reporter: diag.BagReporter{Bag: bag}}), bag
}

func TestTrackerPath(t *testing.T) {
	tr, bag := newTestTracker(0)
	require.True(t, tr.Push(KindNamespace, "outer", false, brace(0)))
	require.True(t, tr.Push(KindExtern, "", false, brace(1)))
	require.True(t, tr.Push(KindNamespace, "inner", false, brace(2)))
	require.True(t, tr.Push(KindClass, "Widget", false, brace(3)))
	require.True(t, tr.Push(KindEnum, "Color", false, brace(4)))

	assert.Equal(t, []string{"outer", "inner", "Widget"}, tr.Path())
	assert.Equal(t, "outer::inner::Widget", tr.PathString())
	assert.Equal(t, 5, tr.Depth())

	_, ok := tr.Pop(brace(5))
	require.True(t, ok)
	require.True(t, tr.Push(KindEnum, "Mode", true, brace(6)))
	assert.Equal(t, []string{"outer", "inner", "Widget", "Mode"}, tr.Path())
	assert.Zero(t, bag.Len())
}

func TestTrackerDefaultAccess(t *testing.T) {
	tr, _ := newTestTracker(0)
	tr.Push(KindClass, "C", false, brace(0))
	assert.Equal(t, AccessPrivate, tr.Current().Access)
	assert.True(t, tr.SetAccess(AccessPublic))
	assert.Equal(t, AccessPublic, tr.Current().Access)

	tr.Push(KindStruct, "S", false, brace(1))
	assert.Equal(t, AccessPublic, tr.Current().Access)

	tr.Push(KindFunction, "f", false, brace(2))
	assert.False(t, tr.SetAccess(AccessPrivate), "access labels only apply to records")
}

func TestTrackerRecordLookup(t *testing.T) {
	tr, _ := newTestTracker(0)
	_, ok := tr.Record()
	assert.False(t, ok)

	tr.Push(KindClass, "C", false, brace(0))
	tr.Push(KindEnum, "E", false, brace(1))
	rec, ok := tr.Record()
	require.True(t, ok)
	assert.Equal(t, "C", rec.Name)
	assert.Equal(t, KindClass, tr.Context().Kind)

	tr.Pop(brace(2))
	tr.Push(KindFunction, "m", false, brace(3))
	_, ok = tr.Record()
	assert.False(t, ok, "function bodies hide the enclosing class")
}

func TestTrackerAnonymousNamespace(t *testing.T) {
	tr, _ := newTestTracker(0)
	tr.Push(KindNamespace, "", false, brace(0))
	assert.Equal(t, HintInternal, tr.Current().LinkageHint)
	tr.Push(KindNamespace, "detail", false, brace(1))
	assert.True(t, tr.InAnonymousNamespace())
	assert.Equal(t, []string{"detail"}, tr.Path())
}

func TestTrackerUnbalancedClose(t *testing.T) {
	tr, bag := newTestTracker(0)
	_, ok := tr.Pop(brace(0))
	assert.False(t, ok)
	require.Equal(t, 1, bag.Len())
	assert.Equal(t, diag.ScopeUnbalanced, bag.Items()[0].Code)
	assert.Equal(t, KindFile, tr.Current().Kind)
}

func TestTrackerFinish(t *testing.T) {
	tr, bag := newTestTracker(0)
	tr.Push(KindNamespace, "a", false, brace(0))
	tr.Push(KindClass, "B", false, brace(4))
	assert.Equal(t, 2, tr.Finish())
	require.Equal(t, 2, bag.Len())
	for _, d := range bag.Items() {
		assert.Equal(t, diag.ScopeUnterminated, d.Code)
		assert.Equal(t, diag.SevWarning, d.Severity)
	}
	assert.Equal(t, uint32(0), bag.Items()[0].Primary.Start)
	assert.Equal(t, uint32(4), bag.Items()[1].Primary.Start)
}

func TestTrackerDepthLimit(t *testing.T) {
	tr, bag := newTestTracker(2)
	assert.True(t, tr.Push(KindBlock, "", false, brace(0)))
	assert.True(t, tr.Push(KindBlock, "", false, brace(1)))
	assert.False(t, tr.Push(KindBlock, "", false, brace(2)))
	assert.False(t, tr.Push(KindBlock, "", false, brace(3)))
	assert.True(t, tr.Overflowing())
	assert.Equal(t, 1, bag.Count(diag.ScopeMaxNestingExceeded))

	_, ok := tr.Pop(brace(4))
	assert.False(t, ok)
	_, ok = tr.Pop(brace(5))
	assert.False(t, ok)
	assert.False(t, tr.Overflowing())
	assert.Equal(t, 2, tr.Depth())

	_, ok = tr.Pop(brace(6))
	assert.True(t, ok)
	assert.Zero(t, bag.Count(diag.ScopeUnbalanced))
}

func TestTrackerOverflowSummary(t *testing.T) {
	tr, bag := newTestTracker(1)
	tr.Push(KindBlock, "", false, brace(0))
	tr.Push(KindBlock, "", false, brace(1))
	tr.Push(KindBlock, "", false, brace(2))
	assert.Equal(t, 2, tr.Finish())
	assert.Equal(t, 2, bag.Count(diag.ScopeUnterminated))
}

func TestParseAccess(t *testing.T) {
	a, ok := ParseAccess("protected")
	assert.True(t, ok)
	assert.Equal(t, AccessProtected, a)
	_, ok = ParseAccess("friend")
	assert.False(t, ok)
}

func TestTrackerQualifiedNamespace(t *testing.T) {
	tr, _ := newTestTracker(0)
	tr.Push(KindNamespace, "net::http", false, brace(0))
	tr.Push(KindStruct, "Header", false, brace(1))
	assert.Equal(t, []string{"net", "http", "Header"}, tr.Path())
}
