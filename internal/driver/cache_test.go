package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzeOnce(t *testing.T, opts Options, inputs ...Input) []Result {
	t.Helper()
	_, results, err := AnalyzeInputs(context.Background(), inputs, opts)
	require.NoError(t, err)
	return results
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cache.Close()) })

	in := Input{Path: "net.cpp", Content: []byte(netSource + "namespace open {\n")}
	first := analyzeOnce(t, Options{Cache: cache}, in)[0]
	assert.False(t, first.Cached)

	n, err := cache.Len()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	second := analyzeOnce(t, Options{Cache: cache}, in)[0]
	assert.True(t, second.Cached)
	assert.Equal(t, first.Manifest, second.Manifest)
	require.Equal(t, first.Bag.Len(), second.Bag.Len())
	for i, d := range first.Bag.Items() {
		assert.Equal(t, *d, *second.Bag.Items()[i])
	}
}

func TestCacheKeyIncludesOptions(t *testing.T) {
	cache, err := OpenCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })

	in := Input{Path: "m.h", Content: []byte("#define LIMIT 4\nint f(void);\n")}
	plain := analyzeOnce(t, Options{Cache: cache}, in)[0]
	macros := analyzeOnce(t, Options{Cache: cache, Macros: true}, in)[0]
	assert.False(t, macros.Cached)
	assert.Len(t, plain.Manifest.Records, 1)
	assert.Len(t, macros.Manifest.Records, 2)

	// другой путь, то же содержимое: запись общая
	moved := analyzeOnce(t, Options{Cache: cache}, Input{Path: "include/m.h", Content: in.Content})[0]
	assert.True(t, moved.Cached)
	assert.Equal(t, "include/m.h", moved.Manifest.Path)

	require.NoError(t, cache.DropAll())
	n, err := cache.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoSkipsUnchangedFiles(t *testing.T) {
	memo := NewMemo(4)
	in := Input{Path: "a.c", Content: []byte("int a;")}

	assert.False(t, analyzeOnce(t, Options{Memo: memo}, in)[0].Cached)
	assert.True(t, analyzeOnce(t, Options{Memo: memo}, in)[0].Cached)

	in.Content = []byte("int a; int b;")
	changed := analyzeOnce(t, Options{Memo: memo}, in)[0]
	assert.False(t, changed.Cached)
	assert.Len(t, changed.Manifest.Records, 2)

	memo.Forget("a.c")
	assert.Zero(t, memo.Len())
}
