package driver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apiscan/internal/diag"
	"apiscan/internal/symbols"
	"apiscan/internal/token"
)

const netSource = `/// Opens a connection.
int net_open(const char *host);

static int retry_count;

namespace {
int hidden(void) { return 0; }
}
`

func names(res Result) []string {
	out := make([]string, 0, len(res.Manifest.Records))
	for _, r := range res.Manifest.Records {
		out = append(out, r.ScopePath())
	}
	return out
}

func TestAnalyzeInputsKeepsOrder(t *testing.T) {
	inputs := []Input{
		{Path: "net.cpp", Content: []byte(netSource)},
		{Path: "empty.c", Content: nil},
		{Path: "util.h", Content: []byte("int clamp(int v);\n")},
	}
	fs, results, err := AnalyzeInputs(context.Background(), inputs, Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, fs.Len())

	assert.Equal(t, "net.cpp", results[0].Path)
	assert.Equal(t, []string{"net_open", "retry_count", "hidden"}, names(results[0]))
	assert.Empty(t, results[1].Manifest.Records)
	assert.Equal(t, []string{"clamp"}, names(results[2]))

	recs := results[0].Manifest.Records
	assert.Equal(t, symbols.Public, recs[0].Visibility)
	assert.Equal(t, "Opens a connection.", recs[0].Doc)
	assert.Equal(t, symbols.Internal, recs[1].Visibility)
	assert.Equal(t, symbols.LinkageInternal, recs[2].Linkage)
}

func TestAnalyzePathsLoadFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.c")
	_, results, err := AnalyzePaths(context.Background(), "", []string{missing}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Empty(t, res.Manifest.Records)
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.IOLoadFileError, res.Bag.Items()[0].Code)
	assert.True(t, res.Bag.HasErrors())
}

func TestAnalyzeCapsDiagnostics(t *testing.T) {
	src := "namespace a {\nnamespace b {\nint x;\n"
	_, results, err := AnalyzeInputs(context.Background(), []Input{{Path: "open.cpp", Content: []byte(src)}}, Options{MaxDiagnostics: 1})
	require.NoError(t, err)
	bag := results[0].Bag
	assert.Equal(t, 1, bag.Len())
	assert.Equal(t, 1, bag.Dropped())
	assert.Equal(t, []string{"a", "a::b", "a::b::x"}, names(results[0]))
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, results, err := AnalyzeInputs(ctx, []Input{{Path: "a.c", Content: []byte("int a;")}}, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
}

func TestProgressEvents(t *testing.T) {
	ch := make(chan Event, 16)
	inputs := []Input{
		{Path: "a.c", Content: []byte("int a;")},
		{Path: "b.c", Content: []byte("int b; int c;")},
	}
	_, _, err := AnalyzeInputs(context.Background(), inputs, Options{Progress: ChannelSink{Ch: ch}})
	require.NoError(t, err)
	close(ch)

	records := map[string]int{}
	var runDone bool
	for ev := range ch {
		switch {
		case ev.File == "" && ev.Status == StatusDone:
			runDone = true
		case ev.Status == StatusDone:
			records[ev.File] = ev.Records
		}
	}
	assert.True(t, runDone)
	assert.Equal(t, map[string]int{"a.c": 1, "b.c": 2}, records)
}

func TestTimingsReported(t *testing.T) {
	_, results, err := AnalyzeInputs(context.Background(), []Input{{Path: "a.c", Content: []byte("int a;")}}, Options{Timings: true})
	require.NoError(t, err)
	require.NotNil(t, results[0].Timing)
	require.Len(t, results[0].Timing.Phases, 1)
	assert.Equal(t, "scan", results[0].Timing.Phases[0].Name)
}

func TestTokenizeInput(t *testing.T) {
	res := TokenizeInput(Input{Path: "a.c", Content: []byte("int a; /* open")}, 0)
	require.NotEmpty(t, res.Tokens)
	assert.Equal(t, token.EOF, res.Tokens[len(res.Tokens)-1].Kind)
	assert.Equal(t, 1, res.Bag.Count(diag.LexUnterminatedComment))
}
