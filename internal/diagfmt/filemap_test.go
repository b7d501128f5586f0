package diagfmt

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

func renderMap(t *testing.T, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) string {
	t.Helper()
	var buf bytes.Buffer
	if err := ManifestMap(&buf, ms, fs, opts); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestManifestMapLevels(t *testing.T) {
	ms, fs := sampleManifests()
	ms[0].Records = append(ms[0].Records, symbols.Record{
		Name: "Inner", Kind: symbols.KindType, Scope: []string{"Utils", "Box"},
		Pos: source.LineCol{Line: 7, Col: 8}, EndLine: 8,
	})
	tests := []struct {
		detail Detail
		want   []string
		absent []string
	}{
		{
			detail: DetailFull,
			want: []string{
				"File Map: src/util.cpp",
				"namespace Utils: [1-9]\n",
				"  int clamp(int v): [3]\n",
				"  static counter = ... [5]\n",
				"    type Inner: [7-8]\n",
			},
			absent: []string{"[map "},
		},
		{
			detail: DetailCompact,
			want:   []string{"[map ≤15.0 KB | compact]", "  clamp: [3]\n", "  counter = ... [5]\n", "    type Inner: [7-8]\n"},
			absent: []string{"int clamp", "static"},
		},
		{
			detail: DetailMinimal,
			want:   []string{"[map ≤20.0 KB | minimal]", "\n  type Inner: [7-8]\n"},
			absent: []string{"    type Inner"},
		},
		{
			detail: DetailOutline,
			want:   []string{"[map ≤50.0 KB | outline]", "namespace Utils: [1-9]\n"},
			absent: []string{"clamp", "counter", "Inner"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.detail.String(), func(t *testing.T) {
			out := renderMap(t, ms, fs, ManifestOpts{Detail: tt.detail})
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in\n%s", w, out)
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out, a) {
					t.Errorf("unexpected %q in\n%s", a, out)
				}
			}
		})
	}
}

func manyRecords(n int, signature bool) []manifest.Manifest {
	recs := make([]symbols.Record, n)
	for i := range recs {
		name := fmt.Sprintf("symbol_number_%05d", i)
		recs[i] = symbols.Record{
			Name: name, Kind: symbols.KindFunction,
			Pos: source.LineCol{Line: uint32(i + 1), Col: 1}, EndLine: uint32(i + 1),
		}
		if signature {
			recs[i].Signature = "const struct configuration_entry *" + name + "(const char *key, size_t len)"
		}
	}
	return []manifest.Manifest{{Path: "big.c", Records: recs}}
}

func TestManifestMapBudget(t *testing.T) {
	small, fs := sampleManifests()
	if out := renderMap(t, small, fs, ManifestOpts{}); strings.Contains(out, "[map ") {
		t.Errorf("small map should stay at full detail:\n%s", out)
	}

	out := renderMap(t, manyRecords(200, true), nil, ManifestOpts{})
	if !strings.Contains(out, "| compact]") {
		t.Errorf("expected compact level, got\n%s", out[:min(len(out), 400)])
	}
	if len(out) > CompactTargetBytes {
		t.Errorf("compact map is %d bytes", len(out))
	}

	out = renderMap(t, manyRecords(2000, false), nil, ManifestOpts{Budget: 4096})
	if len(out) > 4096 {
		t.Errorf("truncated map is %d bytes, budget 4096", len(out))
	}
	for _, w := range []string{"| truncated]", "more records ─ ─ ─", "Omitted records are in lines", "symbol_number_00000", "symbol_number_01999"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q", w)
		}
	}
}

func TestManifestMapTruncatedFallsBackToOutline(t *testing.T) {
	out := renderMap(t, manyRecords(30, false), nil, ManifestOpts{Detail: DetailTruncated})
	if !strings.Contains(out, "| outline]") || strings.Contains(out, "more records") {
		t.Errorf("too few records to cut:\n%s", out)
	}

	out = renderMap(t, manyRecords(300, false), nil, ManifestOpts{Detail: DetailTruncated})
	if !strings.Contains(out, "100 of 300 records") || !strings.Contains(out, "─ ─ ─ 200 more records ─ ─ ─") {
		t.Errorf("unexpected truncation:\n%s", out[:min(len(out), 400)])
	}
	if !strings.Contains(out, "Omitted records are in lines 51-250.") {
		t.Error("omitted line range")
	}
}

func TestParseDetail(t *testing.T) {
	for d := DetailAuto; d <= DetailTruncated; d++ {
		got, err := ParseDetail(strings.ToUpper(d.String()))
		if err != nil || got != d {
			t.Errorf("ParseDetail(%q) = %v, %v", d, got, err)
		}
	}
	if d, err := ParseDetail(""); err != nil || d != DetailAuto {
		t.Errorf("empty detail = %v, %v", d, err)
	}
	if _, err := ParseDetail("verbose"); err == nil {
		t.Error("verbose accepted")
	}
}
