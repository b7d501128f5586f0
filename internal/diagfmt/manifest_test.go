package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

func sampleManifests() ([]manifest.Manifest, *source.FileSet) {
	fs := source.NewFileSet()
	fs.AddVirtual("src/util.cpp", []byte("// placeholder\n"))
	m := manifest.Manifest{
		Path: "src/util.cpp",
		Records: []symbols.Record{
			{
				Name: "Utils", Kind: symbols.KindNamespace,
				Visibility: symbols.Public, Linkage: symbols.LinkageExternal,
				Pos: source.LineCol{Line: 1, Col: 11}, EndLine: 9,
			},
			{
				Name: "clamp", Kind: symbols.KindFunction, Scope: []string{"Utils"},
				Visibility: symbols.Public, Linkage: symbols.LinkageExternal,
				Doc: "Clamps v.\nSecond line.", Signature: "int clamp(int v)",
				Pos: source.LineCol{Line: 3, Col: 5}, EndLine: 3,
			},
			{
				Name: "counter", Kind: symbols.KindVariable, Scope: []string{"Utils"},
				Visibility: symbols.Internal, Linkage: symbols.LinkageInternal,
				Modifiers: []string{"static"},
				Pos:       source.LineCol{Line: 5, Col: 12}, EndLine: 5,
			},
		},
	}
	return []manifest.Manifest{m}, fs
}

func TestManifestJSONFilter(t *testing.T) {
	ms, fs := sampleManifests()
	var buf bytes.Buffer
	if err := ManifestJSON(&buf, ms, fs, ManifestOpts{Only: []symbols.Visibility{symbols.Internal}}); err != nil {
		t.Fatal(err)
	}
	var out ManifestsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Total != 1 || out.Files[0].Records[0].Path != "Utils::counter" {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.Files[0].Counts["internal"] != 1 {
		t.Fatalf("unexpected counts %+v", out.Files[0].Counts)
	}
}

func TestManifestYAMLAndMsgpack(t *testing.T) {
	ms, fs := sampleManifests()

	var ybuf bytes.Buffer
	if err := ManifestYAML(&ybuf, ms, fs, ManifestOpts{}); err != nil {
		t.Fatal(err)
	}
	var fromYAML ManifestsOutput
	if err := yaml.Unmarshal(ybuf.Bytes(), &fromYAML); err != nil {
		t.Fatal(err)
	}

	var mbuf bytes.Buffer
	if err := ManifestMsgpack(&mbuf, ms, fs, ManifestOpts{}); err != nil {
		t.Fatal(err)
	}
	var fromMsgpack ManifestsOutput
	if err := msgpack.Unmarshal(mbuf.Bytes(), &fromMsgpack); err != nil {
		t.Fatal(err)
	}

	for name, out := range map[string]ManifestsOutput{"yaml": fromYAML, "msgpack": fromMsgpack} {
		if out.Total != 3 || out.Files[0].Records[1].Doc != "Clamps v.\nSecond line." {
			t.Errorf("%s: unexpected output %+v", name, out)
		}
	}
}

func TestManifestShort(t *testing.T) {
	ms, fs := sampleManifests()
	var buf bytes.Buffer
	if err := ManifestShort(&buf, ms, fs, ManifestOpts{}); err != nil {
		t.Fatal(err)
	}
	want := "src/util.cpp:1:11 public namespace Utils\n" +
		"src/util.cpp:3:5 public function Utils::clamp\n" +
		"src/util.cpp:5:12 internal variable Utils::counter\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestManifestPretty(t *testing.T) {
	ms, fs := sampleManifests()
	var buf bytes.Buffer
	if err := ManifestPretty(&buf, ms, fs, ManifestOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"util.cpp (3 records)",
		"Utils::clamp",
		"// Clamps v.",
		"public 2, internal 1, inaccessible 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Second line.") {
		t.Errorf("only the first doc line is shown:\n%s", out)
	}
}
