package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

// ManifestOpts configures manifest output.
type ManifestOpts struct {
	PathMode PathMode
	Only     []symbols.Visibility // empty means every record
	Color    bool
	Width    int // pretty: 0 means no limit
	NoDocs   bool
	Detail   Detail // map: level, DetailAuto fits the map into Budget
	Budget   int    // map: bytes per file, 0 means MaxTruncatedBytes
}

// RecordOutput is one record in structured output.
type RecordOutput struct {
	Name       string   `json:"name" yaml:"name" msgpack:"name"`
	Path       string   `json:"path" yaml:"path" msgpack:"path"`
	Kind       string   `json:"kind" yaml:"kind" msgpack:"kind"`
	Visibility string   `json:"visibility" yaml:"visibility" msgpack:"visibility"`
	Linkage    string   `json:"linkage" yaml:"linkage" msgpack:"linkage"`
	Line       uint32   `json:"line" yaml:"line" msgpack:"line"`
	Col        uint32   `json:"col" yaml:"col" msgpack:"col"`
	EndLine    uint32   `json:"end_line" yaml:"end_line" msgpack:"end_line"`
	Signature  string   `json:"signature,omitempty" yaml:"signature,omitempty" msgpack:"signature,omitempty"`
	Modifiers  []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty" msgpack:"modifiers,omitempty"`
	Doc        string   `json:"doc,omitempty" yaml:"doc,omitempty" msgpack:"doc,omitempty"`
}

// FileOutput is the manifest of one file in structured output.
type FileOutput struct {
	File     string         `json:"file" yaml:"file" msgpack:"file"`
	Language string         `json:"language,omitempty" yaml:"language,omitempty" msgpack:"language,omitempty"`
	Counts   map[string]int `json:"counts" yaml:"counts" msgpack:"counts"`
	Records  []RecordOutput `json:"records" yaml:"records" msgpack:"records"`
}

// ManifestsOutput is the root of structured output.
type ManifestsOutput struct {
	Files []FileOutput `json:"files" yaml:"files" msgpack:"files"`
	Total int          `json:"total" yaml:"total" msgpack:"total"`
}

// BuildManifestsOutput converts manifests to the structured form.
func BuildManifestsOutput(ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) ManifestsOutput {
	out := ManifestsOutput{Files: make([]FileOutput, 0, len(ms))}
	for _, m := range ms {
		fo := FileOutput{
			File:     displayPath(m.Path, fs, opts.PathMode),
			Language: m.Language,
			Counts:   make(map[string]int, 3),
			Records:  []RecordOutput{},
		}
		for _, r := range m.Filter(opts.Only...) {
			fo.Counts[r.Visibility.String()]++
			ro := RecordOutput{
				Name:       r.Name,
				Path:       r.ScopePath(),
				Kind:       r.Kind.String(),
				Visibility: r.Visibility.String(),
				Linkage:    r.Linkage.String(),
				Line:       r.Pos.Line,
				Col:        r.Pos.Col,
				EndLine:    r.EndLine,
				Signature:  r.Signature,
				Modifiers:  r.Modifiers,
			}
			if !opts.NoDocs {
				ro.Doc = r.Doc
			}
			fo.Records = append(fo.Records, ro)
		}
		out.Total += len(fo.Records)
		out.Files = append(out.Files, fo)
	}
	return out
}

func displayPath(path string, fs *source.FileSet, mode PathMode) string {
	if fs != nil {
		if f, ok := fs.GetByPath(path); ok {
			return formatPath(f, fs, mode)
		}
	}
	return path
}

// ManifestJSON writes manifests as indented JSON.
func ManifestJSON(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildManifestsOutput(ms, fs, opts))
}

// ManifestYAML writes manifests as YAML.
func ManifestYAML(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildManifestsOutput(ms, fs, opts)); err != nil {
		return err
	}
	return enc.Close()
}

// ManifestMsgpack writes manifests as a single msgpack document.
func ManifestMsgpack(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	return msgpack.NewEncoder(w).Encode(BuildManifestsOutput(ms, fs, opts))
}

// ManifestShort writes one line per record:
// <path>:<line>:<col> <visibility> <kind> <scope path>
func ManifestShort(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	for _, m := range ms {
		path := displayPath(m.Path, fs, opts.PathMode)
		for _, r := range m.Filter(opts.Only...) {
			if _, err := fmt.Fprintf(w, "%s:%d:%d %s %s %s\n",
				path, r.Pos.Line, r.Pos.Col, r.Visibility, r.Kind, r.ScopePath()); err != nil {
				return err
			}
		}
	}
	return nil
}

var (
	fileStyle  = lipgloss.NewStyle().Bold(true)
	docStyle   = lipgloss.NewStyle().Faint(true)
	countStyle = lipgloss.NewStyle().Faint(true)
	visStyles  = map[symbols.Visibility]lipgloss.Style{
		symbols.Public:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		symbols.Internal:     lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		symbols.Inaccessible: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// ManifestPretty writes an aligned table per file. Column widths are computed
// with go-runewidth so that non-ASCII names line up.
func ManifestPretty(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	render := func(st lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return st.Render(s)
	}

	for i, m := range ms {
		recs := m.Filter(opts.Only...)
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s (%d records)", displayPath(m.Path, fs, opts.PathMode), len(recs))
		if m.Language != "" {
			header += " [" + m.Language + "]"
		}
		if _, err := fmt.Fprintln(w, render(fileStyle, header)); err != nil {
			return err
		}
		if len(recs) == 0 {
			continue
		}

		nameW, kindW, lineW := 4, 4, 1
		for _, r := range recs {
			nameW = max(nameW, runewidth.StringWidth(r.ScopePath()))
			kindW = max(kindW, len(r.Kind.String()))
			lineW = max(lineW, len(fmt.Sprint(r.Pos.Line)))
		}
		if opts.Width > 0 {
			fixed := lineW + kindW + len("inaccessible") + len("external") + 10
			nameW = min(nameW, max(opts.Width-fixed, 8))
		}

		for _, r := range recs {
			vis := runewidth.FillRight(r.Visibility.String(), len("inaccessible"))
			name := runewidth.FillRight(runewidth.Truncate(r.ScopePath(), nameW, "..."), nameW)
			fmt.Fprintf(w, "  %*d  %s  %-*s  %s  %s\n",
				lineW, r.Pos.Line,
				render(visStyles[r.Visibility], vis),
				kindW, r.Kind,
				name,
				r.Linkage)
			if r.Doc != "" && !opts.NoDocs {
				doc := strings.SplitN(r.Doc, "\n", 2)[0]
				if opts.Width > 0 {
					doc = runewidth.Truncate(doc, max(opts.Width-lineW-8, 8), "...")
				}
				fmt.Fprintf(w, "  %*s  %s\n", lineW, "", render(docStyle, "// "+doc))
			}
		}
		counts := m.Counts()
		fmt.Fprintln(w, render(countStyle, fmt.Sprintf("  public %d, internal %d, inaccessible %d",
			counts[symbols.Public], counts[symbols.Internal], counts[symbols.Inaccessible])))
	}
	return nil
}
