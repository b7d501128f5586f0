package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

// Detail is how much of each record a file map shows.
type Detail uint8

const (
	DetailAuto      Detail = iota // richest level that fits the budget
	DetailFull                    // signatures and modifiers
	DetailCompact                 // names, nesting kept
	DetailMinimal                 // names, nesting flattened to one level
	DetailOutline                 // top-level records only
	DetailTruncated               // outline cut to its first and last records
)

func (d Detail) String() string {
	switch d {
	case DetailAuto:
		return "auto"
	case DetailFull:
		return "full"
	case DetailCompact:
		return "compact"
	case DetailMinimal:
		return "minimal"
	case DetailOutline:
		return "outline"
	case DetailTruncated:
		return "truncated"
	default:
		return "invalid"
	}
}

// ParseDetail converts a flag value to Detail.
func ParseDetail(s string) (Detail, error) {
	for d := DetailAuto; d <= DetailTruncated; d++ {
		if strings.EqualFold(s, d.String()) {
			return d, nil
		}
	}
	if s == "" {
		return DetailAuto, nil
	}
	return DetailAuto, fmt.Errorf("invalid detail level %q (expected: auto|full|compact|minimal|outline|truncated)", s)
}

// Byte budgets of the detail tiers. A map is rendered at the first level
// whose output fits both its tier and the caller's budget.
const (
	FullTargetBytes    = 10 << 10
	CompactTargetBytes = 15 << 10
	MaxMapBytes        = 20 << 10
	MaxOutlineBytes    = 50 << 10
	MaxTruncatedBytes  = 100 << 10

	truncatedEach    = 50 // records kept at each end of a truncated outline
	minTruncatedEach = 10
)

const boxLine = "───────────────────────────────────────"

var numbers = message.NewPrinter(language.English)

// fileMap is one manifest reduced to a detail level.
type fileMap struct {
	path     string
	language string
	lines    int // 0 when the source is not in the file set
	size     int
	level    Detail
	records  []symbols.Record
	total    int // top-level records before truncation
	omitted  int // truncated: records left out between the halves
}

func newFileMap(m manifest.Manifest, fs *source.FileSet, opts ManifestOpts) fileMap {
	fm := fileMap{
		path:     displayPath(m.Path, fs, opts.PathMode),
		language: m.Language,
		level:    DetailFull,
		records:  m.Filter(opts.Only...),
	}
	if fs != nil {
		if f, ok := fs.GetByPath(m.Path); ok {
			fm.size = len(f.Content)
			fm.lines = len(f.LineIdx)
			if fm.size > 0 && f.Content[fm.size-1] != '\n' {
				fm.lines++
			}
		}
	}
	return fm
}

func stripped(r symbols.Record) symbols.Record {
	r.Signature = ""
	r.Modifiers = nil
	r.Doc = ""
	return r
}

// reduce returns fm at level. Truncated keeps each top-level records at both
// ends; when there are too few to cut, the outline is returned instead.
func (fm fileMap) reduce(level Detail, each int) fileMap {
	out := fm
	out.level = level
	out.records = nil
	switch level {
	case DetailFull:
		out.records = fm.records
	case DetailCompact, DetailMinimal:
		out.records = make([]symbols.Record, 0, len(fm.records))
		for _, r := range fm.records {
			out.records = append(out.records, stripped(r))
		}
	case DetailOutline, DetailTruncated:
		for _, r := range fm.records {
			if len(r.Scope) == 0 {
				out.records = append(out.records, stripped(r))
			}
		}
		out.level = DetailOutline
		out.total = len(out.records)
		if level == DetailTruncated && each > 0 && out.total > 2*each {
			head := out.records[:each]
			tail := out.records[out.total-each:]
			out.records = append(append([]symbols.Record(nil), head...), tail...)
			out.omitted = out.total - 2*each
			out.level = DetailTruncated
		}
	}
	return out
}

func lineRange(r symbols.Record) string {
	if r.EndLine <= r.Pos.Line {
		return fmt.Sprintf("[%d]", r.Pos.Line)
	}
	return fmt.Sprintf("[%d-%d]", r.Pos.Line, r.EndLine)
}

func (fm fileMap) recordLine(r symbols.Record) string {
	indent := len(r.Scope)
	if fm.level == DetailMinimal {
		indent = min(indent, 1)
	}
	name := r.Name
	if fm.level == DetailFull {
		switch {
		case r.Signature != "" && strings.Contains(r.Signature, r.Name):
			name = r.Signature
		case len(r.Modifiers) > 0:
			name = strings.Join(r.Modifiers, " ") + " " + name
		}
	}
	prefix := strings.Repeat("  ", indent)
	switch r.Kind {
	case symbols.KindType, symbols.KindEnum, symbols.KindNamespace, symbols.KindMacro:
		return fmt.Sprintf("%s%s %s: %s", prefix, r.Kind, name, lineRange(r))
	case symbols.KindVariable:
		return fmt.Sprintf("%s%s = ... %s", prefix, name, lineRange(r))
	default:
		return fmt.Sprintf("%s%s: %s", prefix, name, lineRange(r))
	}
}

func formatSize(n int) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	}
}

func (fm fileMap) render() string {
	var b strings.Builder
	b.WriteString(boxLine + "\n")
	fmt.Fprintf(&b, "File Map: %s\n", fm.path)
	facts := []string{numbers.Sprintf("%d records", len(fm.records))}
	if fm.level == DetailTruncated {
		facts[0] = numbers.Sprintf("%d of %d records", len(fm.records), fm.total)
	}
	if fm.lines > 0 {
		facts = append(facts, numbers.Sprintf("%d lines", fm.lines), formatSize(fm.size))
	}
	if fm.language != "" {
		facts = append(facts, fm.language)
	}
	b.WriteString(strings.Join(facts, " │ ") + "\n")
	b.WriteString(boxLine + "\n")

	switch fm.level {
	case DetailCompact:
		fmt.Fprintf(&b, "\n[map ≤%s | compact]\n", formatSize(CompactTargetBytes))
	case DetailMinimal:
		fmt.Fprintf(&b, "\n[map ≤%s | minimal]\n", formatSize(MaxMapBytes))
	case DetailOutline:
		fmt.Fprintf(&b, "\n[map ≤%s | outline]\n", formatSize(MaxOutlineBytes))
	case DetailTruncated:
		fmt.Fprintf(&b, "\n[map ≤%s | truncated]\n", formatSize(MaxTruncatedBytes))
	}
	b.WriteString("\n")

	half := len(fm.records)
	if fm.level == DetailTruncated {
		half /= 2
	}
	for _, r := range fm.records[:half] {
		b.WriteString(fm.recordLine(r) + "\n")
	}
	if fm.level == DetailTruncated {
		b.WriteString(numbers.Sprintf("\n  ─ ─ ─ %d more records ─ ─ ─\n\n", fm.omitted))
		for _, r := range fm.records[half:] {
			b.WriteString(fm.recordLine(r) + "\n")
		}
	}

	b.WriteString("\n" + boxLine + "\n")
	if fm.level == DetailTruncated && half > 0 {
		last, next := fm.records[half-1], fm.records[half]
		b.WriteString(numbers.Sprintf("Omitted records are in lines %d-%d.\n",
			max(last.EndLine, last.Pos.Line)+1, next.Pos.Line-1))
		b.WriteString(boxLine + "\n")
	}
	return b.String()
}

// budgeted renders fm at the richest level that fits maxBytes. It walks the
// tiers full, compact, minimal and outline, each limited by its own target;
// then tries the plain outline against maxBytes alone; and finally binary
// searches the largest truncated outline that fits.
func (fm fileMap) budgeted(maxBytes int) string {
	if maxBytes <= 0 {
		maxBytes = MaxTruncatedBytes
	}
	tiers := []struct {
		level  Detail
		budget int
	}{
		{DetailFull, FullTargetBytes},
		{DetailCompact, CompactTargetBytes},
		{DetailMinimal, MaxMapBytes},
		{DetailOutline, MaxOutlineBytes},
	}
	for _, tier := range tiers {
		out := fm.reduce(tier.level, 0).render()
		if len(out) <= tier.budget && len(out) <= maxBytes {
			return out
		}
	}
	outline := fm.reduce(DetailOutline, 0)
	if out := outline.render(); len(out) <= maxBytes {
		return out
	}

	low, high := minTruncatedEach, outline.total/2
	best := ""
	for low <= high {
		mid := (low + high) / 2
		out := fm.reduce(DetailTruncated, mid).render()
		if len(out) <= maxBytes {
			best = out
			low = mid + 1
		} else {
			high = mid - 1
		}
	}
	if best != "" {
		return best
	}
	return fm.reduce(DetailTruncated, minTruncatedEach).render()
}

// ManifestMap writes one file map per manifest: a boxed header and one line
// per record with its line range. opts.Detail picks the level; DetailAuto
// reduces detail until the map fits opts.Budget bytes.
func ManifestMap(w io.Writer, ms []manifest.Manifest, fs *source.FileSet, opts ManifestOpts) error {
	for i, m := range ms {
		fm := newFileMap(m, fs, opts)
		var out string
		switch opts.Detail {
		case DetailAuto:
			out = fm.budgeted(opts.Budget)
		case DetailTruncated:
			out = fm.reduce(DetailTruncated, truncatedEach).render()
		default:
			out = fm.reduce(opts.Detail, 0).render()
		}
		if i > 0 {
			out = "\n" + out
		}
		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	return nil
}
