package manifest

import (
	"fmt"
	"slices"

	"apiscan/internal/diag"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

// Manifest is the ordered list of records of one file.
type Manifest struct {
	Path     string
	Language string // "c", "c++" or empty when undecided
	Records  []symbols.Record
}

// Filter returns the records whose visibility is one of vis, in order.
// With no arguments every record is returned.
func (m Manifest) Filter(vis ...symbols.Visibility) []symbols.Record {
	if len(vis) == 0 {
		return m.Records
	}
	out := make([]symbols.Record, 0, len(m.Records))
	for _, r := range m.Records {
		if slices.Contains(vis, r.Visibility) {
			out = append(out, r)
		}
	}
	return out
}

// Counts tallies records per visibility.
func (m Manifest) Counts() map[symbols.Visibility]int {
	out := make(map[symbols.Visibility]int, 3)
	for _, r := range m.Records {
		out[r.Visibility]++
	}
	return out
}

type key struct {
	path string
	pos  source.LineCol
}

// Builder appends records in declaration order. The only records it drops are
// those repeating the scope path and position of an earlier record.
type Builder struct {
	path     string
	records  []symbols.Record
	seen     map[key]struct{}
	reporter diag.Reporter
}

// NewBuilder creates a builder for the manifest of path.
func NewBuilder(path string, r diag.Reporter) *Builder {
	return &Builder{
		path:     path,
		seen:     make(map[key]struct{}),
		reporter: r,
	}
}

func keyOf(r symbols.Record) key {
	return key{path: r.ScopePath(), pos: r.Pos}
}

// Add appends rec and returns its index, or -1 when rec duplicates an earlier record.
func (b *Builder) Add(rec symbols.Record) int {
	k := keyOf(rec)
	if _, dup := b.seen[k]; dup {
		diag.ReportInfo(b.reporter, diag.DeclDuplicateRecord, rec.Span,
			fmt.Sprintf("%s %s is already recorded at %d:%d", rec.Kind, rec.ScopePath(), rec.Pos.Line, rec.Pos.Col)).Emit()
		return -1
	}
	b.seen[k] = struct{}{}
	b.records = append(b.records, rec)
	return len(b.records) - 1
}

// Len returns the number of records so far.
func (b *Builder) Len() int { return len(b.records) }

// SetEnd records the last line of the entity at idx, e.g. the closing brace of a body.
func (b *Builder) SetEnd(idx int, line uint32) {
	if idx < 0 || idx >= len(b.records) {
		return
	}
	b.records[idx].EndLine = line
}

// Requalify inserts name into the scope of records[from:to] at depth at. It is
// used when a typedef names an anonymous struct after its members were recorded.
func (b *Builder) Requalify(from, to, at int, name string) {
	for i := max(from, 0); i < min(to, len(b.records)); i++ {
		r := &b.records[i]
		if at > len(r.Scope) {
			continue
		}
		delete(b.seen, keyOf(*r))
		r.Scope = slices.Insert(slices.Clone(r.Scope), at, name)
		b.seen[keyOf(*r)] = struct{}{}
	}
}

// Manifest returns the finished manifest. The builder must not be used afterwards.
func (b *Builder) Manifest() Manifest {
	return Manifest{Path: b.path, Records: b.records}
}
