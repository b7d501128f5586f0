package driver

import (
	"apiscan/internal/diag"
	"apiscan/internal/manifest"
	"apiscan/internal/source"
	"apiscan/internal/symbols"
)

// entry is the stored outcome of scanning one file content. Spans keep only
// byte offsets; the file id is rebound when the entry is restored.
type entry struct {
	Schema   uint16        `msgpack:"schema"`
	Language string        `msgpack:"lang,omitempty"`
	Records  []entryRecord `msgpack:"records"`
	Diags    []entryDiag   `msgpack:"diags"`
}

type entryRecord struct {
	Name       string   `msgpack:"name"`
	Kind       uint8    `msgpack:"kind"`
	Scope      []string `msgpack:"scope,omitempty"`
	Visibility uint8    `msgpack:"vis"`
	Linkage    uint8    `msgpack:"link"`
	Doc        string   `msgpack:"doc,omitempty"`
	Signature  string   `msgpack:"sig,omitempty"`
	Modifiers  []string `msgpack:"mods,omitempty"`
	Start      uint32   `msgpack:"start"`
	End        uint32   `msgpack:"end"`
	Line       uint32   `msgpack:"line"`
	Col        uint32   `msgpack:"col"`
	EndLine    uint32   `msgpack:"end_line"`
}

type entryDiag struct {
	Severity uint8       `msgpack:"sev"`
	Code     uint16      `msgpack:"code"`
	Message  string      `msgpack:"msg"`
	Start    uint32      `msgpack:"start"`
	End      uint32      `msgpack:"end"`
	Notes    []entryNote `msgpack:"notes,omitempty"`
}

type entryNote struct {
	Start uint32 `msgpack:"start"`
	End   uint32 `msgpack:"end"`
	Msg   string `msgpack:"msg"`
}

func newEntry(m manifest.Manifest, diags []*diag.Diagnostic) *entry {
	e := &entry{
		Schema:   cacheSchemaVersion,
		Language: m.Language,
		Records:  make([]entryRecord, len(m.Records)),
		Diags:    make([]entryDiag, 0, len(diags)),
	}
	for i, r := range m.Records {
		e.Records[i] = entryRecord{
			Name:       r.Name,
			Kind:       uint8(r.Kind),
			Scope:      r.Scope,
			Visibility: uint8(r.Visibility),
			Linkage:    uint8(r.Linkage),
			Doc:        r.Doc,
			Signature:  r.Signature,
			Modifiers:  r.Modifiers,
			Start:      r.Span.Start,
			End:        r.Span.End,
			Line:       r.Pos.Line,
			Col:        r.Pos.Col,
			EndLine:    r.EndLine,
		}
	}
	for _, d := range diags {
		ed := entryDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			ed.Notes = append(ed.Notes, entryNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		e.Diags = append(e.Diags, ed)
	}
	return e
}

func (e *entry) manifest(file *source.File) manifest.Manifest {
	m := manifest.Manifest{
		Path:     file.Path,
		Language: e.Language,
		Records:  make([]symbols.Record, len(e.Records)),
	}
	for i, r := range e.Records {
		m.Records[i] = symbols.Record{
			Name:       r.Name,
			Kind:       symbols.Kind(r.Kind),
			Scope:      r.Scope,
			Visibility: symbols.Visibility(r.Visibility),
			Linkage:    symbols.Linkage(r.Linkage),
			Doc:        r.Doc,
			Signature:  r.Signature,
			Modifiers:  r.Modifiers,
			Span:       file.Span(r.Start, r.End),
			Pos:        source.LineCol{Line: r.Line, Col: r.Col},
			EndLine:    r.EndLine,
		}
	}
	return m
}

func (e *entry) diagnostics(file *source.File) []*diag.Diagnostic {
	out := make([]*diag.Diagnostic, 0, len(e.Diags))
	for _, ed := range e.Diags {
		d := &diag.Diagnostic{
			Severity: diag.Severity(ed.Severity),
			Code:     diag.Code(ed.Code),
			Message:  ed.Message,
			Primary:  file.Span(ed.Start, ed.End),
		}
		for _, n := range ed.Notes {
			d.Notes = append(d.Notes, diag.Note{Span: file.Span(n.Start, n.End), Msg: n.Msg})
		}
		out = append(out, d)
	}
	return out
}
