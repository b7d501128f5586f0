package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"apiscan/internal/diag"
	"apiscan/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			formatPath(file, fs, opts.PathMode), start.Line, start.Col,
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message)
		writeContext(w, file, d.Primary, opts, p)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
				formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col, n.Msg)
		}
	}
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostic(s) not shown (--max-diagnostics)\n", dropped)
	}
}

func writeContext(w io.Writer, file *source.File, span source.Span, opts PrettyOpts, p palette) {
	if len(file.Content) == 0 {
		return
	}
	start := file.Position(span.Start)
	end := file.Position(span.End)
	ctx := uint32(max(opts.Context, 0))

	lines := uint32(len(file.LineIdx)) + 1
	first := start.Line - min(ctx, start.Line-1)
	last := min(start.Line+ctx, lines)
	gutter := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := file.GetLine(line)
		text = strings.ReplaceAll(text, "\t", "    ")
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "...")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutter, line), text)
		if line != start.Line {
			continue
		}

		raw := file.GetLine(line)
		col := int(start.Col) - 1
		col = min(col, len(raw))
		lead := runewidth.StringWidth(strings.ReplaceAll(raw[:col], "\t", "    "))
		width := 1
		switch {
		case end.Line == start.Line && end.Col > start.Col:
			width = max(runewidth.StringWidth(raw[col:min(int(end.Col)-1, len(raw))]), 1)
		case end.Line > start.Line:
			width = max(runewidth.StringWidth(raw[col:]), 1)
		}
		marker := "^" + strings.Repeat("~", width-1)
		fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutter, ""), strings.Repeat(" ", lead), p.caret.Sprint(marker))
	}
}
