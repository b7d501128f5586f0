package comments

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

// Block is a merged run of documentation comments.
type Block struct {
	Text      string      // markers stripped, lines joined with "\n"
	Span      source.Span // from the first to the last doc comment
	StartLine uint32
	EndLine   uint32
	IsDoc     bool
}

// Store tracks the pending doc block of one file.
type Store struct {
	file     *source.File
	pending  bool
	block    Block
	parts    []string
	frontier uint32 // last line of the comment chain that keeps the block adjacent
}

// NewStore creates an empty store for file.
func NewStore(file *source.File) *Store {
	if file == nil {
		panic("comments: nil file")
	}
	return &Store{file: file}
}

// Add consumes a Comment or DocComment token. Other kinds are ignored.
func (s *Store) Add(tok token.Token) {
	if !tok.IsComment() || tok.Span.Empty() {
		return
	}
	startLine := s.file.Line(tok.Span.Start)
	endLine := s.file.Line(tok.Span.End - 1)
	adjacent := s.pending && startLine <= s.frontier+1

	if tok.Kind == token.Comment {
		if adjacent {
			s.frontier = max(s.frontier, endLine)
		} else {
			s.Break()
		}
		return
	}

	if !adjacent {
		s.Break()
		s.pending = true
		s.block = Block{Span: tok.Span, StartLine: startLine, IsDoc: true}
	}
	s.parts = append(s.parts, Clean(tok.Text))
	s.block.Span = s.block.Span.Cover(tok.Span)
	s.block.EndLine = endLine
	s.frontier = endLine
}

// Break drops the pending block.
func (s *Store) Break() {
	s.pending = false
	s.block = Block{}
	s.parts = s.parts[:0]
	s.frontier = 0
}

// Pending returns the current block without consuming it.
func (s *Store) Pending() (Block, bool) {
	if !s.pending {
		return Block{}, false
	}
	b := s.block
	b.Text = s.text()
	return b, true
}

// Take returns the pending block if a declaration starting on line is adjacent to it:
// on the same line as the end of the comment chain or on the next one.
// The block is cleared either way, since the declaration itself is a significant token.
func (s *Store) Take(line uint32) (Block, bool) {
	b, ok := s.Pending()
	adjacent := ok && line >= s.block.StartLine && line <= s.frontier+1
	s.Break()
	if !adjacent || b.Text == "" {
		return Block{}, false
	}
	return b, true
}

func (s *Store) text() string {
	return strings.TrimSpace(norm.NFC.String(strings.Join(s.parts, "\n")))
}

// Clean strips comment markers from one comment: `///`, `//!`, `/**`, `/*!`, `*/`
// and the leading `*` gutter of block comment lines. Block lines without a gutter
// are dedented by their common indentation. Blank lines at both ends are dropped.
func Clean(text string) string {
	var lines []string
	switch {
	case strings.HasPrefix(text, "//"):
		body := strings.TrimLeft(text[2:], "/!")
		lines = strings.Split(body, "\n")
		for i, l := range lines {
			l = strings.TrimSuffix(l, "\\")
			lines[i] = strings.TrimPrefix(strings.TrimRight(l, " \t"), " ")
		}
	case strings.HasPrefix(text, "/*"):
		body := strings.TrimPrefix(text[2:], "*")
		body = strings.TrimPrefix(body, "!")
		body = strings.TrimSuffix(body, "*/")
		lines = strings.Split(body, "\n")
		var plain []int
		for i, l := range lines {
			trimmed := strings.TrimLeft(l, " \t")
			switch {
			case i == 0:
				l = trimmed
			case strings.HasPrefix(trimmed, "*"):
				l = strings.TrimPrefix(strings.TrimLeft(trimmed, "*"), " ")
			default:
				plain = append(plain, i)
			}
			lines[i] = strings.TrimRight(l, " \t")
		}
		dedent(lines, plain)
	default:
		return strings.TrimSpace(text)
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// dedent removes the common leading whitespace of the lines at idx.
func dedent(lines []string, idx []int) {
	indent := -1
	for _, i := range idx {
		l := lines[i]
		if l == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return
	}
	for _, i := range idx {
		if len(lines[i]) >= indent {
			lines[i] = lines[i][indent:]
		}
	}
}
