package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

type TokenOutput struct {
	Kind  string `json:"kind"`
	Text  string `json:"text,omitempty"`
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
	Line  uint32 `json:"line"`
	Col   uint32 `json:"col"`
}

// TokenOpts configures token dumps.
type TokenOpts struct {
	SkipTrivia bool // drop whitespace and newlines; comments are kept
}

func keepToken(tok token.Token, opts TokenOpts) bool {
	if !opts.SkipTrivia {
		return true
	}
	return tok.Kind != token.Whitespace && tok.Kind != token.Newline
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, opts TokenOpts) error {
	n := 0
	for _, tok := range tokens {
		if !keepToken(tok, opts) {
			continue
		}
		n++
		startPos, endPos := fs.Resolve(tok.Span)
		if _, err := fmt.Fprintf(w, "%4d: %-14s", n, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d\n", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet, opts TokenOpts) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		if !keepToken(tok, opts) {
			continue
		}
		pos, _ := fs.Resolve(tok.Span)
		output = append(output, TokenOutput{
			Kind:  tok.Kind.String(),
			Text:  tok.Text,
			Start: tok.Span.Start,
			End:   tok.Span.End,
			Line:  pos.Line,
			Col:   pos.Col,
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
