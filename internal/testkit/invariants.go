package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"apiscan/internal/source"
	"apiscan/internal/token"
)

// CheckTokenCoverage verifies the lexer span invariants for a full token stream:
// 1) the stream ends with exactly one EOF token, positioned at the end of input
// 2) every other token is non-empty, belongs to sf and its Text matches its span
// 3) consecutive spans touch, so the concatenated text reproduces the input
func CheckTokenCoverage(tokens []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(tokens) == 0 {
		return fmt.Errorf("empty token stream")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var next uint32
	var rebuilt strings.Builder
	for i, tok := range tokens {
		sp := tok.Span
		if sp.File != sf.ID {
			return fmt.Errorf("token %d: span file mismatch: got=%d want=%d", i, sp.File, sf.ID)
		}
		if sp.Start != next {
			return fmt.Errorf("token %d (%v %q): starts at %d, previous ended at %d", i, tok.Kind, tok.Text, sp.Start, next)
		}
		if tok.Kind == token.EOF {
			if i != len(tokens)-1 {
				return fmt.Errorf("token %d: EOF before the end of the stream", i)
			}
			if !sp.Empty() || sp.Start != lenContent {
				return fmt.Errorf("EOF span %v, want empty span at %d", sp, lenContent)
			}
			break
		}
		if sp.Empty() {
			return fmt.Errorf("token %d (%v): empty span %v", i, tok.Kind, sp)
		}
		if sp.End > lenContent {
			return fmt.Errorf("token %d: span %v beyond content length %d", i, sp, lenContent)
		}
		if tok.Text != string(sf.Content[sp.Start:sp.End]) {
			return fmt.Errorf("token %d: text %q does not match span %v", i, tok.Text, sp)
		}
		rebuilt.WriteString(tok.Text)
		next = sp.End
	}
	if tokens[len(tokens)-1].Kind != token.EOF {
		return fmt.Errorf("stream does not end with EOF")
	}
	if rebuilt.String() != string(sf.Content) {
		return fmt.Errorf("concatenated token text differs from input")
	}
	return nil
}
