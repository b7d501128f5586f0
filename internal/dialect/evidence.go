package dialect

import "apiscan/internal/source"

// Hint is a small piece of evidence suggesting a particular language.
type Hint struct {
	Dialect Kind
	Score   int
	Reason  string
	Span    source.Span // first occurrence
	Count   int
}

// repeatCap bounds how many occurrences of one reason add to its score.
const repeatCap = 3

// Evidence aggregates per-file hints collected while scanning.
// Hints with the same language and reason are merged.
type Evidence struct {
	hints []Hint
	index map[hintKey]int
}

type hintKey struct {
	dialect Kind
	reason  string
}

// NewEvidence creates a new Evidence container.
func NewEvidence() *Evidence {
	return &Evidence{
		hints: make([]Hint, 0, 16),
		index: make(map[hintKey]int),
	}
}

// Add records h. A repeated reason raises the score of the first hint until
// it has been seen repeatCap times.
func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	k := hintKey{h.Dialect, h.Reason}
	if i, ok := e.index[k]; ok {
		prev := &e.hints[i]
		prev.Count++
		if prev.Count <= repeatCap {
			prev.Score += h.Score
		}
		return
	}
	h.Count = 1
	e.index[k] = len(e.hints)
	e.hints = append(e.hints, h)
}

// Hints returns the collected hints in order of first occurrence.
func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}
