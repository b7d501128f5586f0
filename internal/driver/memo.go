package driver

import (
	"sync"

	"apiscan/internal/project"
)

// minimal per-process cache by path + content key
type memoized struct {
	key   project.Digest
	entry *entry
}

// Memo is an in-memory cache used by long-running sessions (watch mode):
// unchanged files are not rescanned between runs.
type Memo struct {
	mu     sync.RWMutex
	byPath map[string]memoized
}

// NewMemo creates a Memo with the given capacity hint.
func NewMemo(capHint int) *Memo {
	return &Memo{byPath: make(map[string]memoized, capHint)}
}

func (m *Memo) get(path string, key project.Digest) (*entry, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.RLock()
	rec, ok := m.byPath[path]
	m.mu.RUnlock()
	if !ok || rec.key != key {
		return nil, false
	}
	return rec.entry, true
}

func (m *Memo) put(path string, key project.Digest, e *entry) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.byPath[path] = memoized{key: key, entry: e}
	m.mu.Unlock()
}

// Forget drops path, e.g. after the file was removed.
func (m *Memo) Forget(path string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	delete(m.byPath, path)
	m.mu.Unlock()
}

// Len returns the number of memoized files.
func (m *Memo) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byPath)
}
