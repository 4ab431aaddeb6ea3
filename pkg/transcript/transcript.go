package transcript

import (
	"fmt"
	"sync"
)

// ErrBrokenChain is returned by Verify when an entry no longer matches its hash
// or does not link to its predecessor.
type ErrBrokenChain struct {
	Index int
	Hash  string
}

func (e ErrBrokenChain) Error() string {
	return fmt.Sprintf("transcript chain broken at entry %d (%s)", e.Index, e.Hash)
}

// Transcript is an ordered, append-only list of entries. Insertion order is
// display order. It is safe for concurrent use.
type Transcript struct {
	mu      sync.RWMutex
	entries []*Entry
}

// New returns an empty transcript.
func New() *Transcript {
	return &Transcript{}
}

// Append adds an entry after the current head and returns a copy of it.
func (t *Transcript) Append(author Author, text string, image *ImageRef) Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var parent *Entry
	if n := len(t.entries); n > 0 {
		parent = t.entries[n-1]
	}

	e := NewEntry(author, text, image, parent)
	t.entries = append(t.entries, e)
	return e.clone()
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Entries returns copies of all entries, oldest first.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.clone()
	}
	return out
}

// Head returns the most recent entry. ok is false for an empty transcript.
func (t *Transcript) Head() (Entry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1].clone(), true
}

// Count returns the number of entries by the given author.
func (t *Transcript) Count(author Author) int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for _, e := range t.entries {
		if e.Author == author {
			n++
		}
	}
	return n
}

// Verify recomputes every hash and parent link.
func (t *Transcript) Verify() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return verify(t.entries)
}

func verify(entries []*Entry) error {
	var prev *Entry
	for i, e := range entries {
		switch {
		case prev == nil && e.ParentHash != nil:
			return ErrBrokenChain{Index: i, Hash: e.Hash}
		case prev != nil && (e.ParentHash == nil || *e.ParentHash != prev.Hash):
			return ErrBrokenChain{Index: i, Hash: e.Hash}
		case e.computeHash() != e.Hash:
			return ErrBrokenChain{Index: i, Hash: e.Hash}
		}
		prev = e
	}
	return nil
}
