package engine

import "sync"

// ResultStore is the shared, ordered result set of one research run.
// Workers update entries by index; readers take snapshots at any time.
type ResultStore struct {
	mu      sync.RWMutex
	results []SourceResult
	gen     uint64
}

// NewResultStore returns an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Reset clears the store and starts a new generation. Updates tagged with an
// older generation are dropped.
func (s *ResultStore) Reset() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = nil
	s.gen++
	return s.gen
}

// Seed appends one empty entry per candidate, in candidate order.
func (s *ResultStore) Seed(gen uint64, candidates []SearchCandidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	for _, c := range candidates {
		s.results = append(s.results, SourceResult{URL: c.URL, Snippet: c.Snippet})
	}
}

// Update replaces entry i in place. It reports false when the run that
// produced the update has been superseded or i is out of range.
func (s *ResultStore) Update(gen uint64, i int, r SourceResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || i < 0 || i >= len(s.results) {
		return false
	}
	s.results[i] = r
	return true
}

// Snapshot returns a copy of the current entries.
func (s *ResultStore) Snapshot() []SourceResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SourceResult, len(s.results))
	copy(out, s.results)
	return out
}

// Len returns the number of entries.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}
