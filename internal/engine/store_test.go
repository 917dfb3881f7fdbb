package engine

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStoreSeedAndUpdate(t *testing.T) {
	s := NewResultStore()
	gen := s.Reset()
	s.Seed(gen, []SearchCandidate{
		{URL: "https://a.example", Snippet: "a"},
		{URL: "https://b.example", Snippet: "b"},
		{URL: "https://a.example", Snippet: "a again"},
	})

	snap := s.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "https://a.example", snap[0].URL)
	assert.Equal(t, "b", snap[1].Snippet)
	assert.Empty(t, snap[0].Content)

	// Duplicate URLs are independent entries.
	assert.True(t, s.Update(gen, 2, SourceResult{URL: "https://a.example", Content: "third"}))
	snap = s.Snapshot()
	assert.Empty(t, snap[0].Content)
	assert.Equal(t, "third", snap[2].Content)
}

func TestResultStoreSnapshotIsCopy(t *testing.T) {
	s := NewResultStore()
	gen := s.Reset()
	s.Seed(gen, []SearchCandidate{{URL: "u"}})

	snap := s.Snapshot()
	snap[0].Content = "mutated"
	assert.Empty(t, s.Snapshot()[0].Content)
}

func TestResultStoreDropsStaleGeneration(t *testing.T) {
	s := NewResultStore()
	old := s.Reset()
	s.Seed(old, []SearchCandidate{{URL: "u"}})

	cur := s.Reset()
	assert.Equal(t, 0, s.Len(), "reset must clear entries")
	s.Seed(cur, []SearchCandidate{{URL: "v"}})

	assert.False(t, s.Update(old, 0, SourceResult{URL: "u", Content: "late"}))
	s.Seed(old, []SearchCandidate{{URL: "late"}})
	assert.Equal(t, []SourceResult{{URL: "v"}}, s.Snapshot())
}

func TestResultStoreUpdateOutOfRange(t *testing.T) {
	s := NewResultStore()
	gen := s.Reset()
	assert.False(t, s.Update(gen, 0, SourceResult{}))
	assert.False(t, s.Update(gen, -1, SourceResult{}))
}

func TestResultStoreConcurrentAccess(t *testing.T) {
	s := NewResultStore()
	gen := s.Reset()
	cands := make([]SearchCandidate, 50)
	for i := range cands {
		cands[i] = SearchCandidate{URL: fmt.Sprintf("https://example.com/%d", i)}
	}
	s.Seed(gen, cands)

	var wg sync.WaitGroup
	for i := range cands {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Update(gen, i, SourceResult{URL: cands[i].URL, Content: "done"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()

	for i, r := range s.Snapshot() {
		assert.Equal(t, cands[i].URL, r.URL)
		assert.Equal(t, "done", r.Content)
	}
}
