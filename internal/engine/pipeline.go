package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Researcher runs the search → fetch → summarize → cache pipeline and
// publishes per-URL results into a shared ResultStore.
type Researcher struct {
	searcher   Searcher
	fetcher    PageFetcher
	summarizer *Summarizer
	cache      *DocumentCache // nil disables caching
	store      *ResultStore

	maxResults int
	batchSize  int

	run *semaphore.Weighted // one research run at a time per Researcher
}

// NewResearcher wires the pipeline stages together.
func NewResearcher(cfg Config, searcher Searcher, fetcher PageFetcher, summarizer *Summarizer, cache *DocumentCache) *Researcher {
	cfg = cfg.withDefaults()
	if summarizer == nil {
		summarizer = NewSummarizer(nil, cfg)
	}
	return &Researcher{
		searcher:   searcher,
		fetcher:    fetcher,
		summarizer: summarizer,
		cache:      cache,
		store:      NewResultStore(),
		maxResults: cfg.MaxResults,
		batchSize:  cfg.BatchSize,
		run:        semaphore.NewWeighted(1),
	}
}

// Results returns a snapshot of the current run's results. Safe to call
// while a run is in progress.
func (r *Researcher) Results() []SourceResult {
	return r.store.Snapshot()
}

// Research runs the pipeline for query.
//
// On search failure it returns an empty result and an error wrapping
// ErrSearchUnavailable. If ctx ends first, it returns the results completed
// so far together with ctx's error. Per-URL failures are logged and leave
// that entry with only its url and snippet. A call that cannot start before
// ctx ends, because another run holds the Researcher, returns nil and ctx's
// error.
func (r *Researcher) Research(ctx context.Context, query string, summarize bool) (results []SourceResult, err error) {
	if err := r.run.Acquire(ctx, 1); err != nil {
		slog.Warn("research: run slot busy", slog.String("query", query), slog.Any("error", err))
		return nil, fmt.Errorf("research: %w", err)
	}
	defer r.run.Release(1)

	metrics.ResearchRuns.Add(1)
	_ = TrackOperation(ctx, "research:"+query, func(ctx context.Context) error {
		results, err = r.research(ctx, query, summarize)
		return err
	})
	return results, err
}

func (r *Researcher) research(ctx context.Context, query string, summarize bool) ([]SourceResult, error) {
	gen := r.store.Reset()

	candidates, err := r.searcher.Search(ctx, query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			slog.Warn("research: deadline reached during search", slog.String("query", query), slog.Any("error", err))
			return nil, fmt.Errorf("research: %w", ctxErr)
		}
		if !errors.Is(err, ErrSearchUnavailable) {
			err = fmt.Errorf("%w: %w", ErrSearchUnavailable, err)
		}
		slog.Warn("research: search failed", slog.String("query", query), slog.Any("error", err))
		return nil, err
	}
	r.store.Seed(gen, candidates)

	// Every candidate is seeded; only the first maxResults are processed.
	limit := min(len(candidates), r.maxResults)
	for start := 0; start < limit; start += r.batchSize {
		end := min(start+r.batchSize, limit)
		if err := r.runBatch(ctx, gen, query, candidates, start, end, summarize); err != nil {
			snap := r.store.Snapshot()
			slog.Warn("research: deadline reached",
				slog.String("query", query),
				slog.Int("completed_batches", start/r.batchSize),
				slog.Int("results", len(snap)),
				slog.Any("error", err))
			return snap, fmt.Errorf("research: %w", err)
		}
	}

	return r.store.Snapshot(), nil
}

// runBatch processes candidates[start:end] concurrently and waits for all of
// them or for ctx to end. Workers left running after ctx ends see a
// cancelled context and exit on their own.
func (r *Researcher) runBatch(ctx context.Context, gen uint64, query string, candidates []SearchCandidate, start, end int, summarize bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var g errgroup.Group
	for i := start; i < end; i++ {
		g.Go(func() error {
			r.processOne(ctx, gen, query, i, candidates[i], summarize)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// processOne fills entry i: cache hit, or fetch → summarize → cache write.
func (r *Researcher) processOne(ctx context.Context, gen uint64, query string, i int, c SearchCandidate, summarize bool) {
	if doc, ok := r.cacheRead(c.URL); ok {
		summary := ""
		if summarize {
			summary = doc.Summary
			if summary == "" {
				summary = r.summarizer.Summarize(ctx, doc.Document, query, true)
				r.cacheWrite(c.URL, firstNonEmpty(c.Snippet, doc.Snippet), doc.Document, summary)
			}
		}
		r.store.Update(gen, i, SourceResult{
			URL:     c.URL,
			Snippet: firstNonEmpty(c.Snippet, doc.Snippet),
			Content: doc.Document,
			Summary: summary,
		})
		return
	}

	content, err := r.fetcher.Fetch(ctx, c.URL)
	if err != nil {
		slog.Warn("research: fetch failed", slog.String("url", c.URL), slog.Any("error", err))
		return
	}

	summary := r.summarizer.Summarize(ctx, content, query, summarize)
	r.cacheWrite(c.URL, c.Snippet, content, summary)

	r.store.Update(gen, i, SourceResult{
		URL:     c.URL,
		Snippet: c.Snippet,
		Content: content,
		Summary: summary,
	})
}

func (r *Researcher) cacheRead(url string) (CachedDocument, bool) {
	if r.cache == nil {
		return CachedDocument{}, false
	}
	return r.cache.Read(url)
}

func (r *Researcher) cacheWrite(url, snippet, content, summary string) {
	if r.cache == nil {
		return
	}
	if _, err := r.cache.Write(url, snippet, content, summary); err != nil {
		metrics.CacheWriteErrors.Add(1)
		slog.Warn("research: cache write failed", slog.String("url", url), slog.Any("error", err))
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
