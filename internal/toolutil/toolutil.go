// Package toolutil provides shared helper functions for go_research MCP tools.
package toolutil

import (
	"context"
	"errors"
	"time"

	"github.com/anatolykoptev/go_research/internal/engine"
)

// BoolOr returns *p, or def when p is nil.
func BoolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

// Timeout converts a caller-supplied second count into a duration, falling
// back to def for non-positive values and clamping to limit when limit > 0.
func Timeout(seconds int, def, limit time.Duration) time.Duration {
	d := def
	if seconds > 0 {
		d = time.Duration(seconds) * time.Second
	}
	if limit > 0 && d > limit {
		d = limit
	}
	return d
}

// ResearchStatus classifies a research run for the calling chat client.
// The note tells the model how to proceed when web results are missing.
func ResearchStatus(results []engine.SourceResult, err error) (status, note string) {
	switch {
	case errors.Is(err, engine.ErrSearchUnavailable):
		return engine.StatusSearchUnavailable, "Web search is unavailable right now. Answer from your own knowledge and say that no web sources were consulted."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		if engine.CountUsable(results) == 0 {
			return engine.StatusPartial, "Web research ran out of time before any page was read. Answer from your own knowledge."
		}
		return engine.StatusPartial, "Web research ran out of time; only some sources were read."
	case engine.CountUsable(results) == 0:
		return engine.StatusNoResults, "Web search yielded nothing useful. Answer from your own knowledge."
	default:
		return engine.StatusOK, ""
	}
}
