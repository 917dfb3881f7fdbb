package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ResearchRuns     atomic.Int64
	SearchRequests   atomic.Int64
	SearchErrors     atomic.Int64
	FetchRequests    atomic.Int64
	FetchErrors      atomic.Int64
	FetchTimeouts    atomic.Int64
	LLMCalls         atomic.Int64
	LLMErrors        atomic.Int64
	CacheHits        atomic.Int64
	CacheMisses      atomic.Int64
	CacheWriteErrors atomic.Int64
}

var metricKeys = []string{
	"research_runs",
	"search_requests", "search_errors",
	"fetch_requests", "fetch_errors", "fetch_timeouts",
	"llm_calls", "llm_errors",
	"cache_hits", "cache_misses", "cache_write_errors",
}

// GetMetrics returns a snapshot of all metrics.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"research_runs":      metrics.ResearchRuns.Load(),
		"search_requests":    metrics.SearchRequests.Load(),
		"search_errors":      metrics.SearchErrors.Load(),
		"fetch_requests":     metrics.FetchRequests.Load(),
		"fetch_errors":       metrics.FetchErrors.Load(),
		"fetch_timeouts":     metrics.FetchTimeouts.Load(),
		"llm_calls":          metrics.LLMCalls.Load(),
		"llm_errors":         metrics.LLMErrors.Load(),
		"cache_hits":         metrics.CacheHits.Load(),
		"cache_misses":       metrics.CacheMisses.Load(),
		"cache_write_errors": metrics.CacheWriteErrors.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 20*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
