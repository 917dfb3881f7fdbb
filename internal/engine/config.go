package engine

import (
	"net/http"
	"time"
)

// Default limits for the research pipeline.
const (
	DefaultSearchURL       = "https://html.duckduckgo.com/html/"
	DefaultSearchTimeout   = 10 * time.Second
	DefaultFetchTimeout    = 10 * time.Second
	DefaultParseTimeout    = 5 * time.Second
	DefaultSummaryTimeout  = 15 * time.Second
	DefaultMaxContentChars = 20000
	DefaultBatchSize       = 4
	DefaultMaxResults      = 10
	DefaultCacheMaxAge     = 24 * time.Hour
)

// Config holds all engine configuration, injected from main.
type Config struct {
	SearchURL       string
	SearchTimeout   time.Duration
	FetchTimeout    time.Duration
	ParseTimeout    time.Duration
	SummaryTimeout  time.Duration
	MaxContentChars int
	MaxResults      int
	BatchSize       int
	FetchRPS        float64 // 0 = unlimited
	CacheDir        string  // root; the conversation directory is created below it
	CacheMaxAge     time.Duration
	ConversationID  string
	HTTPClient      *http.Client
	SearchRetry     RetryConfig
}

// withDefaults fills zero-valued fields.
func (c Config) withDefaults() Config {
	if c.SearchURL == "" {
		c.SearchURL = DefaultSearchURL
	}
	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = DefaultFetchTimeout
	}
	if c.ParseTimeout <= 0 {
		c.ParseTimeout = DefaultParseTimeout
	}
	if c.SummaryTimeout <= 0 {
		c.SummaryTimeout = DefaultSummaryTimeout
	}
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = DefaultMaxContentChars
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = DefaultCacheMaxAge
	}
	if c.HTTPClient == nil {
		c.HTTPClient = NewHTTPClient()
	}
	return c
}
