package engine

import "errors"

// Search failures are fatal to a research call; all other kinds degrade a
// single source result.
var (
	ErrSearchUnavailable = errors.New("search unavailable")
	ErrInvalidURL        = errors.New("invalid url")
	ErrFetchFailed       = errors.New("fetch failed")
	ErrFetchTimeout      = errors.New("fetch timeout")
	ErrParseFailed       = errors.New("parse failed")
	ErrSummarizeFailed   = errors.New("summarize failed")
	ErrSummarizeTimeout  = errors.New("summarize timeout")
)
