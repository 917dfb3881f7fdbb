package engine

// --- Core pipeline types ---

// SearchCandidate is one (url, snippet) pair from the result listing.
type SearchCandidate struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SourceResult is the per-URL record published to callers.
type SourceResult struct {
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Content string `json:"content,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// CachedDocument is the on-disk cache record. Timestamp is the unix time of
// the last write.
type CachedDocument struct {
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	Document  string `json:"document"`
	Summary   string `json:"summary"`
	Timestamp uint64 `json:"timestamp"`
}

// --- Tool inputs ---

type ResearchInput struct {
	Query          string `json:"query" jsonschema:"Free-text research query"`
	Summarize      *bool  `json:"summarize,omitempty" jsonschema:"Summarize each page with the LLM (default: server setting)"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"Overall deadline in seconds (default: server setting)"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"Search query"`
}

type URLReadInput struct {
	URL string `json:"url" jsonschema:"URL to fetch"`
}

// --- Tool outputs ---

// Research statuses reported to the calling chat client.
const (
	StatusOK                = "ok"
	StatusPartial           = "partial"
	StatusNoResults         = "no_results"
	StatusSearchUnavailable = "search_unavailable"
)

type ResearchOutput struct {
	Query   string         `json:"query"`
	Status  string         `json:"status"`
	Note    string         `json:"note,omitempty"`
	Sources []SourceResult `json:"sources"`
	Prompt  string         `json:"prompt,omitempty"` // ready to inject into the chat context
}

type SearchOutput struct {
	Query      string            `json:"query"`
	Candidates []SearchCandidate `json:"candidates"`
}

type URLReadOutput struct {
	URL     string `json:"url"`
	Content string `json:"content"`
	Chars   int    `json:"chars"`
}
