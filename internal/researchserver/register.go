// Package researchserver exposes the web-research pipeline as MCP tools.
package researchserver

import (
	"time"

	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxResearchTimeout bounds caller-supplied deadlines.
const maxResearchTimeout = 5 * time.Minute

// Deps carries the engine components the tools call into.
type Deps struct {
	Researcher      *engine.Researcher
	Searcher        engine.Searcher
	Fetcher         engine.PageFetcher
	Summarize       bool          // default for web_research when the caller omits it
	ResearchTimeout time.Duration // default overall deadline
}

// RegisterTools registers web_research, web_search and web_fetch on server.
func RegisterTools(server *mcp.Server, d Deps) {
	registerResearch(server, d)
	registerSearch(server, d)
	registerFetch(server, d)
}

// ToolCount is the number of tools RegisterTools adds.
const ToolCount = 3
