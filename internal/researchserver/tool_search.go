package researchserver

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerSearch(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_search",
		Description: "Return the raw search result listing (url and snippet, in engine order) for a query without fetching any page.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, handleSearch(d))
}

func handleSearch(d Deps) func(context.Context, *mcp.CallToolRequest, engine.SearchInput) (*mcp.CallToolResult, engine.SearchOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input engine.SearchInput) (*mcp.CallToolResult, engine.SearchOutput, error) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, engine.SearchOutput{}, errors.New("query is required")
		}
		candidates, err := d.Searcher.Search(ctx, query)
		if err != nil {
			return nil, engine.SearchOutput{}, err
		}
		if candidates == nil {
			candidates = []engine.SearchCandidate{}
		}
		return nil, engine.SearchOutput{Query: query, Candidates: candidates}, nil
	}
}
