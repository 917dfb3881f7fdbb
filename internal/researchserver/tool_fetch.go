package researchserver

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerFetch(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_fetch",
		Description: "Fetch one URL and return its cleaned, truncated text content.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, handleFetch(d))
}

func handleFetch(d Deps) func(context.Context, *mcp.CallToolRequest, engine.URLReadInput) (*mcp.CallToolResult, engine.URLReadOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input engine.URLReadInput) (*mcp.CallToolResult, engine.URLReadOutput, error) {
		u := strings.TrimSpace(input.URL)
		if u == "" {
			return nil, engine.URLReadOutput{}, errors.New("url is required")
		}
		text, err := d.Fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, engine.URLReadOutput{}, err
		}
		return nil, engine.URLReadOutput{URL: u, Content: text, Chars: utf8.RuneCountInString(text)}, nil
	}
}
