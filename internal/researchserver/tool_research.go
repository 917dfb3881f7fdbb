package researchserver

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/anatolykoptev/go_research/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerResearch(server *mcp.Server, d Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "web_research",
		Description: "Search the web for a query, read the top result pages and return per-source content and summaries plus a ready-to-use prompt block for answering the query. Partial results are returned when the deadline is reached.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, handleResearch(d))
}

func handleResearch(d Deps) func(context.Context, *mcp.CallToolRequest, engine.ResearchInput) (*mcp.CallToolResult, engine.ResearchOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ResearchInput) (*mcp.CallToolResult, engine.ResearchOutput, error) {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, engine.ResearchOutput{}, errors.New("query is required")
		}

		summarize := toolutil.BoolOr(input.Summarize, d.Summarize)
		timeout := toolutil.Timeout(input.TimeoutSeconds, d.ResearchTimeout, maxResearchTimeout)

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		results, err := d.Researcher.Research(ctx, query, summarize)
		status, note := toolutil.ResearchStatus(results, err)
		if results == nil {
			results = []engine.SourceResult{}
		}

		slog.Info("web_research done",
			slog.String("query", query),
			slog.String("status", status),
			slog.Int("sources", len(results)),
			slog.Int("usable", engine.CountUsable(results)))

		return nil, engine.ResearchOutput{
			Query:   query,
			Status:  status,
			Note:    note,
			Sources: results,
			Prompt:  engine.BuildPrompt(query, results),
		}, nil
	}
}
