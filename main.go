// go_research — web research MCP server.
//
// Exposes three MCP tools: web_research, web_search, web_fetch.
// web_research searches DuckDuckGo, reads the top pages in small concurrent
// batches, optionally summarizes each page with an LLM and caches every
// document on disk per conversation.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/anatolykoptev/go_research/internal/engine"
	"github.com/anatolykoptev/go_research/internal/researchserver"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initLogger(env.Str("LOG_LEVEL", "info"))

	deps, err := initEngine()
	if err != nil {
		slog.Error("engine init failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("starting go_research",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_research",
		Version: version,
	}, nil)

	researchserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", researchserver.ToolCount))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_research",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func initEngine() (researchserver.Deps, error) {
	c := engine.Config{
		SearchURL:       env.Str("SEARCH_URL", engine.DefaultSearchURL),
		SearchTimeout:   env.Duration("SEARCH_TIMEOUT", engine.DefaultSearchTimeout),
		FetchTimeout:    env.Duration("FETCH_TIMEOUT", engine.DefaultFetchTimeout),
		ParseTimeout:    env.Duration("PARSE_TIMEOUT", engine.DefaultParseTimeout),
		SummaryTimeout:  env.Duration("SUMMARY_TIMEOUT", engine.DefaultSummaryTimeout),
		MaxContentChars: env.Int("MAX_CONTENT_CHARS", engine.DefaultMaxContentChars),
		MaxResults:      env.Int("MAX_RESULTS", engine.DefaultMaxResults),
		BatchSize:       env.Int("BATCH_SIZE", engine.DefaultBatchSize),
		FetchRPS:        env.Float("FETCH_RPS", 0),
		CacheDir:        env.Str("CACHE_DIR", ""),
		CacheMaxAge:     env.Duration("CACHE_MAX_AGE", engine.DefaultCacheMaxAge),
		ConversationID:  env.Str("CONVERSATION_ID", ""),
		SearchRetry:     engine.DefaultSearchRetry,
		HTTPClient:      engine.NewHTTPClient(),
	}
	if c.ConversationID == "" {
		c.ConversationID = uuid.NewString()
	}

	cache, err := engine.NewDocumentCache(c.CacheDir, c.ConversationID, c.CacheMaxAge)
	if err != nil {
		return researchserver.Deps{}, err
	}
	if n, err := cache.Prune(); err != nil {
		slog.Warn("cache prune failed", slog.Any("error", err))
	} else if n > 0 {
		slog.Info("cache pruned", slog.Int("removed", n))
	}
	slog.Info("document cache ready",
		slog.String("dir", cache.Dir()),
		slog.String("conversation_id", c.ConversationID))

	summarizer := engine.NewSummarizer(newCompleter(), c)
	searcher := engine.NewDDGSearcher(c)
	fetcher := engine.NewFetcher(c)

	summarize, err := strconv.ParseBool(env.Str("SUMMARIZE", "true"))
	if err != nil {
		slog.Warn("invalid SUMMARIZE, using true", slog.Any("error", err))
		summarize = true
	}

	return researchserver.Deps{
		Researcher:      engine.NewResearcher(c, searcher, fetcher, summarizer, cache),
		Searcher:        searcher,
		Fetcher:         fetcher,
		Summarize:       summarize,
		ResearchTimeout: env.Duration("RESEARCH_TIMEOUT", 60*time.Second),
	}, nil
}

// newCompleter returns nil without an API key; summaries then use the
// first-words fallback.
func newCompleter() engine.Completer {
	apiKey := env.Str("LLM_API_KEY", "")
	if apiKey == "" {
		slog.Info("LLM_API_KEY not set, summaries use raw content")
		return nil
	}
	client := llm.NewClient(
		env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
		apiKey,
		env.Str("LLM_MODEL", "gemini-2.5-flash"),
		llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
		llm.WithMaxTokens(env.Int("LLM_MAX_TOKENS", 1024)),
		llm.WithTemperature(env.Float("LLM_TEMPERATURE", 0.1)),
		llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
	)
	return engine.CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return client.Complete(ctx, system, prompt)
	})
}
