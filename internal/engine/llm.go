package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Completer is a chat-completion backend: one system prompt and one user
// prompt in, generated text out.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, system, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

// Summarizer reduces page text to the part relevant to a query. It never
// fails: any backend problem yields the first words of the content instead.
type Summarizer struct {
	llm      Completer
	timeout  time.Duration
	maxInput int
}

// NewSummarizer returns a Summarizer backed by llm. A nil llm makes every
// enabled call take the fallback path.
func NewSummarizer(llm Completer, cfg Config) *Summarizer {
	cfg = cfg.withDefaults()
	return &Summarizer{llm: llm, timeout: cfg.SummaryTimeout, maxInput: cfg.MaxContentChars}
}

// Summarize returns "" when disabled. Otherwise it returns the model's answer
// or, on timeout, transport failure or an empty reply, fallbackSummary(content).
func (s *Summarizer) Summarize(ctx context.Context, content, query string, enabled bool) string {
	if !enabled {
		return ""
	}
	summary, err := s.complete(ctx, content, query)
	if err != nil {
		slog.Debug("summarize: using fallback", slog.String("query", query), slog.Any("error", err))
		return fallbackSummary(content)
	}
	return summary
}

func (s *Summarizer) complete(ctx context.Context, content, query string) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: no backend configured", ErrSummarizeFailed)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty content", ErrSummarizeFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf(summarizePrompt, query, TruncateRunes(content, s.maxInput, ""))

	metrics.LLMCalls.Add(1)
	raw, err := s.llm.Complete(ctx, summarizeSystemPrompt, prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %w", ErrSummarizeTimeout, err)
		}
		return "", fmt.Errorf("%w: %w", ErrSummarizeFailed, err)
	}

	out := stripFences(raw)
	if out == "" {
		metrics.LLMErrors.Add(1)
		return "", fmt.Errorf("%w: empty response", ErrSummarizeFailed)
	}
	return out, nil
}

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], " \t") {
		s = s[nl+1:] // language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
