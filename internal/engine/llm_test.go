package engine

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  just text  ", "just text"},
		{"json fence", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"bare fence", "```\nsummary\n```", "summary"},
		{"single line", "```inline text```", "inline text"},
		{"inner backticks kept", "use `go test` here", "use `go test` here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSummarizeDisabled(t *testing.T) {
	var calls atomic.Int32
	llm := CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		calls.Add(1)
		return "never", nil
	})
	s := NewSummarizer(llm, Config{})

	if got := s.Summarize(context.Background(), "content", "query", false); got != "" {
		t.Errorf("disabled summarize = %q, want empty", got)
	}
	if calls.Load() != 0 {
		t.Error("backend must not be called when disabled")
	}
}

func TestSummarizeSuccess(t *testing.T) {
	var gotSystem, gotPrompt string
	llm := CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		gotSystem, gotPrompt = system, prompt
		return "```\nRust is a systems language.\n```", nil
	})
	s := NewSummarizer(llm, Config{})

	got := s.Summarize(context.Background(), "Rust is a systems programming language.", "what is rust", true)
	if got != "Rust is a systems language." {
		t.Errorf("Summarize() = %q", got)
	}
	if !strings.Contains(gotPrompt, "what is rust") || !strings.Contains(gotPrompt, "systems programming language") {
		t.Errorf("prompt missing query or content: %q", gotPrompt)
	}
	if !strings.Contains(gotSystem, "web content analyzer") {
		t.Errorf("unexpected system prompt: %q", gotSystem)
	}
}

func TestSummarizeFallback(t *testing.T) {
	content := strings.Repeat("word ", 1500)

	tests := []struct {
		name string
		llm  Completer
	}{
		{"no backend", nil},
		{"backend error", CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
			return "", errors.New("502 bad gateway")
		})},
		{"empty reply", CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
			return "   ", nil
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSummarizer(tt.llm, Config{})
			got := s.Summarize(context.Background(), content, "q", true)
			if n := len(strings.Fields(got)); n != fallbackWords {
				t.Errorf("fallback has %d words, want %d", n, fallbackWords)
			}
		})
	}
}

func TestSummarizeTimeout(t *testing.T) {
	llm := CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		select {
		case <-time.After(5 * time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	s := NewSummarizer(llm, Config{SummaryTimeout: 50 * time.Millisecond})

	start := time.Now()
	got := s.Summarize(context.Background(), "short page text", "q", true)
	if got != "short page text" {
		t.Errorf("Summarize() = %q, want raw content fallback", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("summary timeout not enforced")
	}
}

func TestSummarizeErrorKinds(t *testing.T) {
	slow := CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	s := NewSummarizer(slow, Config{SummaryTimeout: 10 * time.Millisecond})
	if _, err := s.complete(context.Background(), "text", "q"); !errors.Is(err, ErrSummarizeTimeout) {
		t.Errorf("expected ErrSummarizeTimeout, got %v", err)
	}

	failing := CompleterFunc(func(ctx context.Context, system, prompt string) (string, error) {
		return "", errors.New("boom")
	})
	s = NewSummarizer(failing, Config{})
	if _, err := s.complete(context.Background(), "text", "q"); !errors.Is(err, ErrSummarizeFailed) {
		t.Errorf("expected ErrSummarizeFailed, got %v", err)
	}
}
