package engine

import (
	"strings"
	"testing"
)

func TestFormatSources(t *testing.T) {
	results := []SourceResult{
		{URL: "https://a.example", Summary: "Summary A"},
		{URL: "https://b.example"},
		{URL: "https://c.example", Content: "raw   content of c"},
	}
	got := FormatSources(results)
	want := "Source 1: https://a.example\nSummary: Summary A\n\nSource 3: https://c.example\nSummary: raw content of c"
	if got != want {
		t.Errorf("FormatSources() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatSourcesFallbackLength(t *testing.T) {
	results := []SourceResult{{URL: "u", Content: strings.Repeat("w ", 3000)}}
	got := FormatSources(results)
	summary := strings.TrimPrefix(got, "Source 1: u\nSummary: ")
	if n := len(strings.Fields(summary)); n != fallbackWords {
		t.Errorf("fallback summary has %d words, want %d", n, fallbackWords)
	}
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("rust programming", []SourceResult{{URL: "https://rust-lang.org", Summary: "Rust."}})
	if !strings.HasPrefix(got, "Based on the following web search results, please answer the question: 'rust programming'") {
		t.Errorf("unexpected prompt prefix: %q", got)
	}
	if !strings.Contains(got, "Search Results:\nSource 1: https://rust-lang.org\nSummary: Rust.") {
		t.Errorf("prompt missing sources: %q", got)
	}

	if got := BuildPrompt("q", []SourceResult{{URL: "u"}}); got != "" {
		t.Errorf("BuildPrompt with no usable sources = %q, want empty", got)
	}
}

func TestCountUsable(t *testing.T) {
	results := []SourceResult{{URL: "a", Content: "x"}, {URL: "b"}, {URL: "c", Summary: "y"}}
	if got := CountUsable(results); got != 2 {
		t.Errorf("CountUsable() = %d, want 2", got)
	}
}
