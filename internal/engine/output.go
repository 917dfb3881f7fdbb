package engine

import (
	"fmt"
	"strings"
)

// FormatSources renders results as numbered "Source N" blocks. An entry with
// no summary falls back to the first words of its content; entries with
// neither are skipped but keep their number.
func FormatSources(results []SourceResult) string {
	var sb strings.Builder
	for i, r := range results {
		summary := r.Summary
		if summary == "" {
			summary = fallbackSummary(r.Content)
		}
		if summary == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Source %d: %s\nSummary: %s", i+1, r.URL, summary)
	}
	return sb.String()
}

// BuildPrompt wraps the formatted sources in the instruction injected into
// a chat conversation. It returns "" when no source has usable text.
func BuildPrompt(query string, results []SourceResult) string {
	sources := FormatSources(results)
	if sources == "" {
		return ""
	}
	return fmt.Sprintf(researchPrompt, query, sources)
}

// CountUsable returns how many results carry content or a summary.
func CountUsable(results []SourceResult) int {
	n := 0
	for _, r := range results {
		if r.Content != "" || r.Summary != "" {
			n++
		}
	}
	return n
}
