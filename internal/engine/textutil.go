package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// fallbackWords is how many words of raw content stand in for a missing summary.
const fallbackWords = 1000

// CollapseWhitespace joins all whitespace-separated fields with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8.
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// FirstWords returns the first n whitespace-separated words of s.
func FirstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

// fallbackSummary is the deterministic stand-in used when no model summary exists.
func fallbackSummary(content string) string {
	return FirstWords(content, fallbackWords)
}
