package engine

import (
	"testing"
	"unicode/utf8"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  a \n\t b  ", "a b"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstWords(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"one two three four", 2, "one two"},
		{"one  two", 5, "one two"},
		{"", 3, ""},
	}
	for _, tt := range tests {
		if got := FirstWords(tt.in, tt.n); got != tt.want {
			t.Errorf("FirstWords(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestTruncateRunes(t *testing.T) {
	got := TruncateRunes("привет мир", 6, "")
	if utf8.RuneCountInString(got) > 6 || !utf8.ValidString(got) {
		t.Errorf("TruncateRunes() = %q", got)
	}
	if got := TruncateRunes("short", 10, ""); got != "short" {
		t.Errorf("TruncateRunes(short) = %q", got)
	}
}
