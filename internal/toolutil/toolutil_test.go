package toolutil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anatolykoptev/go_research/internal/engine"
)

func TestBoolOr(t *testing.T) {
	yes, no := true, false
	if !BoolOr(nil, true) || BoolOr(nil, false) {
		t.Error("nil must return the default")
	}
	if !BoolOr(&yes, false) || BoolOr(&no, true) {
		t.Error("set value must win over the default")
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    time.Duration
	}{
		{"default", 0, 30 * time.Second},
		{"negative uses default", -5, 30 * time.Second},
		{"caller value", 10, 10 * time.Second},
		{"clamped", 3600, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Timeout(tt.seconds, 30*time.Second, time.Minute); got != tt.want {
				t.Errorf("Timeout(%d) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestResearchStatus(t *testing.T) {
	usable := []engine.SourceResult{{URL: "a", Content: "x"}, {URL: "b"}}
	empty := []engine.SourceResult{{URL: "a"}}

	tests := []struct {
		name     string
		results  []engine.SourceResult
		err      error
		want     string
		wantNote bool
	}{
		{"ok", usable, nil, engine.StatusOK, false},
		{"nothing usable", empty, nil, engine.StatusNoResults, true},
		{"no candidates", nil, nil, engine.StatusNoResults, true},
		{"search down", nil, fmt.Errorf("%w: status 503", engine.ErrSearchUnavailable), engine.StatusSearchUnavailable, true},
		{"deadline with results", usable, fmt.Errorf("research: %w", context.DeadlineExceeded), engine.StatusPartial, true},
		{"deadline without results", empty, context.DeadlineExceeded, engine.StatusPartial, true},
		{"other error with results", usable, errors.New("odd"), engine.StatusOK, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, note := ResearchStatus(tt.results, tt.err)
			if status != tt.want {
				t.Errorf("status = %q, want %q", status, tt.want)
			}
			if (note != "") != tt.wantNote {
				t.Errorf("note = %q, wantNote %v", note, tt.wantNote)
			}
		})
	}
}
