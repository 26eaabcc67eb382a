package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// --- formatDuration ---

func Test_FormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"Seconds_zero", 0, "0s"},
		{"Seconds_30", 30 * time.Second, "30s"},
		{"Seconds_59", 59 * time.Second, "59s"},
		{"Minutes_1m0s", 60 * time.Second, "1m0s"},
		{"Minutes_5m30s", 5*time.Minute + 30*time.Second, "5m30s"},
		{"Hours_1h30m", 90 * time.Minute, "1h30m"},
		{"Hours_2h0m", 2 * time.Hour, "2h0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatDuration(tt.duration)
			if got != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

// --- StatusHandler ---

type fixedStatus indexer.Status

func (s fixedStatus) Status() indexer.Status { return indexer.Status(s) }

func Test_StatusHandler_Handle(t *testing.T) {
	h := &StatusHandler{
		Source: fixedStatus{
			Entries: 1234,
			LastBuild: &indexer.BuildStats{
				Entries:  1234,
				Dirs:     56,
				Errors:   2,
				Duration: 1500 * time.Millisecond,
				Finished: time.Now().Add(-2 * time.Minute),
			},
			Roots:      []string{"/"},
			WatchDirs:  []string{"/home/user/Downloads"},
			Exclusions: []string{"/proc", "/tmp"},
		},
		StartTime: time.Now(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text

	checks := []string{
		"filesearch-mcp Status",
		"Indexed entries: 1,234",
		"Last full walk: 2m",
		"56 directories (2 unreadable)",
		"Watched directories:\n  /home/user/Downloads",
		"Excluded directories:\n  /proc\n  /tmp",
	}
	for _, check := range checks {
		if !strings.Contains(text, check) {
			t.Errorf("expected output to contain %q, got:\n%s", check, text)
		}
	}
}

func Test_StatusHandler_BeforeFirstWalk(t *testing.T) {
	h := &StatusHandler{
		Source:    fixedStatus{Building: true},
		StartTime: time.Now(),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	result, _, err := h.Handle(context.Background(), nil, StatusArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Full walk: in progress") {
		t.Errorf("expected in-progress line, got:\n%s", text)
	}
	if !strings.Contains(text, "Last full walk: not finished yet") {
		t.Errorf("expected not-finished line, got:\n%s", text)
	}
	if strings.Contains(text, "Roots:") {
		t.Errorf("empty lists should be omitted, got:\n%s", text)
	}
}
