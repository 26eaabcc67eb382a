package tools

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestGlobHandler(t *testing.T) *GlobHandler {
	t.Helper()
	return &GlobHandler{
		Searcher: newTestTrie(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func Test_GlobHandler_EmptyPattern(t *testing.T) {
	h := newTestGlobHandler(t)

	result, _, err := h.Handle(context.Background(), nil, GlobArgs{Pattern: ""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for empty pattern")
	}
}

func Test_GlobHandler_NamePattern(t *testing.T) {
	h := newTestGlobHandler(t)

	result, _, err := h.Handle(context.Background(), nil, GlobArgs{Pattern: "*.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Found 1 files") {
		t.Errorf("expected 1 file, got:\n%s", text)
	}
	if !strings.Contains(text, "/home/user/notes.md") {
		t.Errorf("expected notes.md, got:\n%s", text)
	}
}

func Test_GlobHandler_PathPattern(t *testing.T) {
	h := newTestGlobHandler(t)

	result, _, err := h.Handle(context.Background(), nil, GlobArgs{Pattern: "/home/user/docs/*"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Report_2023.pdf") {
		t.Errorf("expected Report_2023.pdf, got:\n%s", text)
	}
	if strings.Contains(text, "notes.md") {
		t.Errorf("notes.md is not under docs, got:\n%s", text)
	}
}

func Test_GlobHandler_InvalidPattern(t *testing.T) {
	h := newTestGlobHandler(t)

	result, _, err := h.Handle(context.Background(), nil, GlobArgs{Pattern: "[unclosed"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError=true for a malformed pattern")
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(text, "Search error") {
		t.Errorf("expected search error, got: %s", text)
	}
}

func Test_GlobHandler_NoResults(t *testing.T) {
	h := newTestGlobHandler(t)

	result, _, err := h.Handle(context.Background(), nil, GlobArgs{Pattern: "*.xyz"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := result.Content[0].(*mcp.TextContent).Text
	if text != "No files matched." {
		t.Errorf("expected no-match message, got: %s", text)
	}
}
