package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GlobArgs defines the input parameters for the filesearch_glob tool.
type GlobArgs struct {
	Pattern    string `json:"pattern" jsonschema:"Glob pattern. Without a slash it matches file names (e.g. *.pdf), otherwise absolute paths (e.g. /home/**/invoices/*.pdf)"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of results to return (default 50)"`
}

// GlobHandler holds the dependencies for the glob tool.
type GlobHandler struct {
	Searcher Searcher
	Logger   *slog.Logger
}

// Handle processes a filesearch_glob request.
func (h *GlobHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args GlobArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Pattern == "" {
		h.Logger.Warn("filesearch_glob called with empty pattern")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: pattern parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	results, err := h.Searcher.Glob(args.Pattern, args.MaxResults)
	if err != nil {
		h.Logger.Error("filesearch_glob failed", "pattern", args.Pattern, "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Search error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	h.Logger.Info("filesearch_glob",
		"pattern", args.Pattern,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatGlobResults(results)}},
	}, nil, nil
}
