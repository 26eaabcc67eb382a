package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Searcher is the read side of the indexer.
type Searcher interface {
	Search(query string) []string
	Glob(pattern string, maxResults int) ([]string, error)
}

// SearchArgs defines the input parameters for the filesearch_search tool.
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Filename or part of a filename. Prefix matches are returned first; otherwise any name containing the query"`
	MaxResults int    `json:"maxResults,omitempty" jsonschema:"Maximum number of paths to return (default from server config)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Searcher   Searcher
	MaxResults int
	Logger     *slog.Logger
}

// Handle processes a filesearch_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" {
		h.Logger.Warn("filesearch_search called with empty query")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: query parameter is required"}},
			IsError: true,
		}, nil, nil
	}

	maxResults := args.MaxResults
	if maxResults <= 0 {
		maxResults = h.MaxResults
	}

	results := h.Searcher.Search(args.Query)

	h.Logger.Info("filesearch_search",
		"query", args.Query,
		"results", len(results),
		"elapsed", time.Since(start),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: FormatSearchResults(args.Query, results, maxResults)}},
	}, nil, nil
}
