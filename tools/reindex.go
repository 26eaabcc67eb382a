package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReindexArgs defines the input parameters for the filesearch_reindex tool.
type ReindexArgs struct{}

// ReindexFunc runs one full walk and publishes the result.
type ReindexFunc func(ctx context.Context) (indexer.BuildStats, error)

// ReindexHandler holds the dependencies for the reindex tool.
type ReindexHandler struct {
	DoReindex ReindexFunc
	Logger    *slog.Logger
}

// Handle processes a filesearch_reindex request.
func (h *ReindexHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReindexArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("filesearch_reindex started")

	stats, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("filesearch_reindex failed", "error", err)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Reindex error: %v", err)}},
			IsError: true,
		}, nil, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: formatBuildStats("Reindex complete", stats)}},
	}, nil, nil
}

func formatBuildStats(title string, stats indexer.BuildStats) string {
	return fmt.Sprintf("%s: %s entries in %s directories (%d unreadable) in %s",
		title,
		formatCount(stats.Entries),
		formatCount(stats.Dirs),
		stats.Errors,
		stats.Duration.Round(time.Millisecond),
	)
}
