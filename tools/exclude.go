package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ExclusionConfigurer adjusts the directories skipped by full walks.
type ExclusionConfigurer interface {
	ConfigureExclusions(toAdd []string, toRemove []string)
}

// ExcludeArgs defines the input parameters for the filesearch_exclude tool.
type ExcludeArgs struct {
	Add     []string `json:"add,omitempty" jsonschema:"Directories to exclude from indexing"`
	Remove  []string `json:"remove,omitempty" jsonschema:"Directories to index again"`
	Reindex bool     `json:"reindex,omitempty" jsonschema:"Run a full re-index right away instead of waiting for the next scheduled one"`
}

// ExcludeHandler holds the dependencies for the exclude tool.
type ExcludeHandler struct {
	Configurer ExclusionConfigurer
	DoReindex  ReindexFunc
	Logger     *slog.Logger
}

// Handle processes a filesearch_exclude request.
func (h *ExcludeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ExcludeArgs) (*mcp.CallToolResult, any, error) {
	if len(args.Add) == 0 && len(args.Remove) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "Error: at least one of add or remove is required"}},
			IsError: true,
		}, nil, nil
	}

	h.Configurer.ConfigureExclusions(args.Add, args.Remove)
	h.Logger.Info("filesearch_exclude", "added", args.Add, "removed", args.Remove)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Exclusions updated: %d added, %d removed.\n", len(args.Add), len(args.Remove)))

	if !args.Reindex {
		builder.WriteString("Changes apply on the next scheduled re-index.")
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
		}, nil, nil
	}

	stats, err := h.DoReindex(ctx)
	if err != nil {
		h.Logger.Error("filesearch_exclude reindex failed", "error", err)
		builder.WriteString(fmt.Sprintf("Reindex error: %v", err))
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
			IsError: true,
		}, nil, nil
	}
	builder.WriteString(formatBuildStats("Reindex complete", stats))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}
