package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusSource reports the indexer state.
type StatusSource interface {
	Status() indexer.Status
}

// StatusArgs defines the input parameters for the filesearch_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Source    StatusSource
	StartTime time.Time
	Logger    *slog.Logger
}

// Handle processes a filesearch_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	status := h.Source.Status()
	uptime := time.Since(h.StartTime)

	// Memory stats
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("filesearch_status",
		"entries", status.Entries,
		"building", status.Building,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== filesearch-mcp Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Indexed entries: %s\n", formatCount(int64(status.Entries))))
	if status.Building {
		builder.WriteString("Full walk: in progress\n")
	}
	if status.LastBuild != nil {
		builder.WriteString(fmt.Sprintf("Last full walk: %s ago (%s)\n",
			formatDuration(time.Since(status.LastBuild.Finished)),
			formatBuildStats("done", *status.LastBuild),
		))
	} else {
		builder.WriteString("Last full walk: not finished yet\n")
	}
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	writeList(&builder, "Roots", status.Roots)
	writeList(&builder, "Watched directories", status.WatchDirs)
	writeList(&builder, "Excluded directories", status.Exclusions)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: builder.String()}},
	}, nil, nil
}

func writeList(builder *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	builder.WriteString(fmt.Sprintf("\n%s:\n", title))
	for _, item := range items {
		builder.WriteString(fmt.Sprintf("  %s\n", item))
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
