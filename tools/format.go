package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/filesearch-mcp/kind"
)

// FormatSearchResults formats filename search results as human-readable text,
// one path per line with its file kind when recognized.
func FormatSearchResults(query string, results []string, maxResults int) string {
	if len(results) == 0 {
		return "No matching files found."
	}

	var builder strings.Builder
	shown := results
	if maxResults > 0 && len(shown) > maxResults {
		shown = shown[:maxResults]
		builder.WriteString(fmt.Sprintf("Found %d matches for %q (showing first %d):\n\n", len(results), query, maxResults))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d matches for %q:\n\n", len(results), query))
	}

	writePaths(&builder, shown)
	return builder.String()
}

// FormatGlobResults formats glob search results as human-readable text.
func FormatGlobResults(results []string) string {
	if len(results) == 0 {
		return "No files matched."
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Found %d files:\n\n", len(results)))
	writePaths(&builder, results)
	return builder.String()
}

func writePaths(builder *strings.Builder, paths []string) {
	for _, path := range paths {
		if label := kind.Detect(path); label != kind.Unknown {
			builder.WriteString(fmt.Sprintf("  %s  (%s)\n", path, label))
			continue
		}
		builder.WriteString(fmt.Sprintf("  %s\n", path))
	}
}

// formatCount renders large counts with thousands separators.
func formatCount(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		return s
	}
	var builder strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
