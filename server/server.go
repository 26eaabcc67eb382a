package server

import (
	"github.com/lexandro/filesearch-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
const Version = "0.1.0"

// Handlers groups the tool handlers registered on the server.
type Handlers struct {
	Search  *tools.SearchHandler
	Glob    *tools.GlobHandler
	Status  *tools.StatusHandler
	Reindex *tools.ReindexHandler
	Exclude *tools.ExcludeHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "filesearch-mcp",
			Version: Version,
		},
		&mcp.ServerOptions{
			Instructions: `This server keeps an in-memory index of every file and directory name on this machine. Its tools answer from that index instead of walking the disk, so they are much faster than find, locate or recursive Glob over large trees.

Prefer these tools for locating files by name:
- Use filesearch_search to find files when you know part of the name
- Use filesearch_glob when you need a wildcard over names or full paths
- The index is rebuilt every few minutes and high-churn folders (such as Downloads) are watched live
- Use filesearch_reindex after large moves or copies if results look stale`,
		},
	)

	// Register filesearch_search tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filesearch_search",
		Description: `Find files and directories by name. Case-insensitive.

Matching:
  - Names starting with the query are returned first (e.g., "rep" finds report.txt)
  - If no name starts with the query, any name containing it is returned (e.g., "port" finds report.txt)
  - Results are absolute paths, one per line`,
	}, handlers.Search.Handle)

	// Register filesearch_glob tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "filesearch_glob",
		Description: `Find indexed files by glob pattern.

Pattern examples:
  - "*.pdf" - any PDF, matched on the file name
  - "invoice_*.pdf" - PDFs whose name starts with invoice_
  - "/home/**/Downloads/*.zip" - zip files directly inside any Downloads folder under /home`,
	}, handlers.Glob.Handle)

	// Register filesearch_status tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_status",
		Description: "Show index status: entry count, last full walk, watched and excluded directories, memory usage, and uptime.",
	}, handlers.Status.Handle)

	// Register filesearch_reindex tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_reindex",
		Description: "Force a full re-walk of all roots. The current index keeps serving searches until the new one is ready.",
	}, handlers.Reindex.Handle)

	// Register filesearch_exclude tool
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "filesearch_exclude",
		Description: "Add or remove excluded directories. Excluded directories are skipped by full walks, optionally re-walking right away.",
	}, handlers.Exclude.Handle)

	return mcpServer
}
