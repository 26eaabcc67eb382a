package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/lexandro/filesearch-mcp/server"
	"github.com/lexandro/filesearch-mcp/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v2"
)

// serveCommand starts the indexer in the background and serves MCP on stdio
// until the client disconnects or the process is signalled.
func serveCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	// Logs never go to stdout; stdout carries the MCP stdio transport.
	logger := setupLogger(cfg.Log.Level, cfg.Log.File)
	startTime := time.Now()

	ix := indexer.New(cfg.IndexerOptions(logger))
	status := ix.Status()
	logger.Info("starting filesearch-mcp",
		"roots", status.Roots,
		"watch", status.WatchDirs,
		"interval", cfg.Index.Interval,
		"exclusions", len(status.Exclusions),
	)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ix.Start(ctx); err != nil {
		return fmt.Errorf("starting indexer: %w", err)
	}
	defer func() {
		if err := ix.Stop(); err != nil {
			logger.Warn("stopping indexer", "error", err)
		}
	}()

	reindex := func(ctx context.Context) (indexer.BuildStats, error) {
		return ix.Reindex(ctx)
	}

	mcpServer := server.Setup(server.Handlers{
		Search:  &tools.SearchHandler{Searcher: ix, MaxResults: cfg.Search.MaxResults, Logger: logger},
		Glob:    &tools.GlobHandler{Searcher: ix, Logger: logger},
		Status:  &tools.StatusHandler{Source: ix, StartTime: startTime, Logger: logger},
		Reindex: &tools.ReindexHandler{DoReindex: reindex, Logger: logger},
		Exclude: &tools.ExcludeHandler{Configurer: ix, DoReindex: reindex, Logger: logger},
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		return err
	}
	logger.Info("MCP server stopped")
	return nil
}
