package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/urfave/cli/v2"
)

// querier answers filename queries.
type querier interface {
	Search(query string) []string
}

// searchCommand runs one full walk, then answers each argument as a query.
// Without arguments it reads queries from stdin, one per line, until an empty line.
func searchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	cfg.Watch.Disabled = true

	logger := setupLogger(cfg.Log.Level, cfg.Log.File)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ix := indexer.New(cfg.IndexerOptions(logger))
	fmt.Fprintf(os.Stderr, "Indexing %s ...\n", strings.Join(ix.Status().Roots, ", "))
	stats, err := ix.Reindex(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Indexed %d entries in %s\n", stats.Entries, stats.Duration.Round(time.Millisecond))

	if c.Args().Present() {
		for _, query := range c.Args().Slice() {
			printResults(os.Stdout, ix, query, cfg.Search.MaxResults)
		}
		return nil
	}
	return searchLoop(os.Stdin, os.Stdout, ix, cfg.Search.MaxResults)
}

// searchLoop answers queries read from in until an empty line or EOF.
func searchLoop(in io.Reader, out io.Writer, searcher querier, maxResults int) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "search> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			return nil
		}
		printResults(out, searcher, query, maxResults)
	}
}

func printResults(out io.Writer, searcher querier, query string, maxResults int) {
	results := searcher.Search(query)
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching files found.")
		return
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	for _, path := range results {
		fmt.Fprintln(out, path)
	}
}
