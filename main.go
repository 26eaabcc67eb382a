package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lexandro/filesearch-mcp/config"
	"github.com/lexandro/filesearch-mcp/register"
	"github.com/lexandro/filesearch-mcp/server"
	"github.com/urfave/cli/v2"
)

// overrides carries the command-line values that take precedence over the config file.
type overrides struct {
	roots      []string
	excludes   []string
	watchDirs  []string
	noWatch    bool
	interval   string
	logLevel   string
	logFile    string
	maxResults int
}

func overridesFromContext(c *cli.Context) overrides {
	return overrides{
		roots:      c.StringSlice("root"),
		excludes:   c.StringSlice("exclude"),
		watchDirs:  c.StringSlice("watch"),
		noWatch:    c.Bool("no-watch"),
		interval:   c.String("interval"),
		logLevel:   c.String("log-level"),
		logFile:    c.String("log-file"),
		maxResults: c.Int("max-results"),
	}
}

// apply merges o into cfg. Roots and watch dirs replace the configured lists;
// exclusions are appended.
func (o overrides) apply(cfg *config.Config) error {
	if len(o.roots) > 0 {
		cfg.Index.Roots = o.roots
	}
	if len(o.excludes) > 0 {
		cfg.Exclude.Paths = append(cfg.Exclude.Paths, o.excludes...)
	}
	if len(o.watchDirs) > 0 {
		cfg.Watch.Dirs = o.watchDirs
	}
	if o.noWatch {
		cfg.Watch.Disabled = true
	}
	if o.interval != "" {
		cfg.Index.Interval = o.interval
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.maxResults > 0 {
		cfg.Search.MaxResults = o.maxResults
	}
	return cfg.Validate()
}

// loadConfigWithOverrides loads the config file and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if err := overridesFromContext(c).apply(cfg); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:    "filesearch-mcp",
		Usage:   "In-memory filename index of the whole machine, served over MCP",
		Version: server.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <user config dir>/filesearch-mcp/config.toml)",
			},
			&cli.StringSliceFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Directory to index (repeatable, default: every filesystem root)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Extra directory to exclude (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "watch",
				Usage: "Directory to watch for live changes (repeatable, replaces the configured list)",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Disable live watching; rely on periodic walks only",
			},
			&cli.StringFlag{
				Name:  "interval",
				Usage: "Period between full walks (e.g. 10m)",
			},
			&cli.IntFlag{
				Name:  "max-results",
				Usage: "Default max search results",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug|info|warn|error",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file path (default: stderr)",
			},
		},
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Index in the background and serve MCP tools on stdio (default)",
				Action: serveCommand,
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Index once, then answer queries from arguments or stdin",
				ArgsUsage: "[query...]",
				Action:    searchCommand,
			},
			{
				Name:      "register",
				Usage:     "Add this server to an MCP client configuration",
				ArgsUsage: "[-- server flags...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Client config to edit: project (.mcp.json), user (~/.claude.json) or desktop (Claude Desktop)",
						Value: string(register.ScopeUser),
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Project directory for the project scope",
						Value: ".",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Server name in the client config (default: binary name without -mcp)",
					},
					&cli.BoolFlag{
						Name:  "remove",
						Usage: "Remove the entry instead of adding it",
					},
				},
				Action: registerCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var writer *os.File
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
			writer = os.Stderr
		} else {
			writer = f
		}
	} else {
		writer = os.Stderr
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}
