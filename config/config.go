// Package config loads the filesearch-mcp configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lexandro/filesearch-mcp/exclude"
	"github.com/lexandro/filesearch-mcp/indexer"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the default configuration file name inside the user config directory.
const FileName = "config.toml"

// Config is the whole configuration file.
type Config struct {
	Index   Index   `toml:"index"`
	Exclude Exclude `toml:"exclude"`
	Watch   Watch   `toml:"watch"`
	Log     Log     `toml:"log"`
	Search  Search  `toml:"search"`
}

// Index configures the full walks.
type Index struct {
	Roots    []string `toml:"roots"`    // Empty means every filesystem root
	Interval string   `toml:"interval"` // Period between full walks, e.g. "10m"
	Workers  int      `toml:"workers"`  // Roots walked in parallel
}

// Exclude lists what full walks skip.
type Exclude struct {
	Paths      []string `toml:"paths"`
	Patterns   []string `toml:"patterns"`
	IgnoreFile string   `toml:"ignore_file"` // gitignore syntax
	IgnoreBase string   `toml:"ignore_base"` // Defaults to the ignore file's directory
	NoDefaults bool     `toml:"no_defaults"` // Skip the platform default exclusions
}

// Watch configures live watching of high-churn directories.
type Watch struct {
	Dirs     []string `toml:"dirs"`
	Debounce string   `toml:"debounce"`
	Disabled bool     `toml:"disabled"`
}

// Log configures the slog output.
type Log struct {
	Level string `toml:"level"` // debug|info|warn|error
	File  string `toml:"file"`  // Empty means stderr
}

// Search holds query defaults.
type Search struct {
	MaxResults int `toml:"max_results"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Index: Index{
			Interval: indexer.DefaultInterval.String(),
			Workers:  4,
		},
		Watch: Watch{
			Dirs:     []string{"~/Downloads", "~/Desktop"},
			Debounce: "100ms",
		},
		Log: Log{
			Level: "info",
		},
		Search: Search{
			MaxResults: 100,
		},
	}
}

// DefaultPath returns <user config dir>/filesearch-mcp/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "filesearch-mcp", FileName)
}

// Load reads the file at path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	interval, err := time.ParseDuration(c.Index.Interval)
	if err != nil {
		return fmt.Errorf("index.interval: %w", err)
	}
	if interval < time.Second {
		return fmt.Errorf("index.interval must be at least 1s, got %s", interval)
	}
	if c.Index.Workers < 0 {
		return fmt.Errorf("index.workers must not be negative, got %d", c.Index.Workers)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	for _, pattern := range c.Exclude.Patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("exclude.patterns: invalid pattern %q", pattern)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug|info|warn|error, got %q", c.Log.Level)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("search.max_results must not be negative, got %d", c.Search.MaxResults)
	}
	return nil
}

// IndexerOptions converts the configuration into indexer options.
// Call Validate first; unparsable durations fall back to the indexer defaults.
func (c *Config) IndexerOptions(logger *slog.Logger) indexer.Options {
	interval, _ := time.ParseDuration(c.Index.Interval)
	debounce, _ := time.ParseDuration(c.Watch.Debounce)

	return indexer.Options{
		Roots:    c.Index.Roots,
		Interval: interval,
		Workers:  c.Index.Workers,
		Exclude: exclude.Options{
			Paths:      c.Exclude.Paths,
			Patterns:   c.Exclude.Patterns,
			IgnoreFile: c.Exclude.IgnoreFile,
			IgnoreBase: c.Exclude.IgnoreBase,
			Defaults:   !c.Exclude.NoDefaults,
		},
		WatchDirs:    c.Watch.Dirs,
		Debounce:     debounce,
		DisableWatch: c.Watch.Disabled,
		Logger:       logger,
	}
}
