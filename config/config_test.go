package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_Load_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.Interval != "10m0s" {
		t.Errorf("expected default interval 10m0s, got %s", cfg.Index.Interval)
	}
	if len(cfg.Watch.Dirs) != 2 {
		t.Errorf("expected 2 default watch dirs, got %v", cfg.Watch.Dirs)
	}
	if cfg.Exclude.NoDefaults {
		t.Error("expected platform default exclusions to be enabled")
	}
}

func Test_Load_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[index]
roots = ["/data"]
interval = "30m"

[exclude]
paths = ["~/scratch"]
patterns = ["node_modules", "*.tmp"]
no_defaults = true

[watch]
dirs = ["/data/inbox"]
debounce = "250ms"

[log]
level = "debug"

[search]
max_results = 25
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Index.Roots[0] != "/data" || cfg.Index.Interval != "30m" {
		t.Errorf("unexpected index section: %+v", cfg.Index)
	}
	if cfg.Index.Workers != 4 {
		t.Errorf("expected untouched workers default 4, got %d", cfg.Index.Workers)
	}
	if !cfg.Exclude.NoDefaults || len(cfg.Exclude.Patterns) != 2 {
		t.Errorf("unexpected exclude section: %+v", cfg.Exclude)
	}
	if cfg.Search.MaxResults != 25 {
		t.Errorf("expected max_results 25, got %d", cfg.Search.MaxResults)
	}

	opts := cfg.IndexerOptions(nil)
	if opts.Interval != 30*time.Minute {
		t.Errorf("expected 30m interval, got %s", opts.Interval)
	}
	if opts.Debounce != 250*time.Millisecond {
		t.Errorf("expected 250ms debounce, got %s", opts.Debounce)
	}
	if opts.Exclude.Defaults {
		t.Error("expected defaults disabled by no_defaults")
	}
	if opts.WatchDirs[0] != "/data/inbox" {
		t.Errorf("unexpected watch dirs: %v", opts.WatchDirs)
	}
}

func Test_Load_InvalidToml(t *testing.T) {
	path := writeConfig(t, "[index\nroots = ")

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func Test_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"bad interval", func(c *Config) { c.Index.Interval = "soon" }, "index.interval"},
		{"interval too short", func(c *Config) { c.Index.Interval = "10ms" }, "at least 1s"},
		{"negative workers", func(c *Config) { c.Index.Workers = -1 }, "index.workers"},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "x" }, "watch.debounce"},
		{"bad pattern", func(c *Config) { c.Exclude.Patterns = []string{"[oops"} }, "exclude.patterns"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"negative max results", func(c *Config) { c.Search.MaxResults = -5 }, "max_results"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func Test_DefaultPath(t *testing.T) {
	path := DefaultPath()
	if filepath.Base(path) != FileName {
		t.Errorf("expected path to end with %s, got %s", FileName, path)
	}
}
