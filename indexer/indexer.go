// Package indexer keeps an in-memory filename index of the local filesystem fresh.
// It builds a new trie on every full walk, publishes it atomically, repeats
// the walk on a fixed interval, and applies live watch events in between.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lexandro/filesearch-mcp/exclude"
	"github.com/lexandro/filesearch-mcp/index"
	"github.com/lexandro/filesearch-mcp/watcher"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyStarted is returned by Start when the indexer is already running.
	ErrAlreadyStarted = errors.New("indexer already started")
	// ErrNotStarted is returned by Stop when Start was never called.
	ErrNotStarted = errors.New("indexer not started")
)

// DefaultInterval is the period between two full walks.
const DefaultInterval = 10 * time.Minute

// Options configures an Indexer.
type Options struct {
	Roots        []string        // Walk roots (default: DefaultRoots)
	Interval     time.Duration   // Period between full walks (default: DefaultInterval)
	Workers      int             // Roots walked in parallel (default: 4)
	Exclude      exclude.Options // Exclusion set configuration
	WatchDirs    []string        // High-churn directories watched between walks
	Debounce     time.Duration   // Watch event debounce window
	DisableWatch bool
	Logger       *slog.Logger
}

// BuildStats describes one completed full walk.
type BuildStats struct {
	Entries  int64         // Distinct paths in the new index
	Dirs     int64         // Directories read
	Errors   int64         // Directories that could not be read
	Replayed int           // Live changes replayed into the new index before publishing
	Duration time.Duration
	Finished time.Time
}

// Status is a point-in-time view of the indexer.
type Status struct {
	Entries    int
	Building   bool
	LastBuild  *BuildStats
	Roots      []string
	WatchDirs  []string
	Exclusions []string
	StartedAt  time.Time
}

// change is a live update recorded while a full walk is in progress.
type change struct {
	remove bool
	name   string
	path   string
}

func (c change) apply(t *index.Trie) {
	if c.remove {
		t.Remove(c.name, c.path)
		return
	}
	t.Insert(c.name, c.path)
}

// Indexer owns the exclusion set, the active index and the walk/swap lifecycle.
type Indexer struct {
	roots      []string
	interval   time.Duration
	workers    int
	exclusions *exclude.Set
	active     *index.Active
	watcher    *watcher.Watcher
	logger     *slog.Logger

	buildMu   sync.Mutex // one full walk at a time
	journalMu sync.Mutex // guards journal and live application against the swap
	journal   []change   // non-nil while a walk is in progress

	lastBuild atomic.Pointer[BuildStats]
	ready     chan struct{}
	readyOnce sync.Once

	mu        sync.Mutex
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates an indexer. No filesystem work happens until Start or Reindex.
func New(options Options) *Indexer {
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	roots := options.Roots
	if len(roots) == 0 {
		roots = DefaultRoots()
	}
	absRoots := make([]string, 0, len(roots))
	for _, root := range roots {
		abs, err := filepath.Abs(exclude.ExpandHome(root))
		if err != nil {
			logger.Warn("skipping unresolvable root", "root", root, "error", err)
			continue
		}
		absRoots = append(absRoots, abs)
	}

	ix := &Indexer{
		roots:      absRoots,
		interval:   options.Interval,
		workers:    options.Workers,
		exclusions: exclude.New(options.Exclude),
		active:     index.NewActive(),
		logger:     logger,
		ready:      make(chan struct{}),
	}
	if ix.interval <= 0 {
		ix.interval = DefaultInterval
	}
	if ix.workers <= 0 {
		ix.workers = 4
	}

	if !options.DisableWatch && len(options.WatchDirs) > 0 {
		dirs := make([]string, 0, len(options.WatchDirs))
		for _, dir := range options.WatchDirs {
			if abs, err := filepath.Abs(exclude.ExpandHome(dir)); err == nil {
				dirs = append(dirs, abs)
			}
		}
		ix.watcher = watcher.New(watcher.Options{
			Dirs:     dirs,
			Debounce: options.Debounce,
			Excluder: ix.exclusions,
			Logger:   logger.With("component", "watcher"),
		})
	}
	return ix
}

// ConfigureExclusions removes and then adds exclusion paths. Changes take
// effect on the next full walk.
func (ix *Indexer) ConfigureExclusions(toAdd []string, toRemove []string) {
	ix.exclusions.Remove(toRemove...)
	ix.exclusions.Add(toAdd...)
	ix.logger.Info("exclusions updated", "added", len(toAdd), "removed", len(toRemove))
}

// Start runs the startup walk, the periodic walk and the watch loop in the
// background and returns immediately.
func (ix *Indexer) Start(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.started {
		return ErrAlreadyStarted
	}
	ix.started = true
	ix.startedAt = time.Now()

	ctx, ix.cancel = context.WithCancel(ctx)

	ix.wg.Add(1)
	go func() {
		defer ix.wg.Done()
		ix.runSchedule(ctx)
	}()

	if ix.watcher != nil {
		ix.wg.Add(1)
		go func() {
			defer ix.wg.Done()
			if err := ix.watcher.Run(ctx, liveSink{ix}); err != nil {
				ix.logger.Warn("watcher stopped", "error", err)
			}
		}()
	}
	return nil
}

// Stop cancels the scheduler, the watch loop and any walk in flight, then waits for them.
func (ix *Indexer) Stop() error {
	ix.mu.Lock()
	cancel := ix.cancel
	ix.mu.Unlock()

	if cancel == nil {
		return ErrNotStarted
	}
	cancel()
	ix.wg.Wait()
	return nil
}

// Ready is closed once the startup walk has finished, successfully or not.
func (ix *Indexer) Ready() <-chan struct{} {
	return ix.ready
}

// Search returns the paths matching query in the active index.
// Prefix matches come first by name; when no name has the prefix, names
// containing query are returned. An empty query returns nil.
func (ix *Indexer) Search(query string) []string {
	return ix.active.Search(query)
}

// Glob returns up to maxResults paths in the active index matching a doublestar pattern.
func (ix *Indexer) Glob(pattern string, maxResults int) ([]string, error) {
	return ix.active.Glob(pattern, maxResults)
}

// Status returns a snapshot of the indexer state.
func (ix *Indexer) Status() Status {
	ix.mu.Lock()
	startedAt := ix.startedAt
	ix.mu.Unlock()

	ix.journalMu.Lock()
	building := ix.journal != nil
	ix.journalMu.Unlock()

	var watchDirs []string
	if ix.watcher != nil {
		watchDirs = ix.watcher.Dirs()
	}

	return Status{
		Entries:    ix.active.Len(),
		Building:   building,
		LastBuild:  ix.lastBuild.Load(),
		Roots:      ix.roots,
		WatchDirs:  watchDirs,
		Exclusions: ix.exclusions.Paths(),
		StartedAt:  startedAt,
	}
}

// Reindex re-reads the ignore file, performs one full walk and publishes the
// result. Walks are serialized. A cancelled walk is discarded and the active
// index is left untouched.
func (ix *Indexer) Reindex(ctx context.Context) (BuildStats, error) {
	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	start := time.Now()
	ix.exclusions.Reload()
	ix.beginJournal()

	trie, stats, err := ix.build(ctx)
	if err != nil {
		ix.abandonJournal()
		return stats, fmt.Errorf("full walk: %w", err)
	}

	stats.Replayed = ix.publish(trie)
	stats.Duration = time.Since(start)
	stats.Finished = time.Now()
	ix.lastBuild.Store(&stats)

	ix.logger.Info("indexing complete, index swapped",
		"entries", stats.Entries,
		"dirs", stats.Dirs,
		"errors", stats.Errors,
		"replayed", stats.Replayed,
		"duration", stats.Duration,
	)
	return stats, nil
}

// runSchedule runs the startup walk, then a walk every interval until ctx is done.
func (ix *Indexer) runSchedule(ctx context.Context) {
	if _, err := ix.Reindex(ctx); err != nil {
		ix.logger.Warn("startup indexing failed", "error", err)
	}
	ix.readyOnce.Do(func() { close(ix.ready) })

	ticker := time.NewTicker(ix.interval)
	defer ticker.Stop()

	ix.logger.Info("periodic indexing started", "interval", ix.interval)

	for {
		select {
		case <-ctx.Done():
			ix.logger.Info("periodic indexing stopped")
			return
		case <-ticker.C:
			if _, err := ix.Reindex(ctx); err != nil {
				ix.logger.Warn("periodic indexing failed", "error", err)
			}
		}
	}
}

// build walks every root into a fresh trie, walking up to ix.workers roots in parallel.
func (ix *Indexer) build(ctx context.Context) (*index.Trie, BuildStats, error) {
	trie := index.NewTrie()
	var dirs, failures atomic.Int64

	visit := func(path string, entry fs.DirEntry) bool {
		if entry.IsDir() {
			trie.Insert(entry.Name(), path)
			if ix.exclusions.Matches(path, true) {
				ix.logger.Debug("pruned excluded directory", "path", path)
				return false
			}
			dirs.Add(1)
			return true
		}
		if ix.exclusions.Matches(path, false) {
			return false
		}
		trie.Insert(entry.Name(), path)
		return false
	}
	onError := func(dir string, err error) {
		failures.Add(1)
		ix.logger.Debug("skipped unreadable directory", "path", dir, "error", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(ix.workers)
	for _, root := range ix.roots {
		group.Go(func() error {
			if ix.exclusions.Contains(root) {
				ix.logger.Info("skipping excluded root", "root", root)
				return nil
			}
			dirs.Add(1)
			return walkTree(groupCtx, root, visit, onError)
		})
	}
	err := group.Wait()

	// Overlapping roots visit some paths twice; the trie holds each once.
	stats := BuildStats{
		Entries: int64(trie.Len()),
		Dirs:    dirs.Load(),
		Errors:  failures.Load(),
	}
	if err != nil {
		return nil, stats, err
	}
	return trie, stats, nil
}

// beginJournal starts recording live changes for replay into the index being built.
func (ix *Indexer) beginJournal() {
	ix.journalMu.Lock()
	defer ix.journalMu.Unlock()
	ix.journal = make([]change, 0)
}

func (ix *Indexer) abandonJournal() {
	ix.journalMu.Lock()
	defer ix.journalMu.Unlock()
	ix.journal = nil
}

// publish replays the journal into t and makes it the active index. Live
// changes are blocked for the duration, so none lands on the outgoing index
// after its replay. Returns the number of replayed changes.
func (ix *Indexer) publish(t *index.Trie) int {
	ix.journalMu.Lock()
	defer ix.journalMu.Unlock()

	replayed := len(ix.journal)
	for _, c := range ix.journal {
		c.apply(t)
	}
	ix.journal = nil
	ix.active.Store(t)
	return replayed
}

// applyLive applies a watch-driven change to the active index and records it
// when a walk is in progress.
func (ix *Indexer) applyLive(c change) {
	ix.journalMu.Lock()
	defer ix.journalMu.Unlock()

	c.apply(ix.active.Load())
	if ix.journal != nil {
		ix.journal = append(ix.journal, c)
	}
}

// liveSink adapts the indexer to watcher.Sink.
type liveSink struct {
	ix *Indexer
}

func (s liveSink) Insert(fileName string, fullPath string) {
	s.ix.applyLive(change{name: fileName, path: fullPath})
}

func (s liveSink) Remove(fileName string, fullPath string) {
	s.ix.applyLive(change{remove: true, name: fileName, path: fullPath})
}
