package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// ErrNoWatchDirs is returned when none of the configured directories could be registered.
var ErrNoWatchDirs = errors.New("no watch directories could be registered")

var errStreamClosed = errors.New("notification stream closed")

// Sink receives the index changes derived from file system events.
type Sink interface {
	Insert(fileName string, fullPath string)
	Remove(fileName string, fullPath string)
}

// Excluder is used by the watcher to drop events under excluded directories.
type Excluder interface {
	Contains(path string) bool
}

// Options configures a Watcher.
type Options struct {
	Dirs       []string      // Directories to watch (not recursive)
	Debounce   time.Duration // Quiet period before a batch is applied (default 100ms)
	MinBackoff time.Duration // First resubscribe delay after a failed session (default 1s)
	MaxBackoff time.Duration // Upper bound for the resubscribe delay (default 5m)
	Excluder   Excluder
	Logger     *slog.Logger
}

// Watcher applies create/remove notifications from a small fixed set of
// directories to a Sink. Each subscription is a session; when a session fails
// the watcher resubscribes after an exponential backoff.
type Watcher struct {
	dirs       []string
	debounce   time.Duration
	minBackoff time.Duration
	maxBackoff time.Duration
	excluder   Excluder
	logger     *slog.Logger
}

// New creates a watcher. It does not touch the file system until Run.
func New(options Options) *Watcher {
	w := &Watcher{
		dirs:       options.Dirs,
		debounce:   options.Debounce,
		minBackoff: options.MinBackoff,
		maxBackoff: options.MaxBackoff,
		excluder:   options.Excluder,
		logger:     options.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = 100 * time.Millisecond
	}
	if w.minBackoff <= 0 {
		w.minBackoff = time.Second
	}
	if w.maxBackoff < w.minBackoff {
		w.maxBackoff = max(5*time.Minute, w.minBackoff)
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Run watches until ctx is cancelled. It returns nil on cancellation and
// ErrNoWatchDirs when no directories are configured.
func (w *Watcher) Run(ctx context.Context, sink Sink) error {
	if len(w.dirs) == 0 {
		return ErrNoWatchDirs
	}

	debouncer := NewDebouncer(w.debounce)
	defer debouncer.Stop()

	ctx, cancel := context.WithCancel(ctx)
	applied := make(chan struct{})
	go func() {
		defer close(applied)
		for {
			select {
			case <-ctx.Done():
				return
			case batch := <-debouncer.Output():
				w.apply(batch, sink)
			}
		}
	}()
	defer func() {
		cancel()
		<-applied
	}()

	delays := newBackoff(w.minBackoff, w.maxBackoff)
	limiter := rate.NewLimiter(rate.Every(w.minBackoff), 1)
	limiter.Allow() // the first session spends the initial token
	for {
		started := time.Now()
		err := w.session(ctx, debouncer)
		if ctx.Err() != nil {
			return nil
		}

		delay := delays.next(time.Since(started))
		limiter.SetLimit(rate.Every(delay))
		w.logger.Warn("watch session ended, resubscribing", "error", err, "backoff", delay)

		if err := limiter.Wait(ctx); err != nil {
			return nil
		}
	}
}

// backoff yields resubscribe delays: min, then doubling up to max.
type backoff struct {
	current time.Duration
	min     time.Duration
	max     time.Duration
}

func newBackoff(minDelay time.Duration, maxDelay time.Duration) *backoff {
	return &backoff{current: minDelay, min: minDelay, max: maxDelay}
}

// next returns the delay before the next session and advances the sequence.
// A session that stayed healthy for at least max starts the sequence over.
func (b *backoff) next(sessionLength time.Duration) time.Duration {
	if sessionLength >= b.max {
		b.current = b.min
	}
	delay := b.current
	b.current = min(b.current*2, b.max)
	return delay
}

// session subscribes once and drains notifications until the stream fails or ctx is done.
func (w *Watcher) session(ctx context.Context, debouncer *Debouncer) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsWatcher.Close()

	registered := 0
	for _, dir := range w.dirs {
		if err := fsWatcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch directory", "path", dir, "error", err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return ErrNoWatchDirs
	}
	w.logger.Info("watching directories", "count", registered)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsWatcher.Events:
			if !ok {
				return errStreamClosed
			}
			w.handleEvent(event, debouncer)

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return errStreamClosed
			}
			return fmt.Errorf("watch stream: %w", err)
		}
	}
}

// handleEvent converts a single fsnotify event into a debounced index change.
func (w *Watcher) handleEvent(event fsnotify.Event, debouncer *Debouncer) {
	path := event.Name

	if w.excluder != nil && w.excluder.Contains(path) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		debouncer.Add(path, OpCreate)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		debouncer.Add(path, OpRemove)
	}
}

func (w *Watcher) apply(batch []DebouncedEvent, sink Sink) {
	for _, event := range batch {
		name := filepath.Base(event.Path)
		switch event.Op {
		case OpCreate:
			sink.Insert(name, event.Path)
		case OpRemove:
			sink.Remove(name, event.Path)
		}
		w.logger.Debug("applied watch event", "op", event.Op, "path", event.Path)
	}
}
