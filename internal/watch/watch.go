// Package watch reruns an action when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce collapses the burst of events an editor produces on save.
const DefaultDebounce = 100 * time.Millisecond

// Options configures File.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// OnReady is called once the watch is registered.
	OnReady func()
}

// File calls fn after each change to path until ctx is cancelled. The parent
// directory is watched rather than the file itself, so editors that save by
// renaming a new file over the old one keep triggering. Errors returned by
// fn are logged and do not stop the watch.
func File(ctx context.Context, path string, opts Options, fn func(context.Context) error) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	logger.Debug("watching file", slog.String("path", target))
	if opts.OnReady != nil {
		opts.OnReady()
	}

	changes := make(chan struct{}, 1)
	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer close(changes)
		return watchLoop(egctx, watcher, target, debounce, changes, logger)
	})

	eg.Go(func() error {
		for range changes {
			logger.Debug("change detected", slog.String("path", target))
			if err := fn(egctx); err != nil {
				logger.Error("rerun failed", slog.String("path", target), slog.String("error", err.Error()))
			}
		}
		return nil
	})

	return eg.Wait()
}

// watchLoop turns file system events for target into debounced signals on
// changes. It returns nil when ctx is cancelled.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string, debounce time.Duration, changes chan<- struct{}, logger *slog.Logger) error {
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			timer.Reset(debounce)

		case <-timer.C:
			// a pending signal already covers this change
			select {
			case changes <- struct{}{}:
			default:
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
