package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/philipparndt/gopath/pkg/pathgeom"
	"github.com/philipparndt/gopath/pkg/toolpath"
)

// Result is the outcome of one rebuild. Err is set when the file could not be
// read or parsed; Geometry is nil in that case.
type Result struct {
	File     string
	Commands int
	Geometry *pathgeom.Geometry
	Err      error
}

// Watcher rebuilds the geometry of a toolpath file whenever it changes
type Watcher struct {
	watcher  *fsnotify.Watcher
	file     string
	opts     pathgeom.Options
	debounce time.Duration
	logger   *slog.Logger
	onResult func(Result)

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a watcher for file. onResult is called after every debounced
// change, from a timer goroutine; calls never overlap.
func New(file string, opts pathgeom.Options, debounce time.Duration, logger *slog.Logger, onResult func(Result)) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Editors often replace the file instead of writing it, so watch the directory.
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absPath, err)
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Watcher{
		watcher:  fw,
		file:     absPath,
		opts:     opts,
		debounce: debounce,
		logger:   logger.With(slog.String("file", absPath)),
		onResult: onResult,
	}, nil
}

// Build reads the file and builds its geometry now
func (w *Watcher) Build() Result {
	path, err := toolpath.ParseFile(w.file)
	if err != nil {
		return Result{File: w.file, Err: err}
	}
	return Result{
		File:     w.file,
		Commands: len(path),
		Geometry: pathgeom.Build(path, w.opts),
	}
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.logger.Debug("toolpath changed", slog.String("op", event.Op.String()))
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", slog.Any("error", err))
		}
	}
}

// schedule restarts the debounce timer
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	defer w.mu.Unlock()

	start := time.Now()
	result := w.Build()
	if result.Err != nil {
		w.logger.Warn("rebuild failed", slog.Any("error", result.Err))
	} else {
		w.logger.Info("rebuilt toolpath geometry",
			slog.Int("commands", result.Commands),
			slog.Int("points", len(result.Geometry.Points)),
			slog.Duration("took", time.Since(start)))
	}

	if w.onResult != nil {
		w.onResult(result)
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}
