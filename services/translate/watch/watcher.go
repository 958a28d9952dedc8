// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch reports batches of changed JavaScript sources under a
// directory tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("watcher already started")

// Op is the kind of change observed for a source file.
type Op int

const (
	// OpCreate means the file appeared.
	OpCreate Op = iota

	// OpWrite means the file content changed.
	OpWrite

	// OpRemove means the file was deleted.
	OpRemove

	// OpRename means the file was renamed away.
	OpRename
)

// String returns the lower-case operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Removed reports whether the file is gone after this change.
func (op Op) Removed() bool {
	return op == OpRemove || op == OpRename
}

// Change is one debounced change to a source file.
type Change struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives a batch of changes, at most one per path.
type Handler func(ctx context.Context, changes []Change)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long the watcher waits for quiet before delivering.
	// Default: 200ms
	Debounce time.Duration

	// Extensions limits delivered changes to these file extensions.
	// Default: .js, .mjs, .cjs
	Extensions []string

	// Ignore lists base names or globs to skip, files and directories alike.
	// Default: .git, node_modules, __pycache__, *.swp, *.tmp
	Ignore []string

	// BufferSize is the capacity of the pending change channel.
	// Default: 1000
	BufferSize int

	// Logger receives watcher errors. Nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns the options used when nil is passed to New.
func DefaultOptions() Options {
	return Options{
		Debounce:   200 * time.Millisecond,
		Extensions: []string{".js", ".mjs", ".cjs"},
		Ignore:     []string{".git", "node_modules", "__pycache__", "*.swp", "*.tmp"},
		BufferSize: 1000,
	}
}

// Watcher watches a directory tree and delivers debounced source changes.
//
// Description:
//
//	Every directory under root is added to fsnotify, and directories
//	created later are added as they appear. Events for files outside
//	Extensions are dropped. Events are buffered until Debounce passes with
//	no new event, then deduplicated by path and delivered to the handler.
//
// Thread Safety:
//
//	Start and Stop are safe for concurrent use. The handler runs on a
//	single goroutine, so batches never overlap.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	handler Handler
	opts    Options
	logger  *slog.Logger

	changes  chan Change
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex
	started bool
}

// New creates a Watcher for root. Call Start to begin watching.
//
// Inputs:
//
//	root    - Directory to watch recursively.
//	handler - Receives batches. Must not be nil.
//	opts    - Optional configuration; nil uses DefaultOptions.
//
// Outputs:
//
//	*Watcher - Ready to start.
//	error    - Non-nil if root is not a directory or fsnotify fails.
func New(root string, handler Handler, opts *Options) (*Watcher, error) {
	if handler == nil {
		return nil, errors.New("watch handler is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat watch root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch root %s is not a directory", root)
	}

	o := DefaultOptions()
	if opts != nil {
		if opts.Debounce > 0 {
			o.Debounce = opts.Debounce
		}
		if len(opts.Extensions) > 0 {
			o.Extensions = opts.Extensions
		}
		if opts.Ignore != nil {
			o.Ignore = opts.Ignore
		}
		if opts.BufferSize > 0 {
			o.BufferSize = opts.BufferSize
		}
		o.Logger = opts.Logger
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		root:    filepath.Clean(root),
		watcher: fw,
		handler: handler,
		opts:    o,
		logger:  logger.With(slog.String("root", root)),
		changes: make(chan Change, o.BufferSize),
		done:    make(chan struct{}),
	}, nil
}

// Start adds the directory tree and begins delivering changes.
//
// Both background goroutines exit when Stop is called or ctx is canceled.
// A pending batch is flushed before exit.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	if err := w.addRecursive(w.root); err != nil {
		return fmt.Errorf("watch %s: %w", w.root, err)
	}
	w.started = true

	w.wg.Add(2)
	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	w.logger.Info("watching for changes", slog.Duration("debounce", w.opts.Debounce))
	return nil
}

// Stop stops watching and waits for the goroutines to exit. Safe to call
// more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", slog.String("error", err.Error()))
		}
	})
	w.wg.Wait()
}

// Sources lists the files under root that the watcher would deliver.
func (w *Watcher) Sources() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if w.ignored(path) {
			if d.IsDir() && path != w.root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && w.isSource(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignored(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// ignored matches the base name against each ignore entry.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.opts.Ignore {
		if base == pattern {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) isSource(path string) bool {
	return slices.Contains(w.opts.Extensions, strings.ToLower(filepath.Ext(path)))
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.ignored(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("watch new directory",
					slog.String("path", event.Name),
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}

	if !w.isSource(event.Name) || event.Op == fsnotify.Chmod {
		return
	}

	change := Change{Path: event.Name, Op: convertOp(event.Op), Time: time.Now()}
	select {
	case w.changes <- change:
	default:
		w.logger.Warn("change buffer full, dropping event", slog.String("path", event.Name))
	}
}

func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Write):
		return OpWrite
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpWrite
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	defer w.wg.Done()

	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(batch) == 0 {
			return
		}
		changes := dedupe(batch)
		batch = batch[:0]
		w.logger.Debug("delivering changes", slog.Int("count", len(changes)))
		w.handler(ctx, changes)
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.opts.Debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			flush()
		}
	}
}

// dedupe keeps the latest change per path in first-seen order.
func dedupe(changes []Change) []Change {
	seen := make(map[string]int, len(changes))
	result := make([]Change, 0, len(changes))
	for _, c := range changes {
		if idx, ok := seen[c.Path]; ok {
			result[idx] = c
			continue
		}
		seen[c.Path] = len(result)
		result = append(result, c)
	}
	return result
}
