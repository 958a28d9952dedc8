// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package logging provides structured logging for js2py.
//
// The logger is a thin layer over log/slog that writes to up to three
// destinations at once:
//
//   - stderr, text or JSON (default)
//   - a JSON log file per service and day (optional)
//   - a LogExporter (optional, used by tests and external collectors)
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("translated", "path", path, "cached", cached)
//
// # File Logging
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelDebug,
//	    LogDir:  "~/.js2py/logs",
//	    Service: "js2py-serve",
//	})
//	defer logger.Close()
//
// Files are named {service}_{date}.log and always use JSON.
//
// # Passing Loggers Down
//
// Library packages take a *slog.Logger. Use Slog() to hand them one; records
// written through it still reach every destination, the exporter included.
//
//	svc := translate.NewService(cfg, translate.Deps{Logger: logger.Slog()})
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultService names log files and the service attribute when Config
// leaves Service empty.
const DefaultService = "js2py"

// Level is a log severity.
type Level int

const (
	// LevelDebug is for development troubleshooting.
	LevelDebug Level = iota

	// LevelInfo is for normal operational events.
	LevelInfo

	// LevelWarn is for recoverable problems.
	LevelWarn

	// LevelError is for failures.
	LevelError
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses a level name as used by the --log-level flag and the
// config file. Matching is case-insensitive and "warning" is accepted.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func fromSlogLevel(l slog.Level) Level {
	switch {
	case l < slog.LevelInfo:
		return LevelDebug
	case l < slog.LevelWarn:
		return LevelInfo
	case l < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

// Config configures New.
type Config struct {
	// Level is the minimum level written to every destination.
	Level Level

	// LogDir enables file logging when non-empty. A leading ~ is expanded.
	LogDir string

	// Service is attached to every record and names the log file.
	// Default: "js2py".
	Service string

	// JSON switches the console handler from text to JSON.
	JSON bool

	// Quiet disables the console handler.
	Quiet bool

	// Output is the console destination. Default: os.Stderr.
	Output io.Writer

	// Exporter receives every record at or above Level.
	Exporter LogExporter
}

// LogExporter receives log entries for delivery to an external system.
//
// Export is called synchronously from the logging call, so
// implementations that talk to the network should buffer.
type LogExporter interface {
	Export(ctx context.Context, entry LogEntry) error
	Flush(ctx context.Context) error
	Close() error
}

// LogEntry is one exported record.
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Service   string

	// Attrs holds the record's attributes, including those added with
	// With. Grouped keys are joined with dots.
	Attrs map[string]any
}

// Logger writes structured records to the configured destinations.
//
// Thread Safety: Safe for concurrent use.
type Logger struct {
	slog     *slog.Logger
	level    Level
	file     *os.File
	exporter LogExporter

	// closeOnce is shared with child loggers so only one Close runs.
	closeOnce *sync.Once
}

// New creates a Logger.
//
// A log file that cannot be opened is reported on the console handler and
// skipped. Close the logger when file logging or an exporter is configured.
func New(config Config) *Logger {
	if config.Service == "" {
		config.Service = DefaultService
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	var console slog.Handler
	if !config.Quiet {
		if config.JSON {
			console = slog.NewJSONHandler(config.Output, opts)
		} else {
			console = slog.NewTextHandler(config.Output, opts)
		}
	}

	logger := &Logger{
		level:     config.Level,
		exporter:  config.Exporter,
		closeOnce: &sync.Once{},
	}

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, console)
	}

	var fileErr error
	if config.LogDir != "" {
		logger.file, fileErr = openLogFile(config.LogDir, config.Service)
		if fileErr == nil {
			handlers = append(handlers, slog.NewJSONHandler(logger.file, opts))
		}
	}

	if config.Exporter != nil {
		handlers = append(handlers, &exportHandler{
			exporter: config.Exporter,
			level:    opts.Level.Level(),
			service:  config.Service,
		})
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = &multiHandler{handlers: handlers}
	}

	logger.slog = slog.New(handler).With(slog.String("service", config.Service))
	if fileErr != nil {
		logger.slog.Warn("file logging disabled", slog.String("error", fileErr.Error()))
	}
	return logger
}

// Default returns an info-level logger writing text to stderr.
func Default() *Logger {
	return New(Config{Level: LevelInfo})
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(Config{Quiet: true})
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a child logger that adds args to every record. The child
// shares the parent's file and exporter.
//
//	fileLogger := logger.With("path", path)
//	fileLogger.Info("written")
func (l *Logger) With(args ...any) *Logger {
	child := *l
	child.slog = l.slog.With(args...)
	return &child
}

// Level returns the configured minimum level.
func (l *Logger) Level() Level {
	return l.level
}

// Slog returns the underlying *slog.Logger for packages that take one.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close flushes and closes the exporter and the log file. Later calls, and
// calls on child loggers, are no-ops.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		var errs []error
		if l.exporter != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if ferr := l.exporter.Flush(ctx); ferr != nil {
				errs = append(errs, fmt.Errorf("flush exporter: %w", ferr))
			}
			if cerr := l.exporter.Close(); cerr != nil {
				errs = append(errs, fmt.Errorf("close exporter: %w", cerr))
			}
		}
		if l.file != nil {
			if serr := l.file.Sync(); serr != nil {
				errs = append(errs, fmt.Errorf("sync log file: %w", serr))
			}
			if cerr := l.file.Close(); cerr != nil {
				errs = append(errs, fmt.Errorf("close log file: %w", cerr))
			}
		}
		if len(errs) > 0 {
			err = errs[0]
		}
	})
	return err
}

// openLogFile opens {dir}/{service}_{date}.log for appending.
func openLogFile(dir, service string) (*os.File, error) {
	dir = expandPath(dir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.log", service, time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// =============================================================================
// Handlers
// =============================================================================

// multiHandler fans records out to several handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle writes to every enabled handler and returns the first error.
func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: handlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: handlers}
}

// exportHandler turns records into LogEntry values for a LogExporter.
type exportHandler struct {
	exporter LogExporter
	level    slog.Level
	service  string
	attrs    map[string]any
	prefix   string
}

func (h *exportHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *exportHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		attrs[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		flattenAttr(attrs, h.prefix, a)
		return true
	})
	// The service attribute is carried on the entry itself.
	delete(attrs, "service")

	return h.exporter.Export(ctx, LogEntry{
		Timestamp: r.Time,
		Level:     fromSlogLevel(r.Level),
		Message:   r.Message,
		Service:   h.service,
		Attrs:     attrs,
	})
}

func (h *exportHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	child := *h
	child.attrs = make(map[string]any, len(h.attrs)+len(attrs))
	for k, v := range h.attrs {
		child.attrs[k] = v
	}
	for _, a := range attrs {
		flattenAttr(child.attrs, h.prefix, a)
	}
	return &child
}

func (h *exportHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	child := *h
	child.prefix = h.prefix + name + "."
	return &child
}

// flattenAttr stores a into dst, expanding groups into dotted keys.
func flattenAttr(dst map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, ga := range v.Group() {
			flattenAttr(dst, p, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	dst[prefix+a.Key] = v.Any()
}

// =============================================================================
// Exporters
// =============================================================================

// BufferedExporter collects entries in memory.
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Quiet: true, Exporter: exporter})
//	logger.Info("translated", "path", "a.js")
//	entries := exporter.Entries()
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
	closed  bool
}

// NewBufferedExporter creates an empty BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{}
}

// Export appends entry.
func (e *BufferedExporter) Export(_ context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

// Flush is a no-op.
func (e *BufferedExporter) Flush(context.Context) error {
	return nil
}

// Close marks the exporter closed. Entries stay readable.
func (e *BufferedExporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Closed reports whether Close was called.
func (e *BufferedExporter) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Entries returns a copy of the collected entries.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LogEntry, len(e.entries))
	copy(out, e.entries)
	return out
}

var _ LogExporter = (*BufferedExporter)(nil)
