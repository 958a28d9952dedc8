// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package translate runs JavaScript to Python translation for files, batches
// and HTTP requests.
//
// A translation parses the source, converts the syntax tree, optionally
// verifies that the output parses as Python, and stores the result in an
// optional cache keyed by source content and translator options.
package translate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/js2py/services/translate/ast"
	"github.com/AleutianAI/js2py/services/translate/cache"
	"github.com/AleutianAI/js2py/services/translate/diff"
	"github.com/AleutianAI/js2py/services/translate/telemetry"
	"github.com/AleutianAI/js2py/services/translate/translator"
)

// ServiceVersion is the translation service version.
const ServiceVersion = "0.1.0"

const tracerName = "js2py.translate"

// Translation statuses recorded in metrics.
const (
	statusOK          = "ok"
	statusCached      = "cached"
	statusUnsupported = "unsupported"
	statusParseError  = "parse_error"
	statusVerifyError = "verify_error"
	statusError       = "error"
)

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// Workers bounds concurrent file translations in TranslateFiles.
	// Default: runtime.NumCPU()
	Workers int

	// Verify parses generated output with the Python grammar and fails the
	// translation on syntax errors.
	// Default: true
	Verify bool

	// SkipDirs are directory base names CollectSources never enters.
	// Default: .git, node_modules
	SkipDirs []string
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Workers:  runtime.NumCPU(),
		Verify:   true,
		SkipDirs: []string{".git", "node_modules"},
	}
}

// Deps holds the collaborators of a Service. Nil fields get defaults where
// one exists; Cache and Metrics stay disabled when nil.
type Deps struct {
	Registry   *ast.ParserRegistry
	Translator *translator.Translator
	Checker    *ast.PythonChecker
	Cache      *cache.Store
	Metrics    *telemetry.Metrics
	Logger     *slog.Logger
}

// Service translates JavaScript sources.
//
// Thread Safety:
//
//	Service is safe for concurrent use. It holds no per-call state.
type Service struct {
	config      ServiceConfig
	registry    *ast.ParserRegistry
	translator  *translator.Translator
	checker     *ast.PythonChecker
	cache       *cache.Store
	metrics     *telemetry.Metrics
	logger      *slog.Logger
	fingerprint string
}

// NewService creates a Service.
func NewService(cfg ServiceConfig, deps Deps) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if deps.Registry == nil {
		deps.Registry = ast.DefaultRegistry()
	}
	if deps.Translator == nil {
		deps.Translator = translator.New()
	}
	if deps.Checker == nil && cfg.Verify {
		deps.Checker = ast.NewPythonChecker()
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	return &Service{
		config:      cfg,
		registry:    deps.Registry,
		translator:  deps.Translator,
		checker:     deps.Checker,
		cache:       deps.Cache,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		fingerprint: optionsFingerprint(deps.Translator.Options()),
	}
}

// optionsFingerprint identifies translator options in cache keys.
func optionsFingerprint(opts translator.Options) string {
	names := slices.Clone(opts.WrapperNames)
	slices.Sort(names)
	return fmt.Sprintf("v=%s;indent=%q;wrappers=%s", ServiceVersion, opts.Indent, strings.Join(names, ","))
}

// CacheEnabled reports whether a cache is attached.
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// Result is the outcome of translating one source.
type Result struct {
	// Path is the source path, possibly empty for inline sources.
	Path string

	// Output is the generated Python text, without a trailing newline.
	Output string

	// Cached is true when Output came from the cache.
	Cached bool

	// Duration is the wall time spent on this source.
	Duration time.Duration

	// Err is set for failed files in TranslateFiles results.
	Err error
}

// TranslateSource translates one JavaScript source.
//
// Description:
//
//	Returns a cached translation when one exists for the same source and
//	translator options. Otherwise parses, converts, verifies when enabled,
//	and caches the output. Cache failures are logged and never fail the
//	translation.
//
// Inputs:
//
//	ctx  - Context for cancellation.
//	src  - JavaScript source bytes.
//	path - Source path. Selects the parser by extension and names the
//	       source in errors. May be empty.
//
// Outputs:
//
//	*Result - Output and cache status on success.
//	error   - A wrapped *ast.ParseError, *translator.UnsupportedError,
//	          ErrVerifyFailed, ErrNotSource, or a context error.
func (s *Service) TranslateSource(ctx context.Context, src []byte, path string) (*Result, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.TranslateSource",
		trace.WithAttributes(
			attribute.String("path", path),
			attribute.Int("bytes", len(src)),
		),
	)
	defer span.End()
	logger := telemetry.LoggerWithTrace(ctx, s.logger).With(slog.String("path", path))

	res, status, err := s.translate(ctx, src, path, logger)
	elapsed := time.Since(start)
	s.metrics.RecordTranslation(ctx, status, elapsed.Seconds())
	if err != nil {
		telemetry.RecordError(span, err, attribute.String("status", status))
		logger.Debug("translation failed", slog.String("status", status), slog.String("error", err.Error()))
		return nil, err
	}

	res.Duration = elapsed
	span.SetAttributes(attribute.Bool("cached", res.Cached), attribute.Int("output_bytes", len(res.Output)))
	logger.Debug("translated", slog.Bool("cached", res.Cached), slog.Duration("duration", elapsed))
	return res, nil
}

func (s *Service) translate(ctx context.Context, src []byte, path string, logger *slog.Logger) (*Result, string, error) {
	parser, err := s.parserFor(path)
	if err != nil {
		return nil, statusError, err
	}

	key := cache.NewKey(src, s.fingerprint)
	if s.cache != nil {
		entry, found, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup(ctx, "error")
			logger.Warn("cache read failed", slog.String("error", err.Error()))
		case found:
			s.metrics.RecordCacheLookup(ctx, "hit")
			return &Result{Path: path, Output: entry.Output, Cached: true}, statusCached, nil
		default:
			s.metrics.RecordCacheLookup(ctx, "miss")
		}
	}

	prog, err := parser.Parse(ctx, src, path)
	if err != nil {
		return nil, statusParseError, fmt.Errorf("parse %s: %w", displayPath(path), err)
	}

	out, err := s.translator.Convert(prog)
	if err != nil {
		status := statusError
		if translator.IsUnsupported(err) {
			status = statusUnsupported
		}
		return nil, status, fmt.Errorf("translate %s: %w", displayPath(path), err)
	}

	if s.config.Verify && s.checker != nil {
		if err := s.checker.Check(ctx, []byte(out), path); err != nil {
			if ctx.Err() != nil {
				return nil, statusError, ctx.Err()
			}
			return nil, statusVerifyError, fmt.Errorf("%w: %s: %w", ErrVerifyFailed, displayPath(path), err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, cache.Entry{Output: out, Path: path}); err != nil {
			logger.Warn("cache write failed", slog.String("error", err.Error()))
		}
	}
	return &Result{Path: path, Output: out}, statusOK, nil
}

// parserFor picks the parser by extension. Paths without an extension use
// the JavaScript parser.
func (s *Service) parserFor(path string) (ast.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if p, ok := s.registry.GetByExtension(ext); ok {
			return p, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotSource, path)
	}
	p, ok := s.registry.GetByLanguage("javascript")
	if !ok {
		return nil, fmt.Errorf("%w: javascript", ast.ErrUnsupportedLanguage)
	}
	return p, nil
}

// TranslateFile reads and translates one file.
func (s *Service) TranslateFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return s.TranslateSource(ctx, src, path)
}

// TranslateFiles translates files concurrently.
//
// Description:
//
//	Runs at most Workers translations at once. A failing file does not
//	stop the batch; its error is stored in the matching Result.Err.
//
// Outputs:
//
//	[]*Result - One entry per path, in input order.
//	error     - Non-nil only when ctx is canceled.
func (s *Service) TranslateFiles(ctx context.Context, paths []string) ([]*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.TranslateFiles",
		trace.WithAttributes(attribute.Int("files", len(paths))),
	)
	defer span.End()

	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.TranslateFile(gctx, path)
			if err != nil {
				res = &Result{Path: path, Err: err}
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	span.SetAttributes(attribute.Int("failed", failed))
	s.logger.Info("batch translated", slog.Int("files", len(paths)), slog.Int("failed", failed))
	return results, nil
}

// CollectSources expands paths into source files.
//
// Directories are walked recursively, skipping SkipDirs. Files named
// directly must have a registered extension.
//
// Outputs:
//
//	[]string - Source paths, sorted within each directory walk.
//	error    - ErrNotSource, ErrNoSources, or a filesystem error.
func (s *Service) CollectSources(paths []string) ([]string, error) {
	exts := s.registry.Extensions()
	isSource := func(p string) bool {
		return slices.Contains(exts, strings.ToLower(filepath.Ext(p)))
	}

	var out []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			if !isSource(root) {
				return nil, fmt.Errorf("%w: %s", ErrNotSource, root)
			}
			out = append(out, root)
			continue
		}

		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != root && slices.Contains(s.config.SkipDirs, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isSource(p) {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoSources
	}
	return out, nil
}

// OutputPath returns where the Python file for src goes. With an empty
// outDir it sits next to src.
func OutputPath(src, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".py"
	if outDir == "" {
		return filepath.Join(filepath.Dir(src), name)
	}
	return filepath.Join(outDir, name)
}

// WriteOutput writes res.Output with a trailing newline to dst, creating
// parent directories.
func WriteOutput(res *Result, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(dst, []byte(fileContent(res.Output)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return nil
}

// Compare translates src and diffs the result against the Python file at
// dst. A missing dst compares against empty text.
func (s *Service) Compare(ctx context.Context, src, dst string) (*diff.Result, error) {
	res, err := s.TranslateFile(ctx, src)
	if err != nil {
		return nil, err
	}

	existing, err := os.ReadFile(dst)
	oldName := dst
	switch {
	case errors.Is(err, fs.ErrNotExist):
		existing = nil
		oldName = "/dev/null"
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", dst, err)
	}
	return diff.Compare(oldName, dst, string(existing), fileContent(res.Output), diff.DefaultContext), nil
}

// fileContent is the on-disk form of a translation.
func fileContent(output string) string {
	if output == "" {
		return ""
	}
	return output + "\n"
}

func displayPath(path string) string {
	if path == "" {
		return "<source>"
	}
	return path
}
