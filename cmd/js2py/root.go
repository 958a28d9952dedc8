// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/js2py/cmd/js2py/config"
	"github.com/AleutianAI/js2py/pkg/logging"
	"github.com/AleutianAI/js2py/services/translate"
	"github.com/AleutianAI/js2py/services/translate/cache"
	"github.com/AleutianAI/js2py/services/translate/telemetry"
	"github.com/AleutianAI/js2py/services/translate/translator"
)

// Process exit codes.
const (
	exitOK      = 0
	exitDiff    = 1
	exitFailure = 2
)

// exitError carries a specific exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// app holds state shared by all commands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Global flags.
	configPath string
	logLevel   string
	jsonLogs   bool
	noCache    bool

	cfg    config.Config
	logger *logging.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "js2py",
		Short: "Translate JavaScript sources into Python",
		Long: `js2py translates a practical subset of JavaScript (classes, functions,
loops, BigNumber-style arithmetic, array and object idioms) into Python.
Unsupported constructs are reported with their position instead of being
guessed at.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", config.DefaultFileName, "path to the YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flags.BoolVar(&a.jsonLogs, "json-logs", false, "write logs as JSON")
	flags.BoolVar(&a.noCache, "no-cache", false, "disable the translation cache")

	root.AddCommand(
		newConvertCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newInitCmd(a),
		newVersionCmd(a),
	)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Close()
	}
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintln(stderr, "js2py:", ee.err)
		}
		return ee.code
	}
	fmt.Fprintln(stderr, "js2py:", err)
	return exitFailure
}

// setup loads the config and builds the logger before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.jsonLogs {
		cfg.Logging.JSON = true
	}
	if a.noCache {
		cfg.Cache.Enabled = false
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: "js2py-" + cmd.Name(),
		JSON:    cfg.Logging.JSON,
		Output:  a.stderr,
	})
	a.logger.Debug("config loaded", "path", a.configPath)
	return nil
}

// newService wires a translation service from the config. The returned
// func releases the cache.
func (a *app) newService(metrics *telemetry.Metrics) (*translate.Service, func()) {
	var store *cache.Store
	if a.cfg.Cache.Enabled {
		cc := cache.DefaultConfig(a.cfg.Cache.Path)
		cc.InMemory = a.cfg.Cache.InMemory
		cc.TTL = a.cfg.Cache.TTL
		cc.GCInterval = a.cfg.Cache.GCInterval
		cc.Logger = a.logger.Slog().With("component", "cache")

		s, err := cache.Open(cc)
		if err != nil {
			// Another js2py process may hold the directory lock.
			a.logger.Warn("translation cache disabled", "path", cc.Path, "error", err)
		} else {
			store = s
		}
	}

	svc := translate.NewService(translate.ServiceConfig{
		Workers:  a.cfg.Workers,
		Verify:   a.cfg.Verify,
		SkipDirs: a.cfg.Output.SkipDirs,
	}, translate.Deps{
		Translator: translator.New(a.cfg.TranslatorOptions()...),
		Cache:      store,
		Metrics:    metrics,
		Logger:     a.logger.Slog(),
	})

	return svc, func() {
		if store == nil {
			return
		}
		if err := store.Close(); err != nil {
			a.logger.Warn("closing translation cache", "error", err)
		}
	}
}
