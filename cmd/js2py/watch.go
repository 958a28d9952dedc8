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
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/js2py/services/translate"
	"github.com/AleutianAI/js2py/services/translate/ast"
	"github.com/AleutianAI/js2py/services/translate/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var outDir string
	var debounce time.Duration
	var skipInitial bool
	var prune bool

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-translate sources as they change",
		Long: `Translates every source under dir, then watches the tree and
re-translates changed files until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}
			return a.watch(cmd.Context(), root, watchOptions{
				outDir:      outDir,
				debounce:    debounce,
				skipInitial: skipInitial,
				prune:       prune,
			})
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory for generated files (default: next to each source)")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before translating a burst of changes")
	cmd.Flags().BoolVar(&skipInitial, "skip-initial", false, "do not translate existing sources at startup")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete the generated .py file when its source is removed")
	return cmd
}

type watchOptions struct {
	outDir      string
	debounce    time.Duration
	skipInitial bool
	prune       bool
}

func (a *app) watch(ctx context.Context, root string, opts watchOptions) error {
	svc, closeSvc := a.newService(nil)
	defer closeSvc()

	logger := a.logger.With("root", root)

	wopts := watch.DefaultOptions()
	wopts.Debounce = opts.debounce
	wopts.Extensions = ast.DefaultRegistry().Extensions()
	wopts.Ignore = append(wopts.Ignore, a.cfg.Output.SkipDirs...)
	wopts.Logger = logger.Slog()

	handler := func(ctx context.Context, changes []watch.Change) {
		var paths []string
		for _, c := range changes {
			if !c.Op.Removed() {
				paths = append(paths, c.Path)
				continue
			}
			if opts.prune {
				a.prune(c.Path, opts.outDir)
			}
		}
		if len(paths) > 0 {
			a.translateAndWrite(ctx, svc, paths, opts.outDir)
		}
	}

	w, err := watch.New(root, handler, &wopts)
	if err != nil {
		return err
	}

	if !opts.skipInitial {
		sources, err := w.Sources()
		if err != nil {
			return err
		}
		a.translateAndWrite(ctx, svc, sources, opts.outDir)
	}

	if err := w.Start(ctx); err != nil {
		return err
	}
	logger.Info("watching for changes")

	<-ctx.Done()
	w.Stop()
	logger.Info("watch stopped")
	return nil
}

// translateAndWrite translates paths and writes each output. Failures are
// logged; watching continues.
func (a *app) translateAndWrite(ctx context.Context, svc *translate.Service, paths []string, outDir string) {
	results, err := svc.TranslateFiles(ctx, paths)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.logger.Error("translation batch failed", "error", err)
		}
		return
	}
	for _, res := range results {
		if res.Err != nil {
			a.logger.Error("translation failed", "source", res.Path, "error", res.Err)
			continue
		}
		dst := translate.OutputPath(res.Path, outDir)
		if err := translate.WriteOutput(res, dst); err != nil {
			a.logger.Error("write failed", "output", dst, "error", err)
			continue
		}
		a.logger.Info("wrote", "source", res.Path, "output", dst, "cached", res.Cached)
	}
}

func (a *app) prune(src, outDir string) {
	dst := translate.OutputPath(src, outDir)
	err := os.Remove(dst)
	switch {
	case err == nil:
		a.logger.Info("removed", "output", dst)
	case !errors.Is(err, fs.ErrNotExist):
		a.logger.Warn("remove failed", "output", dst, "error", err)
	}
}
