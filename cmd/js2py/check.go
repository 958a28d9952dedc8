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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/js2py/services/translate"
	"github.com/AleutianAI/js2py/services/translate/diff"
)

func newCheckCmd(a *app) *cobra.Command {
	var outDir string
	var plain bool

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report generated Python files that are out of date",
		Long: `Translates each source and compares it with the existing .py file.
Differences are printed as unified diffs and the command exits with status 1.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}
			return a.check(cmd.Context(), args, outDir, plain)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory holding generated files (default: next to each source)")
	cmd.Flags().BoolVar(&plain, "no-color", false, "never colorize diffs")
	return cmd
}

func (a *app) check(ctx context.Context, args []string, outDir string, plain bool) error {
	svc, closeSvc := a.newService(nil)
	defer closeSvc()

	paths, err := svc.CollectSources(args)
	if err != nil {
		return err
	}

	renderer := diff.NewRenderer(a.stdout)
	if plain {
		renderer = diff.NewPlainRenderer(a.stdout)
	}

	failed, stale := 0, 0
	for _, src := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		dst := translate.OutputPath(src, outDir)
		d, err := svc.Compare(ctx, src, dst)
		if err != nil {
			failed++
			fmt.Fprintln(a.stderr, err)
			continue
		}
		if d.Equal() {
			a.logger.Debug("up to date", "source", src, "output", dst)
			continue
		}
		stale++
		if err := renderer.Render(d); err != nil {
			return fmt.Errorf("render diff for %s: %w", dst, err)
		}
	}

	switch {
	case failed > 0:
		return &exitError{code: exitFailure, err: fmt.Errorf("%d of %d files failed", failed, len(paths))}
	case stale > 0:
		return &exitError{code: exitDiff, err: fmt.Errorf("%d of %d files out of date", stale, len(paths))}
	}
	return nil
}
