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
	"io"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/js2py/services/translate"
)

func newConvertCmd(a *app) *cobra.Command {
	var outDir string
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "convert [paths...]",
		Short: "Translate files or directories to Python",
		Long: `Translates each .js, .mjs and .cjs file. Directories are walked
recursively. Output goes to name.py next to the source, into --output, or to
stdout with --stdout. A single "-" reads the source from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = a.cfg.Output.Dir
			}
			if len(args) == 1 && args[0] == "-" {
				return a.convertStdin(cmd.Context())
			}
			return a.convert(cmd.Context(), args, outDir, toStdout)
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory for generated files (default: next to each source)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print translations instead of writing files")
	return cmd
}

func (a *app) convert(ctx context.Context, args []string, outDir string, toStdout bool) error {
	svc, closeSvc := a.newService(nil)
	defer closeSvc()

	paths, err := svc.CollectSources(args)
	if err != nil {
		return err
	}
	results, err := svc.TranslateFiles(ctx, paths)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintln(a.stderr, res.Err)
			continue
		}
		if toStdout {
			if len(results) > 1 {
				fmt.Fprintf(a.stdout, "# %s\n", res.Path)
			}
			fmt.Fprintln(a.stdout, res.Output)
			continue
		}
		dst := translate.OutputPath(res.Path, outDir)
		if err := translate.WriteOutput(res, dst); err != nil {
			failed++
			fmt.Fprintln(a.stderr, err)
			continue
		}
		a.logger.Info("wrote", "source", res.Path, "output", dst, "cached", res.Cached)
	}

	if failed > 0 {
		return &exitError{code: exitFailure, err: fmt.Errorf("%d of %d files failed", failed, len(results))}
	}
	return nil
}

func (a *app) convertStdin(ctx context.Context) error {
	src, err := io.ReadAll(a.stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	svc, closeSvc := a.newService(nil)
	defer closeSvc()

	res, err := svc.TranslateSource(ctx, src, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, res.Output)
	return nil
}
