// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ast

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// PythonChecker verifies that generated Python text parses.
//
// Description:
//
//	Parses the text with the tree-sitter Python grammar and reports the
//	first ERROR or MISSING node. It does not check names or types.
//
// Thread Safety:
//
//	PythonChecker is safe for concurrent use. Each Check creates its own
//	tree-sitter parser.
type PythonChecker struct{}

// NewPythonChecker creates a PythonChecker.
func NewPythonChecker() *PythonChecker {
	return &PythonChecker{}
}

// Check parses source and returns nil when it has no syntax errors.
//
// Inputs:
//
//	ctx      - Context for cancellation.
//	source   - Python source text.
//	filePath - Path used in the returned error.
//
// Outputs:
//
//	error - *ParseError wrapping ErrParseFailed with the first error
//	        position, or a context/tree-sitter error.
func (c *PythonChecker) Check(ctx context.Context, source []byte, filePath string) error {
	ctx, span := tracer.Start(ctx, "PythonChecker.Check")
	defer span.End()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	err = firstSyntaxError(root, source, filePath)
	span.RecordError(err)
	return err
}
