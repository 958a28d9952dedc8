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
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/js2py/services/translate/syntax"
)

const languageJavaScript = "javascript"

// JavaScriptParser builds syntax trees from JavaScript source.
//
// Description:
//
//	Uses the tree-sitter JavaScript grammar and converts the concrete syntax
//	tree into syntax.Program. Comments are dropped. Node kinds without a
//	syntax variant become syntax.Unsupported.
//
// Thread Safety:
//
//	JavaScriptParser is safe for concurrent use. Each Parse call creates its
//	own tree-sitter parser instance.
type JavaScriptParser struct {
	options JavaScriptParserOptions
}

// JavaScriptParserOptions configures JavaScriptParser behavior.
type JavaScriptParserOptions struct {
	// MaxFileSize is the maximum file size in bytes to parse.
	// Default: 10MB
	MaxFileSize int
}

// DefaultJavaScriptParserOptions returns the default options.
func DefaultJavaScriptParserOptions() JavaScriptParserOptions {
	return JavaScriptParserOptions{
		MaxFileSize: 10 * 1024 * 1024, // 10MB
	}
}

// JavaScriptParserOption is a functional option for configuring JavaScriptParser.
type JavaScriptParserOption func(*JavaScriptParserOptions)

// WithJSMaxFileSize sets the maximum file size for parsing.
func WithJSMaxFileSize(size int) JavaScriptParserOption {
	return func(o *JavaScriptParserOptions) {
		o.MaxFileSize = size
	}
}

// NewJavaScriptParser creates a new JavaScriptParser with the given options.
func NewJavaScriptParser(opts ...JavaScriptParserOption) *JavaScriptParser {
	options := DefaultJavaScriptParserOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &JavaScriptParser{options: options}
}

// Language returns the language name for this parser.
func (p *JavaScriptParser) Language() string {
	return languageJavaScript
}

// Extensions returns the file extensions this parser handles.
func (p *JavaScriptParser) Extensions() []string {
	return []string{".js", ".mjs", ".cjs"}
}

// Parse builds a syntax tree from JavaScript source.
//
// Description:
//
//	Validates the content, parses it with tree-sitter, rejects trees that
//	contain ERROR or MISSING nodes, and converts the rest.
//
// Inputs:
//
//	ctx      - Context for cancellation. Checked before and after parsing.
//	content  - Raw source bytes. Must be valid UTF-8.
//	filePath - Path used in error messages.
//
// Outputs:
//
//	*syntax.Program - Never nil on success.
//	error           - ErrFileTooLarge, ErrInvalidContent, a context error, or
//	                  a *ParseError wrapping ErrParseFailed.
//
// Thread Safety:
//
//	This method is safe for concurrent use.
func (p *JavaScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*syntax.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("javascript parse canceled before start: %w", err)
	}

	ctx, span := startParseSpan(ctx, languageJavaScript, filePath, len(content))
	defer span.End()
	start := time.Now()

	prog, unsupported, err := p.parse(ctx, content, filePath)
	recordParseMetrics(ctx, languageJavaScript, time.Since(start), unsupported, err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	setParseSpanResult(span, len(prog.Body), unsupported)
	return prog, nil
}

func (p *JavaScriptParser) parse(ctx context.Context, content []byte, filePath string) (*syntax.Program, int, error) {
	if len(content) > p.options.MaxFileSize {
		return nil, 0, ErrFileTooLarge
	}
	if !utf8.Valid(content) {
		return nil, 0, ErrInvalidContent
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, 0, fmt.Errorf("tree-sitter parse failed: %w", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("javascript parse canceled after tree-sitter: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, 0, firstSyntaxError(root, content, filePath)
	}

	c := &jsConverter{content: content}
	prog := &syntax.Program{Body: c.statements(root)}
	return prog, c.unsupported, nil
}

// firstSyntaxError locates the first ERROR or MISSING node in document order.
func firstSyntaxError(root *sitter.Node, content []byte, filePath string) error {
	node := findErrorNode(root, 0)
	if node == nil {
		return NewParseErrorWithCause(filePath, 0, 0, "syntax error", ErrParseFailed)
	}

	point := node.StartPoint()
	msg := "syntax error"
	if node.IsMissing() {
		msg = fmt.Sprintf("missing %s", node.Type())
	} else if text := node.Content(content); text != "" && len(text) < 50 {
		msg = fmt.Sprintf("unexpected %q", text)
	}
	return NewParseErrorWithCause(filePath, int(point.Row)+1, int(point.Column)+1, msg, ErrParseFailed)
}

// findErrorNode returns the first ERROR or MISSING node, depth-first.
func findErrorNode(node *sitter.Node, depth int) *sitter.Node {
	if node == nil || depth > maxTreeDepth {
		return nil
	}
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findErrorNode(node.Child(i), depth+1); found != nil {
			return found
		}
	}
	return nil
}

// maxTreeDepth bounds recursion on pathological input.
const maxTreeDepth = 1000
