// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ast turns source text into syntax trees using tree-sitter.
package ast

import (
	"context"
	"sort"
	"sync"

	"github.com/AleutianAI/js2py/services/translate/syntax"
)

// Parser defines the contract for source-dialect parsing.
//
// Description:
//
//	Parser implementations build a syntax.Program from raw source bytes.
//	Node kinds without a syntax variant become syntax.Unsupported carrying
//	the grammar's node type and position, so the translator can report them
//	precisely instead of the parser failing.
//
// Inputs:
//
//	ctx      - Context for cancellation. Checked before and after parsing.
//	content  - Raw source bytes. Must be valid UTF-8.
//	filePath - Path used in error messages.
//
// Outputs:
//
//	*syntax.Program - The tree. Never nil on success.
//	error           - *ParseError for syntax errors, ErrInvalidContent or
//	                  ErrFileTooLarge for rejected input.
//
// Example:
//
//	parser := NewJavaScriptParser()
//	content, _ := os.ReadFile("lib/rates.js")
//	prog, err := parser.Parse(ctx, content, "lib/rates.js")
//	if err != nil {
//	    return fmt.Errorf("parse failed: %w", err)
//	}
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use.
type Parser interface {
	Parse(ctx context.Context, content []byte, filePath string) (*syntax.Program, error)

	// Language returns the lowercase language name, e.g. "javascript".
	Language() string

	// Extensions returns the handled file extensions including the dot.
	Extensions() []string
}

// ParserRegistry manages parser instances by language and file extension.
//
// Thread Safety:
//
//	ParserRegistry is fully thread-safe. Registration uses write locks,
//	lookups use read locks.
type ParserRegistry struct {
	mu sync.RWMutex

	byLanguage  map[string]Parser
	byExtension map[string]Parser
}

// NewParserRegistry creates a new empty ParserRegistry.
func NewParserRegistry() *ParserRegistry {
	return &ParserRegistry{
		byLanguage:  make(map[string]Parser),
		byExtension: make(map[string]Parser),
	}
}

// DefaultRegistry returns a registry holding the JavaScript parser.
func DefaultRegistry(opts ...JavaScriptParserOption) *ParserRegistry {
	r := NewParserRegistry()
	r.Register(NewJavaScriptParser(opts...))
	return r
}

// Register adds a parser under its Language() name and all its Extensions().
// Existing registrations are overwritten. A nil parser is ignored.
func (r *ParserRegistry) Register(parser Parser) {
	if parser == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byLanguage[parser.Language()] = parser
	for _, ext := range parser.Extensions() {
		r.byExtension[ext] = parser
	}
}

// GetByLanguage returns the parser for the given language name.
func (r *ParserRegistry) GetByLanguage(language string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byLanguage[language]
	return parser, ok
}

// GetByExtension returns the parser for the given file extension.
func (r *ParserRegistry) GetByExtension(ext string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parser, ok := r.byExtension[ext]
	return parser, ok
}

// Extensions returns the registered file extensions in sorted order.
func (r *ParserRegistry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	extensions := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}
