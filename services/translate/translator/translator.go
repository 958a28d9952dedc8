// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package translator rewrites a JavaScript syntax tree into Python source text.
//
// A conversion runs in two strictly ordered phases. The first collects
// static class-field assignments over the whole top-level statement list.
// The second walks the tree and emits indented Python lines, rewriting
// numeric-wrapper chains, array idioms, template strings and loops on the
// way.
//
// Thread Safety:
//
//	A Translator is immutable after New and safe for concurrent use. Each
//	Convert call owns its own line buffer and static-field table.
package translator

import (
	"github.com/AleutianAI/js2py/services/translate/syntax"
)

// DefaultIndent is the indent unit used when no WithIndent option is given.
const DefaultIndent = "  "

// Options configures a Translator.
type Options struct {
	// Indent is the text prepended once per nesting level.
	Indent string

	// WrapperNames are the arbitrary-precision numeric classes whose
	// constructor calls are unwrapped and whose fluent arithmetic is
	// rewritten to infix operators.
	WrapperNames []string
}

// DefaultOptions returns two-space indentation and DefaultWrapperNames.
func DefaultOptions() Options {
	names := make([]string, len(DefaultWrapperNames))
	copy(names, DefaultWrapperNames)
	return Options{
		Indent:       DefaultIndent,
		WrapperNames: names,
	}
}

// Option modifies Options.
type Option func(*Options)

// WithIndent sets the indent unit. An empty unit is ignored.
func WithIndent(unit string) Option {
	return func(o *Options) {
		if unit != "" {
			o.Indent = unit
		}
	}
}

// WithWrapperNames replaces the recognized numeric-wrapper class names.
func WithWrapperNames(names ...string) Option {
	return func(o *Options) {
		o.WrapperNames = append([]string(nil), names...)
	}
}

// Translator converts syntax trees to Python.
type Translator struct {
	opts     Options
	wrappers map[string]bool
}

// New creates a Translator.
//
// Inputs:
//
//	opts - Optional configuration. Defaults come from DefaultOptions.
//
// Outputs:
//
//	*Translator - Ready for concurrent use.
func New(opts ...Option) *Translator {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	wrappers := make(map[string]bool, len(o.WrapperNames))
	for _, name := range o.WrapperNames {
		wrappers[name] = true
	}
	return &Translator{opts: o, wrappers: wrappers}
}

// Options returns a copy of the options the Translator was built with.
func (t *Translator) Options() Options {
	o := t.opts
	o.WrapperNames = append([]string(nil), t.opts.WrapperNames...)
	return o
}

// Convert translates a whole program.
//
// Description:
//
//	Collects static field assignments, then emits every top-level statement
//	in order. The result is deterministic: the same tree and options always
//	produce identical text.
//
// Inputs:
//
//	prog - The parsed program. Not modified.
//
// Outputs:
//
//	string - Python source. Lines are joined with "\n"; function and class
//	         bodies are followed by one blank line.
//	error - *UnsupportedError (wrapping ErrUnsupportedConstruct) when the
//	        program uses a construct without a rule, ErrNilProgram for nil.
//	        No partial output is returned on error.
func (t *Translator) Convert(prog *syntax.Program) (string, error) {
	if prog == nil {
		return "", ErrNilProgram
	}
	c := &conversion{
		tr:  t,
		out: newEmitter(t.opts.Indent),
	}
	statics, err := c.collectStatics(prog.Body)
	if err != nil {
		return "", err
	}
	c.statics = statics

	top := scope{}
	for _, s := range prog.Body {
		if err := c.stmt(s, top); err != nil {
			return "", err
		}
	}
	return c.out.String(), nil
}

// conversion is the state of one Convert call.
type conversion struct {
	tr      *Translator
	out     *emitter
	statics *staticTable
}

// scope is the immutable context of the node being translated. It is
// passed by value; nested bodies receive a widened copy.
type scope struct {
	depth int
	class string

	// updates are the increments of the innermost generalized for loop.
	// A continue inside its body runs them first.
	updates []syntax.Stmt
}

// nested returns the scope of a body one level deeper.
func (s scope) nested() scope {
	s.depth++
	return s
}

// loopBody returns the scope of a loop body whose continue must first run
// updates. Loops without updates pass nil.
func (s scope) loopBody(updates []syntax.Stmt) scope {
	s = s.nested()
	s.updates = updates
	return s
}

// function returns the scope of a function or method body.
func (s scope) function() scope {
	s = s.nested()
	s.updates = nil
	return s
}

// inClass returns the scope of a class body.
func (s scope) inClass(name string) scope {
	s = s.function()
	s.class = name
	return s
}
