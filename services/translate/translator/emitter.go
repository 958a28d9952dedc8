// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translator

import "strings"

// passLine is the explicit no-op emitted as the only line of an empty body.
const passLine = "pass"

// emitter accumulates output lines for one conversion.
//
// It is the only mutable value of a conversion. Callers pass the depth of
// every line explicitly; the emitter never tracks nesting itself.
type emitter struct {
	unit  string
	lines []string
}

func newEmitter(unit string) *emitter {
	return &emitter{unit: unit}
}

// line appends text prefixed with depth indent units. Text produced by
// multi-line expressions (dict literals) already carries the absolute
// indentation of its continuation lines.
func (e *emitter) line(depth int, text string) {
	e.lines = append(e.lines, e.indent(depth)+text)
}

// blank appends the empty line that closes a function, method or class body.
func (e *emitter) blank() {
	e.lines = append(e.lines, "")
}

// mark returns a position to compare against after emitting a body.
func (e *emitter) mark() int {
	return len(e.lines)
}

// passIfEmpty emits the no-op placeholder when nothing was emitted since m.
func (e *emitter) passIfEmpty(m, depth int) {
	if len(e.lines) == m {
		e.line(depth, passLine)
	}
}

func (e *emitter) indent(depth int) string {
	if depth <= 0 {
		return ""
	}
	return strings.Repeat(e.unit, depth)
}

// String joins the lines with newlines. No trailing newline is added.
func (e *emitter) String() string {
	return strings.Join(e.lines, "\n")
}
