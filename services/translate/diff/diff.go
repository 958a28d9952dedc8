// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diff compares an existing Python file with a fresh translation.
//
// Hunks are built as go-diff FileDiff values so they print in standard
// unified format and can be rendered with color on terminals.
package diff

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

// DefaultContext is the number of unchanged lines kept around each change.
const DefaultContext = 3

// maxTableCells bounds the LCS table. Larger middles fall back to a
// delete-then-insert edit script.
const maxTableCells = 4_000_000

type editKind int

const (
	editEqual editKind = iota
	editInsert
	editDelete
)

// edit is one line of the edit script. oldLine and newLine are the number
// of old and new lines preceding it.
type edit struct {
	kind    editKind
	text    string
	oldLine int
	newLine int
}

// Result is the comparison of two texts.
type Result struct {
	// File holds the hunks. File.Hunks is empty when the texts are equal.
	File *godiff.FileDiff

	// Added and Removed count changed lines across all hunks.
	Added   int
	Removed int
}

// Equal reports whether the texts had no differences.
func (r *Result) Equal() bool {
	return len(r.File.Hunks) == 0
}

// Unified prints the result in unified diff format. Equal results print
// as the empty string.
func (r *Result) Unified() (string, error) {
	if r.Equal() {
		return "", nil
	}
	out, err := godiff.PrintFileDiff(r.File)
	if err != nil {
		return "", fmt.Errorf("print unified diff: %w", err)
	}
	return string(out), nil
}

// Compare diffs old against new line by line.
//
// Inputs:
//
//	oldName, newName - Names for the --- and +++ headers.
//	old, new         - Texts to compare.
//	context          - Unchanged lines around each change. Negative uses
//	                   DefaultContext.
//
// Outputs:
//
//	*Result - Never nil.
func Compare(oldName, newName, old, new string, context int) *Result {
	if context < 0 {
		context = DefaultContext
	}
	edits := computeEdits(splitLines(old), splitLines(new))

	r := &Result{File: &godiff.FileDiff{OrigName: oldName, NewName: newName}}
	for _, e := range edits {
		switch e.kind {
		case editInsert:
			r.Added++
		case editDelete:
			r.Removed++
		}
	}
	r.File.Hunks = buildHunks(edits, context)
	return r
}

// splitLines splits on newlines. An empty string has no lines, and a
// trailing newline yields a final empty line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// computeEdits returns a shortest edit script from old to new.
//
// Common prefix and suffix are trimmed first; the remaining middle is
// solved with an LCS table.
func computeEdits(old, new []string) []edit {
	if len(old) == 0 && len(new) == 0 {
		return nil
	}

	prefix := 0
	for prefix < len(old) && prefix < len(new) && old[prefix] == new[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(old)-prefix && suffix < len(new)-prefix &&
		old[len(old)-1-suffix] == new[len(new)-1-suffix] {
		suffix++
	}

	var b editBuilder
	for _, line := range old[:prefix] {
		b.add(editEqual, line)
	}
	b.middle(old[prefix:len(old)-suffix], new[prefix:len(new)-suffix])
	for _, line := range old[len(old)-suffix:] {
		b.add(editEqual, line)
	}
	return b.edits
}

type editBuilder struct {
	edits    []edit
	old, new int
}

func (b *editBuilder) add(kind editKind, text string) {
	b.edits = append(b.edits, edit{kind: kind, text: text, oldLine: b.old, newLine: b.new})
	switch kind {
	case editEqual:
		b.old++
		b.new++
	case editDelete:
		b.old++
	case editInsert:
		b.new++
	}
}

func (b *editBuilder) middle(a, c []string) {
	if len(a)*len(c) > maxTableCells {
		for _, line := range a {
			b.add(editDelete, line)
		}
		for _, line := range c {
			b.add(editInsert, line)
		}
		return
	}

	// lcs[i][j] is the LCS length of a[i:] and c[j:].
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(c)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(c) - 1; j >= 0; j-- {
			if a[i] == c[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else {
				lcs[i][j] = max(lcs[i+1][j], lcs[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(c) {
		switch {
		case a[i] == c[j]:
			b.add(editEqual, a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			b.add(editDelete, a[i])
			i++
		default:
			b.add(editInsert, c[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		b.add(editDelete, a[i])
	}
	for ; j < len(c); j++ {
		b.add(editInsert, c[j])
	}
}

// buildHunks groups changes that are within 2*context lines of each other.
func buildHunks(edits []edit, context int) []*godiff.Hunk {
	var changes []int
	for i, e := range edits {
		if e.kind != editEqual {
			changes = append(changes, i)
		}
	}

	var hunks []*godiff.Hunk
	for k := 0; k < len(changes); {
		first, last := changes[k], changes[k]
		k++
		for k < len(changes) && changes[k]-last <= 2*context+1 {
			last = changes[k]
			k++
		}
		start := max(first-context, 0)
		end := min(last+context, len(edits)-1)
		hunks = append(hunks, makeHunk(edits[start:end+1]))
	}
	return hunks
}

func makeHunk(edits []edit) *godiff.Hunk {
	var body strings.Builder
	var oldLines, newLines int32
	for _, e := range edits {
		switch e.kind {
		case editEqual:
			body.WriteByte(' ')
			oldLines++
			newLines++
		case editDelete:
			body.WriteByte('-')
			oldLines++
		case editInsert:
			body.WriteByte('+')
			newLines++
		}
		body.WriteString(e.text)
		body.WriteByte('\n')
	}

	// A zero-length range starts at the line before it.
	oldStart := int32(edits[0].oldLine)
	if oldLines > 0 {
		oldStart++
	}
	newStart := int32(edits[0].newLine)
	if newLines > 0 {
		newStart++
	}
	return &godiff.Hunk{
		OrigStartLine: oldStart,
		OrigLines:     oldLines,
		NewStartLine:  newStart,
		NewLines:      newLines,
		Body:          []byte(body.String()),
	}
}
