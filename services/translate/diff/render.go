// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diff

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	godiff "github.com/sourcegraph/go-diff/diff"
)

// =============================================================================
// Hunk Lines
// =============================================================================

// LineType is the role of a line inside a hunk.
type LineType int

const (
	LineContext LineType = iota
	LineAdded
	LineRemoved
)

// Line is one hunk body line with its old and new line numbers. A number is
// zero when the line does not exist on that side.
type Line struct {
	Type    LineType
	Content string
	OldNum  int
	NewNum  int
}

// parseHunkBody splits a hunk body into numbered lines.
func parseHunkBody(body string, oldStart, newStart int) []Line {
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return nil
	}

	raw := strings.Split(body, "\n")
	lines := make([]Line, 0, len(raw))
	oldNum, newNum := oldStart, newStart
	for _, text := range raw {
		if text == "" {
			lines = append(lines, Line{Type: LineContext, OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
			continue
		}
		content := text[1:]
		switch text[0] {
		case '+':
			lines = append(lines, Line{Type: LineAdded, Content: content, NewNum: newNum})
			newNum++
		case '-':
			lines = append(lines, Line{Type: LineRemoved, Content: content, OldNum: oldNum})
			oldNum++
		case '\\':
			// "\ No newline at end of file"
		default:
			lines = append(lines, Line{Type: LineContext, Content: content, OldNum: oldNum, NewNum: newNum})
			oldNum++
			newNum++
		}
	}
	return lines
}

// =============================================================================
// Rendering
// =============================================================================

var (
	fileHeaderStyle = lipgloss.NewStyle().Bold(true)
	hunkHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	addedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	contextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Renderer writes unified diffs, colored when the destination is a terminal.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a Renderer for w. Color is enabled only when w is a
// terminal and NO_COLOR is unset.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, color: isTerminal(w) && os.Getenv("NO_COLOR") == ""}
}

// NewPlainRenderer creates a Renderer that never colors.
func NewPlainRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes r. Equal results write nothing.
func (rd *Renderer) Render(r *Result) error {
	if r.Equal() {
		return nil
	}
	if !rd.color {
		text, err := r.Unified()
		if err != nil {
			return err
		}
		_, err = io.WriteString(rd.w, text)
		return err
	}

	var b strings.Builder
	b.WriteString(fileHeaderStyle.Render("--- " + r.File.OrigName))
	b.WriteByte('\n')
	b.WriteString(fileHeaderStyle.Render("+++ " + r.File.NewName))
	b.WriteByte('\n')
	for _, h := range r.File.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OrigStartLine, h.OrigLines, h.NewStartLine, h.NewLines)
		b.WriteString(hunkHeaderStyle.Render(header))
		b.WriteByte('\n')
		for _, line := range parseHunkBody(string(h.Body), int(h.OrigStartLine), int(h.NewStartLine)) {
			b.WriteString(renderLine(line))
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(rd.w, b.String())
	return err
}

func renderLine(line Line) string {
	switch line.Type {
	case LineAdded:
		return addedStyle.Render("+" + line.Content)
	case LineRemoved:
		return removedStyle.Render("-" + line.Content)
	default:
		return contextStyle.Render(" " + line.Content)
	}
}

// ParseUnified reads one or more file diffs from unified diff text.
func ParseUnified(text string) ([]*godiff.FileDiff, error) {
	files, err := godiff.NewMultiFileDiffReader(strings.NewReader(text)).ReadAllFiles()
	if err != nil {
		return nil, fmt.Errorf("parse unified diff: %w", err)
	}
	return files, nil
}
