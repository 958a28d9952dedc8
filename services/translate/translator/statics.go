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

import "github.com/AleutianAI/js2py/services/translate/syntax"

type staticKey struct {
	class string
	field string
}

type staticEntry struct {
	text    string
	literal bool
}

// staticTable holds the static class-field assignments found at top level.
// It is built once by collectStatics and read-only afterward.
type staticTable struct {
	entries  map[staticKey]staticEntry
	consumed map[*syntax.ExprStmt]bool

	// overwritten holds the right-hand side of non-literal assignments to
	// an inlined key. Only the value is evaluated, for its side effects.
	overwritten map[*syntax.ExprStmt]syntax.Expr
}

// lookup returns the literal text that replaces reads of class.field.
func (t *staticTable) lookup(class, field string) (string, bool) {
	if t == nil {
		return "", false
	}
	e, ok := t.entries[staticKey{class: class, field: field}]
	if !ok || !e.literal {
		return "", false
	}
	return e.text, true
}

// isConsumed reports whether s is a static assignment absorbed by inlining.
func (t *staticTable) isConsumed(s *syntax.ExprStmt) bool {
	return t != nil && t.consumed[s]
}

// overwrittenValue returns the value of s when s assigns a non-literal to a
// key whose final value is inlined.
func (t *staticTable) overwrittenValue(s *syntax.ExprStmt) (syntax.Expr, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.overwritten[s]
	return v, ok
}

// collectStatics scans the top-level statements for Class.field = value.
//
// Only classes declared earlier at top level qualify; any other
// Identifier.field assignment is left for ordinary translation. The last
// assignment to a key wins. When the winning value is a literal, reads are
// inlined and the literal assignments to that key are consumed. Earlier
// non-literal assignments to the key keep only their right-hand side.
func (c *conversion) collectStatics(body []syntax.Stmt) (*staticTable, error) {
	table := &staticTable{
		entries:     make(map[staticKey]staticEntry),
		consumed:    make(map[*syntax.ExprStmt]bool),
		overwritten: make(map[*syntax.ExprStmt]syntax.Expr),
	}
	declared := make(map[string]bool)
	stmts := make(map[staticKey][]*syntax.ExprStmt)

	for _, s := range body {
		switch s := s.(type) {
		case *syntax.ClassDecl:
			declared[s.Name] = true
		case *syntax.ExprStmt:
			key, value, ok := staticAssignment(s, declared)
			if !ok {
				continue
			}
			entry := staticEntry{literal: isLiteral(value)}
			if entry.literal {
				text, err := c.expr(value, scope{})
				if err != nil {
					return nil, err
				}
				entry.text = text
			}
			table.entries[key] = entry
			stmts[key] = append(stmts[key], s)
		}
	}

	for key, entry := range table.entries {
		if !entry.literal {
			continue
		}
		for _, s := range stmts[key] {
			value := s.X.(*syntax.Assign).Value
			if isLiteral(value) {
				table.consumed[s] = true
			} else {
				table.overwritten[s] = value
			}
		}
	}
	return table, nil
}

func staticAssignment(s *syntax.ExprStmt, declared map[string]bool) (staticKey, syntax.Expr, bool) {
	assign, ok := s.X.(*syntax.Assign)
	if !ok || assign.Op != "=" {
		return staticKey{}, nil, false
	}
	member, ok := assign.Target.(*syntax.Member)
	if !ok {
		return staticKey{}, nil, false
	}
	class, ok := member.Object.(*syntax.Ident)
	if !ok || !declared[class.Name] {
		return staticKey{}, nil, false
	}
	return staticKey{class: class.Name, field: member.Property}, assign.Value, true
}

// isLiteral reports whether e can be copied to every read site.
func isLiteral(e syntax.Expr) bool {
	switch e := e.(type) {
	case *syntax.String, *syntax.Number, *syntax.Bool, *syntax.Null:
		return true
	case *syntax.Template:
		return len(e.Exprs) == 0
	case *syntax.Unary:
		_, num := e.X.(*syntax.Number)
		return num && (e.Op == "-" || e.Op == "+")
	default:
		return false
	}
}
