// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package syntax defines the syntax tree of JavaScript programs consumed by
// the translator.
//
// The tree is a closed set of variants per syntax category. Statements,
// expressions, patterns and class members are sealed interfaces: only types
// in this package implement them, so a type switch over a category lists
// every variant a translator has to handle. Node kinds the parser has no
// variant for are carried as *Unsupported, which implements every category.
//
// Trees are built once by a parser and only read afterwards. Nothing in this
// package mutates a tree.
package syntax

// Node is implemented by every syntax tree node.
type Node interface {
	node()
}

// Stmt is a statement or declaration.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// Pattern is a binding target: an identifier or a destructuring pattern.
type Pattern interface {
	Node
	pattern()
}

// ClassMember is an element of a class body.
type ClassMember interface {
	Node
	classMember()
}

// Pos is a 1-indexed source position. The zero value means unknown.
type Pos struct {
	Line   int
	Column int
}

// IsValid reports whether the position carries a line number.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

// Program is the root of a syntax tree.
type Program struct {
	Body []Stmt
}

func (*Program) node() {}

// Unsupported stands in for a node kind that has no variant in this package.
//
// Kind is the parser's name for the node (for example "switch_statement").
// The translator reports it instead of guessing at a translation.
type Unsupported struct {
	Kind string
	Pos  Pos
}

func (*Unsupported) node()        {}
func (*Unsupported) stmt()        {}
func (*Unsupported) expr()        {}
func (*Unsupported) pattern()     {}
func (*Unsupported) classMember() {}
