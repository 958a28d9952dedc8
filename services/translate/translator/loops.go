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

import (
	"strings"

	"github.com/AleutianAI/js2py/services/translate/syntax"
)

type loopKind int

const (
	loopRange loopKind = iota
	loopGeneralized
)

// loopPlan is the classification of one C-style for loop.
type loopPlan struct {
	kind loopKind

	// Range form.
	variable string
	lower    string
	upper    syntax.Expr

	// Generalized form.
	inits   []syntax.Stmt
	test    syntax.Expr
	updates []syntax.Stmt
}

// classifyLoop decides between for-in-range and the generalized while form.
//
// The range form needs exactly one declared variable starting at an integer
// literal, a test "v < upper" and an increment of v by one. Anything else,
// including partial matches, falls back to the generalized form.
func classifyLoop(f *syntax.For) loopPlan {
	if v, lower, ok := rangeInit(f.Init); ok {
		if upper, ok := rangeTest(f.Test, v); ok && isUnitStep(f.Update, v) {
			return loopPlan{kind: loopRange, variable: v, lower: lower, upper: upper}
		}
	}

	plan := loopPlan{kind: loopGeneralized, test: f.Test}
	switch init := f.Init.(type) {
	case nil:
	case *syntax.ExprStmt:
		for _, e := range splitSequence(init.X) {
			plan.inits = append(plan.inits, &syntax.ExprStmt{X: e})
		}
	default:
		plan.inits = append(plan.inits, init)
	}
	if f.Update != nil {
		for _, e := range splitSequence(f.Update) {
			plan.updates = append(plan.updates, &syntax.ExprStmt{X: e})
		}
	}
	return plan
}

func rangeInit(init syntax.Stmt) (string, string, bool) {
	decl, ok := init.(*syntax.VarDecl)
	if !ok || len(decl.Decls) != 1 {
		return "", "", false
	}
	d := decl.Decls[0]
	id, ok := d.Target.(*syntax.Ident)
	if !ok {
		return "", "", false
	}
	lower, ok := intLiteral(d.Init)
	if !ok {
		return "", "", false
	}
	return id.Name, lower, true
}

func intLiteral(e syntax.Expr) (string, bool) {
	switch e := e.(type) {
	case *syntax.Number:
		if isInt(e.Raw) {
			return e.Raw, true
		}
	case *syntax.Unary:
		if n, ok := e.X.(*syntax.Number); ok && e.Op == "-" && isInt(n.Raw) {
			return "-" + n.Raw, true
		}
	}
	return "", false
}

func isInt(raw string) bool {
	return raw != "" && strings.Trim(raw, "0123456789") == ""
}

func rangeTest(test syntax.Expr, v string) (syntax.Expr, bool) {
	b, ok := test.(*syntax.Binary)
	if !ok || b.Op != "<" {
		return nil, false
	}
	id, ok := b.Left.(*syntax.Ident)
	if !ok || id.Name != v {
		return nil, false
	}
	return b.Right, true
}

func isUnitStep(update syntax.Expr, v string) bool {
	switch u := update.(type) {
	case *syntax.Update:
		id, ok := u.X.(*syntax.Ident)
		return ok && u.Op == "++" && id.Name == v
	case *syntax.Assign:
		id, ok := u.Target.(*syntax.Ident)
		n, one := u.Value.(*syntax.Number)
		return ok && one && u.Op == "+=" && id.Name == v && n.Raw == "1"
	default:
		return false
	}
}

func splitSequence(e syntax.Expr) []syntax.Expr {
	if seq, ok := e.(*syntax.Sequence); ok {
		var out []syntax.Expr
		for _, x := range seq.Exprs {
			out = append(out, splitSequence(x)...)
		}
		return out
	}
	return []syntax.Expr{e}
}

func (c *conversion) forLoop(f *syntax.For, sc scope) error {
	plan := classifyLoop(f)
	if plan.kind == loopRange {
		upper, err := c.expr(plan.upper, sc)
		if err != nil {
			return err
		}
		c.out.line(sc.depth, "for "+plan.variable+" in range("+plan.lower+", "+upper+"):")
		return c.body(f.Body, sc.loopBody(nil))
	}

	for _, s := range plan.inits {
		if err := c.stmt(s, sc); err != nil {
			return err
		}
	}
	cond := "True"
	if plan.test != nil {
		text, err := c.expr(plan.test, sc)
		if err != nil {
			return err
		}
		cond = text
	}
	c.out.line(sc.depth, "while "+cond+":")
	inner := sc.loopBody(plan.updates)
	if err := c.body(f.Body, inner); err != nil {
		return err
	}
	if err := c.runUpdates(inner); err != nil {
		return err
	}
	return nil
}

// runUpdates emits the enclosing generalized loop's updates at sc.depth.
func (c *conversion) runUpdates(sc scope) error {
	updates := sc.updates
	sc.updates = nil
	for _, s := range updates {
		if err := c.stmt(s, sc); err != nil {
			return err
		}
	}
	return nil
}

func (c *conversion) forOf(f *syntax.ForOf, sc scope) error {
	left, err := c.pattern(f.Left)
	if err != nil {
		return err
	}
	right, err := c.expr(f.Right, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, "for "+left+" in "+right+":")
	return c.body(f.Body, sc.loopBody(nil))
}

func (c *conversion) while(w *syntax.While, sc scope) error {
	cond, err := c.expr(w.Cond, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, "while "+cond+":")
	return c.body(w.Body, sc.loopBody(nil))
}
