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

// expr translates an expression to a single Python expression. The text may
// span several lines only for dict literals, whose continuation lines carry
// absolute indentation derived from sc.depth.
func (c *conversion) expr(e syntax.Expr, sc scope) (string, error) {
	switch e := e.(type) {
	case *syntax.Ident:
		return e.Name, nil
	case *syntax.Number:
		return e.Raw, nil
	case *syntax.String:
		return e.Raw, nil
	case *syntax.Bool:
		if e.Value {
			return "true", nil
		}
		return "false", nil
	case *syntax.Null:
		return "null", nil
	case *syntax.Template:
		return c.template(e, sc)
	case *syntax.Array:
		return c.array(e, sc)
	case *syntax.Object:
		return c.object(e, sc)
	case *syntax.Binary:
		return c.binary(e, sc)
	case *syntax.Unary:
		return c.unary(e, sc)
	case *syntax.Cond:
		return c.cond(e, sc)
	case *syntax.Call:
		return c.call(e, sc)
	case *syntax.New:
		return c.newExpr(e, sc)
	case *syntax.Member:
		return c.member(e, sc)
	case *syntax.Index:
		return c.index(e, sc)
	case *syntax.Paren:
		inner, err := c.expr(e.X, sc)
		if err != nil {
			return "", err
		}
		return "(" + inner + ")", nil
	case *syntax.This:
		if sc.class != "" {
			return selfName, nil
		}
		return "this", nil
	case *syntax.Super:
		return "super()", nil
	case *syntax.Func:
		return c.lambda(e, sc)
	case *syntax.Spread:
		inner, err := c.expr(e.X, sc)
		if err != nil {
			return "", err
		}
		return "*" + inner, nil
	case *syntax.Update:
		return "", unsupported(e, "update outside statement")
	case *syntax.Assign:
		return "", unsupported(e, "assignment inside expression")
	case *syntax.Sequence:
		return "", unsupported(e, "sequence outside loop header")
	default:
		return "", unsupported(e, "")
	}
}

func (c *conversion) exprList(list []syntax.Expr, sc scope) ([]string, error) {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if e == nil {
			return nil, &UnsupportedError{Kind: "array", Detail: "hole"}
		}
		text, err := c.expr(e, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

func (c *conversion) args(list []syntax.Expr, sc scope) (string, error) {
	parts, err := c.exprList(list, sc)
	if err != nil {
		return "", err
	}
	return "(" + strings.Join(parts, ", ") + ")", nil
}

func (c *conversion) array(a *syntax.Array, sc scope) (string, error) {
	parts, err := c.exprList(a.Elems, sc)
	if err != nil {
		return "", err
	}
	return "[" + strings.Join(parts, ", ") + "]", nil
}

// object renders a dict literal. Non-empty objects put one entry per line at
// sc.depth+1 and the closing brace at sc.depth.
func (c *conversion) object(o *syntax.Object, sc scope) (string, error) {
	if len(o.Props) == 0 {
		return "{}", nil
	}
	inner := sc.nested()
	pad := c.out.indent(inner.depth)
	entries := make([]string, 0, len(o.Props))
	for _, p := range o.Props {
		entry, err := c.property(p, inner)
		if err != nil {
			return "", err
		}
		entries = append(entries, pad+entry)
	}
	return "{\n" + strings.Join(entries, ",\n") + "\n" + c.out.indent(sc.depth) + "}", nil
}

func (c *conversion) property(p *syntax.Property, sc scope) (string, error) {
	if p.Spread {
		value, err := c.expr(p.Value, sc)
		if err != nil {
			return "", err
		}
		return "**" + value, nil
	}

	var key string
	switch k := p.Key.(type) {
	case *syntax.Ident:
		if p.Computed {
			key = k.Name
		} else {
			key = "'" + k.Name + "'"
		}
	case *syntax.String:
		key = k.Raw
	case *syntax.Number:
		key = k.Raw
	default:
		if !p.Computed {
			return "", unsupported(p.Key, "object key")
		}
		text, err := c.expr(p.Key, sc)
		if err != nil {
			return "", err
		}
		key = text
	}

	if p.Shorthand {
		ident, ok := p.Key.(*syntax.Ident)
		if !ok {
			return "", unsupported(p.Key, "shorthand property")
		}
		return key + ": " + ident.Name, nil
	}
	value, err := c.expr(p.Value, sc)
	if err != nil {
		return "", err
	}
	return key + ": " + value, nil
}

func (c *conversion) binary(b *syntax.Binary, sc scope) (string, error) {
	left, err := c.operand(b.Left, b.Op, sc)
	if err != nil {
		return "", err
	}
	right, err := c.operand(b.Right, b.Op, sc)
	if err != nil {
		return "", err
	}
	if b.Op == "instanceof" {
		return "isinstance(" + left + ", " + right + ")", nil
	}
	op, ok := binaryOps[b.Op]
	if !ok {
		return "", unsupported(b, b.Op)
	}
	return left + " " + op + " " + right, nil
}

// operand renders one side of a binary expression. Negations bind looser in
// Python than comparisons and arithmetic, and rewritten wrapper chains are
// infix expressions themselves, so both are parenthesized.
func (c *conversion) operand(e syntax.Expr, op string, sc scope) (string, error) {
	text, err := c.expr(e, sc)
	if err != nil {
		return "", err
	}
	if u, ok := e.(*syntax.Unary); ok && u.Op == "!" && op != "&&" && op != "||" {
		return "(" + text + ")", nil
	}
	if c.isChain(e) {
		return "(" + text + ")", nil
	}
	return text, nil
}

func (c *conversion) unary(u *syntax.Unary, sc scope) (string, error) {
	op, ok := unaryOps[u.Op]
	if !ok {
		return "", unsupported(u, u.Op)
	}
	operand, err := c.receiver(u.X, sc)
	if err != nil {
		return "", err
	}
	return op + operand, nil
}

func (c *conversion) cond(e *syntax.Cond, sc scope) (string, error) {
	test, err := c.expr(e.Test, sc)
	if err != nil {
		return "", err
	}
	then, err := c.expr(e.Then, sc)
	if err != nil {
		return "", err
	}
	els, err := c.expr(e.Else, sc)
	if err != nil {
		return "", err
	}
	return then + " if " + test + " else " + els, nil
}

// isChain reports whether e is a fluent wrapper call rendered as an infix
// operation, e.g. a.plus(b).
func (c *conversion) isChain(e syntax.Expr) bool {
	call, ok := e.(*syntax.Call)
	if !ok || len(call.Args) != 1 {
		return false
	}
	m, ok := call.Callee.(*syntax.Member)
	if !ok {
		return false
	}
	_, ok = chainOps[m.Property]
	return ok
}

func (c *conversion) call(call *syntax.Call, sc scope) (string, error) {
	if _, ok := call.Callee.(*syntax.Super); ok {
		args, err := c.args(call.Args, sc)
		if err != nil {
			return "", err
		}
		return "super()." + initName + args, nil
	}

	if m, ok := call.Callee.(*syntax.Member); ok {
		if recv, ok := m.Object.(*syntax.Ident); ok && c.tr.wrappers[recv.Name] {
			if fn, ok := wrapperStatics[m.Property]; ok {
				args, err := c.args(call.Args, sc)
				if err != nil {
					return "", err
				}
				return fn + args, nil
			}
		}
		if c.isChain(call) {
			return c.chain(m, call.Args[0], sc)
		}
		if renamed, ok := methodRenames[m.Property]; ok {
			recv, err := c.receiver(m.Object, sc)
			if err != nil {
				return "", err
			}
			args, err := c.args(call.Args, sc)
			if err != nil {
				return "", err
			}
			return recv + "." + renamed + args, nil
		}
	}

	callee, err := c.expr(call.Callee, sc)
	if err != nil {
		return "", err
	}
	args, err := c.args(call.Args, sc)
	if err != nil {
		return "", err
	}
	return callee + args, nil
}

// chain renders recv.op(arg) as "recv op arg". Operands that are chains
// themselves are parenthesized, so nesting in the source is kept.
func (c *conversion) chain(m *syntax.Member, arg syntax.Expr, sc scope) (string, error) {
	left, err := c.expr(m.Object, sc)
	if err != nil {
		return "", err
	}
	if c.isChain(m.Object) {
		left = "(" + left + ")"
	}
	right, err := c.expr(arg, sc)
	if err != nil {
		return "", err
	}
	if c.isChain(arg) {
		right = "(" + right + ")"
	}
	return left + " " + chainOps[m.Property] + " " + right, nil
}

func (c *conversion) newExpr(n *syntax.New, sc scope) (string, error) {
	if id, ok := n.Callee.(*syntax.Ident); ok && c.tr.wrappers[id.Name] && len(n.Args) == 1 {
		return c.expr(n.Args[0], sc)
	}
	callee, err := c.expr(n.Callee, sc)
	if err != nil {
		return "", err
	}
	args, err := c.args(n.Args, sc)
	if err != nil {
		return "", err
	}
	return callee + args, nil
}

// receiver renders the object of a member access, parenthesizing infix
// chains so the access applies to the whole result.
func (c *conversion) receiver(e syntax.Expr, sc scope) (string, error) {
	text, err := c.expr(e, sc)
	if err != nil {
		return "", err
	}
	if c.isChain(e) {
		return "(" + text + ")", nil
	}
	return text, nil
}

func (c *conversion) member(m *syntax.Member, sc scope) (string, error) {
	if _, ok := m.Object.(*syntax.Super); ok {
		return "super()." + m.Property, nil
	}
	if id, ok := m.Object.(*syntax.Ident); ok {
		if text, ok := c.statics.lookup(id.Name, m.Property); ok {
			return text, nil
		}
	}
	recv, err := c.receiver(m.Object, sc)
	if err != nil {
		return "", err
	}
	if m.Property == lengthProperty {
		return "len(" + recv + ")", nil
	}
	return recv + "." + m.Property, nil
}

func (c *conversion) index(ix *syntax.Index, sc scope) (string, error) {
	recv, err := c.receiver(ix.Object, sc)
	if err != nil {
		return "", err
	}
	if n, ok := c.fromEnd(ix, sc); ok {
		return recv + "[-" + n + "]", nil
	}
	idx, err := c.expr(ix.Index, sc)
	if err != nil {
		return "", err
	}
	return recv + "[" + idx + "]", nil
}

// fromEnd matches arr[arr.length - n] for a positive integer literal n.
func (c *conversion) fromEnd(ix *syntax.Index, sc scope) (string, bool) {
	b, ok := ix.Index.(*syntax.Binary)
	if !ok || b.Op != "-" {
		return "", false
	}
	n, ok := b.Right.(*syntax.Number)
	if !ok || !isPositiveInt(n.Raw) {
		return "", false
	}
	length, ok := b.Left.(*syntax.Member)
	if !ok || length.Property != lengthProperty {
		return "", false
	}
	if !sameExpr(length.Object, ix.Object) {
		return "", false
	}
	return n.Raw, true
}

func isPositiveInt(raw string) bool {
	if raw == "" || raw[0] == '0' {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// sameExpr compares identifier and member-access paths such as a, this.a
// and a.b.c.
func sameExpr(a, b syntax.Expr) bool {
	switch a := a.(type) {
	case *syntax.Ident:
		bi, ok := b.(*syntax.Ident)
		return ok && a.Name == bi.Name
	case *syntax.This:
		_, ok := b.(*syntax.This)
		return ok
	case *syntax.Member:
		bm, ok := b.(*syntax.Member)
		return ok && a.Property == bm.Property && sameExpr(a.Object, bm.Object)
	default:
		return false
	}
}

// template renders a template string as a single-quoted literal, using
// %-formatting when it interpolates.
func (c *conversion) template(t *syntax.Template, sc scope) (string, error) {
	if len(t.Exprs) == 0 {
		text := ""
		if len(t.Quasis) > 0 {
			text = t.Quasis[0]
		}
		return "'" + quoteSegment(text, false) + "'", nil
	}
	if len(t.Quasis) != len(t.Exprs)+1 {
		return "", unsupported(t, "malformed template")
	}

	var b strings.Builder
	b.WriteByte('\'')
	for i, q := range t.Quasis {
		b.WriteString(quoteSegment(q, true))
		if i < len(t.Exprs) {
			b.WriteString("%f")
		}
	}
	b.WriteByte('\'')

	values, err := c.exprList(t.Exprs, sc)
	if err != nil {
		return "", err
	}
	return b.String() + " % (" + strings.Join(values, ", ") + ")", nil
}

// Quasis hold source text with escapes as written. Escaped backslashes and
// quotes are kept so the quote that follows an escaped backslash is still
// escaped for Python.
var (
	segmentReplacer = strings.NewReplacer(
		"\\\\", "\\\\",
		"\\'", "\\'",
		"\\`", "`",
		"\\$", "$",
		"'", "\\'",
		"\n", "\\n",
	)
	formatReplacer = strings.NewReplacer(
		"\\\\", "\\\\",
		"\\'", "\\'",
		"\\`", "`",
		"\\$", "$",
		"'", "\\'",
		"\n", "\\n",
		"%", "%%",
	)
)

func quoteSegment(text string, format bool) string {
	if format {
		return formatReplacer.Replace(text)
	}
	return segmentReplacer.Replace(text)
}

func (c *conversion) lambda(f *syntax.Func, sc scope) (string, error) {
	if f.ExprBody == nil {
		return "", unsupported(f, "function body in expression")
	}
	params, err := c.params(f.Params, sc)
	if err != nil {
		return "", err
	}
	body, err := c.expr(f.ExprBody, sc)
	if err != nil {
		return "", err
	}
	if params == "" {
		return "lambda: " + body, nil
	}
	return "lambda " + params + ": " + body, nil
}

// params renders a parameter list without the surrounding parentheses.
func (c *conversion) params(list []*syntax.Param, sc scope) (string, error) {
	parts := make([]string, 0, len(list))
	for _, p := range list {
		id, ok := p.Target.(*syntax.Ident)
		if !ok {
			return "", unsupported(p.Target, "destructured parameter")
		}
		switch {
		case p.Rest:
			parts = append(parts, "*"+id.Name)
		case p.Default != nil:
			def, err := c.expr(p.Default, sc)
			if err != nil {
				return "", err
			}
			parts = append(parts, id.Name+"="+def)
		default:
			parts = append(parts, id.Name)
		}
	}
	return strings.Join(parts, ", "), nil
}

// pattern renders a binding target. Array patterns keep the spaced bracket
// form: [ a, b ].
func (c *conversion) pattern(p syntax.Pattern) (string, error) {
	switch p := p.(type) {
	case *syntax.Ident:
		return p.Name, nil
	case *syntax.ArrayPattern:
		parts := make([]string, 0, len(p.Elems))
		for _, el := range p.Elems {
			if el == nil {
				parts = append(parts, "_")
				continue
			}
			text, err := c.pattern(el)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		if len(parts) == 0 {
			return "[]", nil
		}
		return "[ " + strings.Join(parts, ", ") + " ]", nil
	default:
		return "", unsupported(p, "binding target")
	}
}

// target renders the left side of an assignment. Static-field reads are
// never substituted here.
func (c *conversion) target(n syntax.Node, sc scope) (string, error) {
	switch t := n.(type) {
	case *syntax.Ident, *syntax.ArrayPattern:
		return c.pattern(t.(syntax.Pattern))
	case *syntax.Member:
		if _, ok := t.Object.(*syntax.Super); ok {
			return "", unsupported(t, "assignment to super")
		}
		recv, err := c.receiver(t.Object, sc)
		if err != nil {
			return "", err
		}
		return recv + "." + t.Property, nil
	case *syntax.Index:
		return c.index(t, sc)
	default:
		return "", unsupported(n, "assignment target")
	}
}
