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
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/AleutianAI/js2py/services/translate/syntax"
)

// jsConverter turns a tree-sitter JavaScript tree into syntax nodes. It is
// used for one Parse call only.
type jsConverter struct {
	content     []byte
	unsupported int
}

func (c *jsConverter) text(n *sitter.Node) string {
	return n.Content(c.content)
}

// unsupportedNode records a node kind without a syntax variant.
func (c *jsConverter) unsupportedNode(n *sitter.Node) *syntax.Unsupported {
	c.unsupported++
	p := n.StartPoint()
	return &syntax.Unsupported{
		Kind: n.Type(),
		Pos:  syntax.Pos{Line: int(p.Row) + 1, Column: int(p.Column) + 1},
	}
}

// named returns the named children of n, comments excluded.
func named(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == jsNodeComment {
			continue
		}
		out = append(out, child)
	}
	return out
}

// elements returns the elements of an array or array pattern with a nil
// entry for each hole. A comma not preceded by an element marks a hole.
func elements(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	filled := false
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		switch {
		case child == nil || child.Type() == jsNodeComment:
		case child.IsNamed():
			out = append(out, child)
			filled = true
		case child.Type() == ",":
			if !filled {
				out = append(out, nil)
			}
			filled = false
		}
	}
	return out
}

// firstNamed returns the first non-comment named child, or nil.
func firstNamed(n *sitter.Node) *sitter.Node {
	children := named(n)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// hasToken reports whether n has a direct anonymous child of the given type.
func hasToken(n *sitter.Node, token string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() && child.Type() == token {
			return true
		}
	}
	return false
}

// operator returns the operator token of an operator expression.
func operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil && !child.IsNamed() {
			return child.Type()
		}
	}
	return ""
}

// =============================================================================
// Statements
// =============================================================================

func (c *jsConverter) statements(n *sitter.Node) []syntax.Stmt {
	children := named(n)
	out := make([]syntax.Stmt, 0, len(children))
	for _, child := range children {
		if child.Type() == jsNodeHashBang {
			continue
		}
		out = append(out, c.stmt(child))
	}
	return out
}

func (c *jsConverter) stmt(n *sitter.Node) syntax.Stmt {
	if n == nil {
		return &syntax.Empty{}
	}
	switch n.Type() {
	case jsNodeExpressionStatement:
		x := firstNamed(n)
		if x == nil {
			return &syntax.Empty{}
		}
		return &syntax.ExprStmt{X: c.expr(x)}
	case jsNodeVariableDeclaration, jsNodeLexicalDeclaration:
		return c.varDecl(n)
	case jsNodeFunctionDeclaration:
		if hasToken(n, jsNodeAsync) {
			return c.unsupportedNode(n)
		}
		return &syntax.FuncDecl{
			Name:   c.text(n.ChildByFieldName("name")),
			Params: c.params(n.ChildByFieldName("parameters")),
			Body:   c.block(n.ChildByFieldName("body")),
		}
	case jsNodeClassDeclaration:
		return c.class(n)
	case jsNodeIfStatement:
		return c.ifStmt(n)
	case jsNodeForStatement:
		return c.forStmt(n)
	case jsNodeForInStatement:
		return c.forIn(n)
	case jsNodeWhileStatement:
		return &syntax.While{
			Cond: c.unparen(n.ChildByFieldName("condition")),
			Body: c.stmt(n.ChildByFieldName("body")),
		}
	case jsNodeReturnStatement:
		r := &syntax.Return{}
		if x := firstNamed(n); x != nil {
			r.Value = c.expr(x)
		}
		return r
	case jsNodeBreakStatement:
		if firstNamed(n) != nil {
			return c.unsupportedNode(n)
		}
		return &syntax.Break{}
	case jsNodeContinueStatement:
		if firstNamed(n) != nil {
			return c.unsupportedNode(n)
		}
		return &syntax.Continue{}
	case jsNodeThrowStatement:
		return &syntax.Throw{Value: c.expr(firstNamed(n))}
	case jsNodeTryStatement:
		return c.try(n)
	case jsNodeStatementBlock:
		return c.block(n)
	case jsNodeEmptyStatement:
		return &syntax.Empty{}
	case jsNodeImportStatement:
		return c.importStmt(n)
	case jsNodeExportStatement:
		if decl := n.ChildByFieldName("declaration"); decl != nil {
			return c.stmt(decl)
		}
		return &syntax.Empty{}
	default:
		return c.unsupportedNode(n)
	}
}

func (c *jsConverter) block(n *sitter.Node) *syntax.Block {
	if n == nil {
		return &syntax.Block{}
	}
	return &syntax.Block{Body: c.statements(n)}
}

func (c *jsConverter) varDecl(n *sitter.Node) syntax.Stmt {
	d := &syntax.VarDecl{Kind: jsNodeVar}
	if n.ChildCount() > 0 {
		d.Kind = n.Child(0).Type()
	}
	for _, child := range named(n) {
		if child.Type() != jsNodeVariableDeclarator {
			continue
		}
		decl := &syntax.Declarator{Target: c.pattern(child.ChildByFieldName("name"))}
		if value := child.ChildByFieldName("value"); value != nil {
			decl.Init = c.expr(value)
		}
		d.Decls = append(d.Decls, decl)
	}
	return d
}

func (c *jsConverter) ifStmt(n *sitter.Node) syntax.Stmt {
	s := &syntax.If{
		Cond: c.unparen(n.ChildByFieldName("condition")),
		Then: c.stmt(n.ChildByFieldName("consequence")),
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		// else_clause wraps the statement.
		if alt.Type() == jsNodeElseClause {
			alt = firstNamed(alt)
		}
		if alt != nil {
			s.Else = c.stmt(alt)
		}
	}
	return s
}

// forStmt handles both grammar generations: older ones wrap the condition in
// an expression_statement, newer ones use a bare expression and may attach
// the bare ";" token to an empty field.
func (c *jsConverter) forStmt(n *sitter.Node) syntax.Stmt {
	f := &syntax.For{Body: c.stmt(n.ChildByFieldName("body"))}

	if init := n.ChildByFieldName("initializer"); init != nil && init.IsNamed() {
		switch init.Type() {
		case jsNodeEmptyStatement:
		case jsNodeVariableDeclaration, jsNodeLexicalDeclaration, jsNodeExpressionStatement:
			f.Init = c.stmt(init)
		default:
			f.Init = &syntax.ExprStmt{X: c.expr(init)}
		}
	}

	if cond := n.ChildByFieldName("condition"); cond != nil && cond.IsNamed() {
		switch cond.Type() {
		case jsNodeEmptyStatement:
		case jsNodeExpressionStatement:
			if x := firstNamed(cond); x != nil {
				f.Test = c.expr(x)
			}
		default:
			f.Test = c.expr(cond)
		}
	}

	if inc := n.ChildByFieldName("increment"); inc != nil && inc.IsNamed() {
		f.Update = c.expr(inc)
	}
	return f
}

func (c *jsConverter) forIn(n *sitter.Node) syntax.Stmt {
	if hasToken(n, jsNodeAwait) {
		return c.unsupportedNode(n)
	}
	f := &syntax.ForOf{
		Left:  c.pattern(n.ChildByFieldName("left")),
		Right: c.expr(n.ChildByFieldName("right")),
		Body:  c.stmt(n.ChildByFieldName("body")),
		In:    hasToken(n, jsNodeIn),
	}
	if kind := n.ChildByFieldName("kind"); kind != nil {
		f.Kind = kind.Type()
	}
	return f
}

func (c *jsConverter) try(n *sitter.Node) syntax.Stmt {
	t := &syntax.Try{Body: c.block(n.ChildByFieldName("body"))}
	if handler := n.ChildByFieldName("handler"); handler != nil {
		if param := handler.ChildByFieldName("parameter"); param != nil {
			t.Param = c.pattern(param)
		}
		t.Handler = c.block(handler.ChildByFieldName("body"))
	}
	if finalizer := n.ChildByFieldName("finalizer"); finalizer != nil {
		body := finalizer.ChildByFieldName("body")
		if body == nil {
			body = firstNamed(finalizer)
		}
		t.Finalizer = c.block(body)
	}
	return t
}

func (c *jsConverter) importStmt(n *sitter.Node) syntax.Stmt {
	imp := &syntax.Import{}
	if source := n.ChildByFieldName("source"); source != nil {
		imp.Source = stringValue(c.text(source))
	}
	for _, child := range named(n) {
		if child.Type() != jsNodeImportClause {
			continue
		}
		for _, part := range named(child) {
			switch part.Type() {
			case jsNodeIdentifier:
				imp.Default = c.text(part)
			case jsNodeNamespaceImport:
				if id := firstNamed(part); id != nil {
					imp.Namespace = c.text(id)
				}
			case jsNodeNamedImports:
				for _, spec := range named(part) {
					if spec.Type() != jsNodeImportSpecifier {
						continue
					}
					imp.Names = append(imp.Names, c.importName(spec))
				}
			}
		}
	}
	return imp
}

// importName reads an import_specifier: name and optional alias.
func (c *jsConverter) importName(spec *sitter.Node) syntax.ImportName {
	name := spec.ChildByFieldName("name")
	alias := spec.ChildByFieldName("alias")
	if name == nil {
		ids := named(spec)
		if len(ids) > 0 {
			name = ids[0]
		}
		if len(ids) > 1 {
			alias = ids[1]
		}
	}
	out := syntax.ImportName{}
	if name != nil {
		out.Name = c.text(name)
	}
	if alias != nil {
		out.Alias = c.text(alias)
	}
	return out
}

// =============================================================================
// Classes and functions
// =============================================================================

func (c *jsConverter) class(n *sitter.Node) syntax.Stmt {
	d := &syntax.ClassDecl{Name: c.text(n.ChildByFieldName("name"))}
	for _, child := range named(n) {
		if child.Type() == jsNodeClassHeritage {
			if base := firstNamed(child); base != nil {
				d.Super = c.expr(base)
			}
		}
	}
	for _, member := range named(n.ChildByFieldName("body")) {
		switch member.Type() {
		case jsNodeMethodDefinition:
			d.Members = append(d.Members, c.method(member))
		case jsNodeFieldDefinition, jsNodePublicFieldDefinition:
			d.Members = append(d.Members, c.field(member))
		default:
			d.Members = append(d.Members, c.unsupportedNode(member))
		}
	}
	return d
}

func (c *jsConverter) method(n *sitter.Node) syntax.ClassMember {
	name := n.ChildByFieldName("name")
	if name == nil || name.Type() == jsNodeComputedPropertyName || hasToken(n, jsNodeAsync) || hasToken(n, "*") {
		return c.unsupportedNode(n)
	}
	m := &syntax.Method{
		Name:   memberName(c.text(name)),
		Static: hasToken(n, jsNodeStatic),
		Params: c.params(n.ChildByFieldName("parameters")),
		Body:   c.block(n.ChildByFieldName("body")),
	}
	switch {
	case hasToken(n, jsNodeGet):
		m.Kind = syntax.MethodGetter
	case hasToken(n, jsNodeSet):
		m.Kind = syntax.MethodSetter
	case m.Name == "constructor" && !m.Static:
		m.Kind = syntax.MethodConstructor
	}
	return m
}

func (c *jsConverter) field(n *sitter.Node) syntax.ClassMember {
	prop := n.ChildByFieldName("property")
	if prop == nil {
		prop = firstNamed(n)
	}
	if prop == nil || prop.Type() == jsNodeComputedPropertyName {
		return c.unsupportedNode(n)
	}
	f := &syntax.Field{Name: memberName(c.text(prop)), Static: hasToken(n, jsNodeStatic)}
	if value := n.ChildByFieldName("value"); value != nil {
		f.Value = c.expr(value)
	}
	return f
}

// memberName maps private names #x to _x.
func memberName(name string) string {
	if len(name) > 1 && name[0] == '#' {
		return "_" + name[1:]
	}
	return name
}

func (c *jsConverter) params(n *sitter.Node) []*syntax.Param {
	var out []*syntax.Param
	for _, child := range named(n) {
		p := &syntax.Param{}
		switch child.Type() {
		case jsNodeAssignmentPattern:
			p.Target = c.pattern(child.ChildByFieldName("left"))
			p.Default = c.expr(child.ChildByFieldName("right"))
		case jsNodeRestPattern:
			p.Target = c.pattern(firstNamed(child))
			p.Rest = true
		default:
			p.Target = c.pattern(child)
		}
		out = append(out, p)
	}
	return out
}

func (c *jsConverter) function(n *sitter.Node) syntax.Expr {
	if hasToken(n, jsNodeAsync) || hasToken(n, "*") {
		return c.unsupportedNode(n)
	}
	f := &syntax.Func{Arrow: n.Type() == jsNodeArrowFunction}
	if name := n.ChildByFieldName("name"); name != nil {
		f.Name = c.text(name)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		f.Params = c.params(params)
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		f.Params = []*syntax.Param{{Target: c.pattern(param)}}
	}
	body := n.ChildByFieldName("body")
	if body != nil && body.Type() == jsNodeStatementBlock {
		f.Body = c.block(body)
	} else if body != nil {
		f.ExprBody = c.expr(body)
	}
	return f
}

// =============================================================================
// Patterns
// =============================================================================

func (c *jsConverter) pattern(n *sitter.Node) syntax.Pattern {
	if n == nil {
		return &syntax.Unsupported{Kind: "missing_pattern"}
	}
	switch n.Type() {
	case jsNodeIdentifier, jsNodeShorthandPropertyIdentifierPattern:
		return &syntax.Ident{Name: c.text(n)}
	case jsNodeArrayPattern:
		p := &syntax.ArrayPattern{}
		for _, el := range elements(n) {
			if el == nil {
				p.Elems = append(p.Elems, nil)
				continue
			}
			p.Elems = append(p.Elems, c.pattern(el))
		}
		return p
	case jsNodeObjectPattern:
		p := &syntax.ObjectPattern{}
		for _, prop := range named(n) {
			p.Props = append(p.Props, c.patternProp(prop))
		}
		return p
	default:
		return c.unsupportedNode(n)
	}
}

func (c *jsConverter) patternProp(n *sitter.Node) *syntax.PatternProp {
	switch n.Type() {
	case jsNodeShorthandPropertyIdentifierPattern:
		name := c.text(n)
		return &syntax.PatternProp{Key: name, Value: &syntax.Ident{Name: name}}
	case jsNodePairPattern:
		key := n.ChildByFieldName("key")
		prop := &syntax.PatternProp{Value: c.pattern(n.ChildByFieldName("value"))}
		if key != nil {
			prop.Key = propertyKey(c.text(key), key.Type())
		}
		return prop
	case jsNodeRestPattern:
		return &syntax.PatternProp{Value: c.pattern(firstNamed(n)), Rest: true}
	default:
		return &syntax.PatternProp{Value: c.unsupportedNode(n)}
	}
}

func propertyKey(text, kind string) string {
	if kind == jsNodeString {
		return stringValue(text)
	}
	return text
}

// =============================================================================
// Expressions
// =============================================================================

// unparen unwraps the parentheses the grammar puts around conditions.
func (c *jsConverter) unparen(n *sitter.Node) syntax.Expr {
	if n != nil && n.Type() == jsNodeParenthesizedExpression {
		if inner := firstNamed(n); inner != nil {
			return c.expr(inner)
		}
	}
	return c.expr(n)
}

func (c *jsConverter) exprs(nodes []*sitter.Node) []syntax.Expr {
	out := make([]syntax.Expr, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, c.expr(n))
	}
	return out
}

func (c *jsConverter) expr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return &syntax.Unsupported{Kind: "missing_expression"}
	}
	switch n.Type() {
	case jsNodeIdentifier, jsNodeUndefined:
		return &syntax.Ident{Name: c.text(n)}
	case jsNodeNumber:
		return &syntax.Number{Raw: c.text(n)}
	case jsNodeString:
		raw := c.text(n)
		return &syntax.String{Raw: raw, Value: stringValue(raw)}
	case jsNodeTrue:
		return &syntax.Bool{Value: true}
	case jsNodeFalse:
		return &syntax.Bool{Value: false}
	case jsNodeNull:
		return &syntax.Null{}
	case jsNodeThis:
		return &syntax.This{}
	case jsNodeSuper:
		return &syntax.Super{}
	case jsNodeTemplateString:
		return c.template(n)
	case jsNodeArray:
		a := &syntax.Array{}
		for _, el := range elements(n) {
			if el == nil {
				a.Elems = append(a.Elems, nil)
				continue
			}
			a.Elems = append(a.Elems, c.expr(el))
		}
		return a
	case jsNodeObject:
		return c.object(n)
	case jsNodeBinaryExpression:
		return &syntax.Binary{
			Op:    operator(n),
			Left:  c.expr(n.ChildByFieldName("left")),
			Right: c.expr(n.ChildByFieldName("right")),
		}
	case jsNodeUnaryExpression:
		return &syntax.Unary{
			Op: operator(n),
			X:  c.expr(n.ChildByFieldName("argument")),
		}
	case jsNodeUpdateExpression:
		first := n.Child(0)
		return &syntax.Update{
			Op:     operator(n),
			Prefix: first != nil && !first.IsNamed(),
			X:      c.expr(n.ChildByFieldName("argument")),
		}
	case jsNodeAssignmentExpression:
		return &syntax.Assign{
			Op:     "=",
			Target: c.assignTarget(n.ChildByFieldName("left")),
			Value:  c.expr(n.ChildByFieldName("right")),
		}
	case jsNodeAugmentedAssignmentExpression:
		return &syntax.Assign{
			Op:     operator(n),
			Target: c.assignTarget(n.ChildByFieldName("left")),
			Value:  c.expr(n.ChildByFieldName("right")),
		}
	case jsNodeTernaryExpression:
		return &syntax.Cond{
			Test: c.expr(n.ChildByFieldName("condition")),
			Then: c.expr(n.ChildByFieldName("consequence")),
			Else: c.expr(n.ChildByFieldName("alternative")),
		}
	case jsNodeCallExpression:
		args := n.ChildByFieldName("arguments")
		if args == nil || args.Type() != jsNodeArguments || n.ChildByFieldName("optional_chain") != nil {
			return c.unsupportedNode(n)
		}
		return &syntax.Call{
			Callee: c.expr(n.ChildByFieldName("function")),
			Args:   c.exprs(named(args)),
		}
	case jsNodeNewExpression:
		e := &syntax.New{Callee: c.expr(n.ChildByFieldName("constructor"))}
		if args := n.ChildByFieldName("arguments"); args != nil {
			e.Args = c.exprs(named(args))
		}
		return e
	case jsNodeMemberExpression:
		if n.ChildByFieldName("optional_chain") != nil || hasToken(n, "?.") {
			return c.unsupportedNode(n)
		}
		return &syntax.Member{
			Object:   c.expr(n.ChildByFieldName("object")),
			Property: memberName(c.text(n.ChildByFieldName("property"))),
		}
	case jsNodeSubscriptExpression:
		if hasToken(n, "?.") {
			return c.unsupportedNode(n)
		}
		return &syntax.Index{
			Object: c.expr(n.ChildByFieldName("object")),
			Index:  c.expr(n.ChildByFieldName("index")),
		}
	case jsNodeParenthesizedExpression:
		return &syntax.Paren{X: c.expr(firstNamed(n))}
	case jsNodeArrowFunction, jsNodeFunction, jsNodeFunctionExpression:
		return c.function(n)
	case jsNodeSpreadElement:
		return &syntax.Spread{X: c.expr(firstNamed(n))}
	case jsNodeSequenceExpression:
		return &syntax.Sequence{Exprs: c.sequence(n)}
	default:
		return c.unsupportedNode(n)
	}
}

// sequence flattens nested sequence_expression nodes left to right.
func (c *jsConverter) sequence(n *sitter.Node) []syntax.Expr {
	var out []syntax.Expr
	for _, child := range named(n) {
		if child.Type() == jsNodeSequenceExpression {
			out = append(out, c.sequence(child)...)
			continue
		}
		out = append(out, c.expr(child))
	}
	return out
}

func (c *jsConverter) assignTarget(n *sitter.Node) syntax.Node {
	if n == nil {
		return &syntax.Unsupported{Kind: "missing_target"}
	}
	switch n.Type() {
	case jsNodeIdentifier, jsNodeArrayPattern, jsNodeObjectPattern:
		return c.pattern(n)
	case jsNodeParenthesizedExpression:
		return c.assignTarget(firstNamed(n))
	default:
		return c.expr(n)
	}
}

func (c *jsConverter) object(n *sitter.Node) syntax.Expr {
	o := &syntax.Object{}
	for _, child := range named(n) {
		switch child.Type() {
		case jsNodePair:
			p := &syntax.Property{Value: c.expr(child.ChildByFieldName("value"))}
			key := child.ChildByFieldName("key")
			switch {
			case key == nil:
				return c.unsupportedNode(child)
			case key.Type() == jsNodeComputedPropertyName:
				p.Key = c.expr(firstNamed(key))
				p.Computed = true
			case key.Type() == jsNodePropertyIdentifier:
				p.Key = &syntax.Ident{Name: c.text(key)}
			default:
				p.Key = c.expr(key)
			}
			o.Props = append(o.Props, p)
		case jsNodeShorthandPropertyIdentifier:
			o.Props = append(o.Props, &syntax.Property{Key: &syntax.Ident{Name: c.text(child)}, Shorthand: true})
		case jsNodeSpreadElement:
			o.Props = append(o.Props, &syntax.Property{Value: c.expr(firstNamed(child)), Spread: true})
		default:
			return c.unsupportedNode(child)
		}
	}
	return o
}

// template splits a template string into literal segments around its
// substitutions, using byte offsets so escapes stay as written.
func (c *jsConverter) template(n *sitter.Node) syntax.Expr {
	t := &syntax.Template{}
	start := n.StartByte() + 1
	end := n.EndByte() - 1
	pos := start
	for _, child := range named(n) {
		if child.Type() != jsNodeTemplateSubstitution {
			continue
		}
		t.Quasis = append(t.Quasis, string(c.content[pos:child.StartByte()]))
		t.Exprs = append(t.Exprs, c.expr(firstNamed(child)))
		pos = child.EndByte()
	}
	if end < pos {
		end = pos
	}
	t.Quasis = append(t.Quasis, string(c.content[pos:end]))
	return t
}

// stringValue strips the quotes of a string literal. Escapes are kept.
func stringValue(raw string) string {
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}
