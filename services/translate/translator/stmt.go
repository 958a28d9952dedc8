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

// stmt emits the lines of one statement at sc.depth.
func (c *conversion) stmt(s syntax.Stmt, sc scope) error {
	switch s := s.(type) {
	case *syntax.VarDecl:
		return c.varDecl(s, sc)
	case *syntax.FuncDecl:
		return c.funcDef(s.Name, s.Params, s.Body, sc)
	case *syntax.ClassDecl:
		return c.class(s, sc)
	case *syntax.ExprStmt:
		return c.exprStmt(s, sc)
	case *syntax.If:
		return c.ifStmt(s, sc, "if ")
	case *syntax.For:
		return c.forLoop(s, sc)
	case *syntax.ForOf:
		return c.forOf(s, sc)
	case *syntax.While:
		return c.while(s, sc)
	case *syntax.Return:
		if s.Value == nil {
			c.out.line(sc.depth, "return")
			return nil
		}
		value, err := c.expr(s.Value, sc)
		if err != nil {
			return err
		}
		c.out.line(sc.depth, "return "+value)
		return nil
	case *syntax.Break:
		c.out.line(sc.depth, "break")
		return nil
	case *syntax.Continue:
		if err := c.runUpdates(sc); err != nil {
			return err
		}
		c.out.line(sc.depth, "continue")
		return nil
	case *syntax.Throw:
		return c.throw(s, sc)
	case *syntax.Try:
		return c.try(s, sc)
	case *syntax.Block:
		for _, inner := range s.Body {
			if err := c.stmt(inner, sc); err != nil {
				return err
			}
		}
		return nil
	case *syntax.Empty:
		return nil
	case *syntax.Import:
		return c.importStmt(s, sc)
	default:
		return unsupported(s, "")
	}
}

// body emits a statement as an indented body at sc.depth, which the caller
// has already widened. A body that emits nothing gets a pass line.
func (c *conversion) body(s syntax.Stmt, sc scope) error {
	m := c.out.mark()
	if err := c.stmt(s, sc); err != nil {
		return err
	}
	c.out.passIfEmpty(m, sc.depth)
	return nil
}

func (c *conversion) block(b *syntax.Block, sc scope) error {
	if b == nil {
		c.out.line(sc.depth, passLine)
		return nil
	}
	return c.body(b, sc)
}

func (c *conversion) varDecl(d *syntax.VarDecl, sc scope) error {
	for _, decl := range d.Decls {
		if decl.Init == nil {
			continue
		}
		if err := c.binding(decl.Target, decl.Init, sc); err != nil {
			return err
		}
	}
	return nil
}

// binding emits target = init, with the module import, function definition
// and object destructuring rewrites.
func (c *conversion) binding(target syntax.Pattern, init syntax.Expr, sc scope) error {
	if mod, ok := requirePath(init); ok {
		return c.requireImport(target, mod, sc)
	}
	if fn, ok := init.(*syntax.Func); ok && fn.Body != nil {
		id, ok := target.(*syntax.Ident)
		if !ok {
			return unsupported(target, "function bound to pattern")
		}
		return c.funcDef(id.Name, fn.Params, fn.Body, sc)
	}
	if obj, ok := target.(*syntax.ObjectPattern); ok {
		return c.destructure(obj, init, sc)
	}

	lhs, err := c.pattern(target)
	if err != nil {
		return err
	}
	rhs, err := c.expr(init, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, lhs+" = "+rhs)
	return nil
}

// destructure emits one subscript assignment per key of const {a, b: c} = o.
// The source must be a plain name so it is evaluated once.
func (c *conversion) destructure(p *syntax.ObjectPattern, init syntax.Expr, sc scope) error {
	src, ok := init.(*syntax.Ident)
	if !ok {
		return unsupported(p, "object destructuring of an expression")
	}
	for _, prop := range p.Props {
		if prop.Rest {
			return unsupported(p, "rest property")
		}
		name, ok := prop.Value.(*syntax.Ident)
		if !ok {
			return unsupported(prop.Value, "nested destructuring")
		}
		c.out.line(sc.depth, name.Name+" = "+src.Name+"['"+prop.Key+"']")
	}
	return nil
}

// requirePath matches require('m') and returns m.
func requirePath(e syntax.Expr) (string, bool) {
	call, ok := e.(*syntax.Call)
	if !ok || len(call.Args) != 1 {
		return "", false
	}
	id, ok := call.Callee.(*syntax.Ident)
	if !ok || id.Name != "require" {
		return "", false
	}
	s, ok := call.Args[0].(*syntax.String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

func (c *conversion) requireImport(target syntax.Pattern, mod string, sc scope) error {
	module := modulePath(mod)
	switch t := target.(type) {
	case *syntax.Ident:
		c.out.line(sc.depth, "from "+module+" import "+t.Name)
		return nil
	case *syntax.ObjectPattern:
		for _, prop := range t.Props {
			name, ok := prop.Value.(*syntax.Ident)
			if prop.Rest || !ok {
				return unsupported(t, "destructured require")
			}
			line := "from " + module + " import " + prop.Key
			if name.Name != prop.Key {
				line += " as " + name.Name
			}
			c.out.line(sc.depth, line)
		}
		return nil
	default:
		return unsupported(target, "require target")
	}
}

// modulePath converts a module specifier to a dotted Python module path:
// ./a/b.js becomes .a.b and ../a becomes ..a.
func modulePath(spec string) string {
	p := strings.TrimSuffix(spec, ".js")
	level := 0
	if strings.HasPrefix(p, "./") {
		level = 1
		p = p[2:]
	}
	for strings.HasPrefix(p, "../") {
		if level == 0 {
			level = 1
		}
		level++
		p = p[3:]
	}
	return strings.Repeat(".", level) + strings.ReplaceAll(p, "/", ".")
}

func (c *conversion) importStmt(imp *syntax.Import, sc scope) error {
	module := modulePath(imp.Source)

	var names []string
	if imp.Default != "" {
		names = append(names, imp.Default)
	}
	for _, n := range imp.Names {
		if n.Alias != "" && n.Alias != n.Name {
			names = append(names, n.Name+" as "+n.Alias)
		} else {
			names = append(names, n.Name)
		}
	}
	if len(names) > 0 {
		c.out.line(sc.depth, "from "+module+" import "+strings.Join(names, ", "))
	}

	if imp.Namespace != "" {
		pkg, leaf := splitModule(module)
		if pkg == "" {
			c.out.line(sc.depth, "import "+leaf+" as "+imp.Namespace)
		} else {
			c.out.line(sc.depth, "from "+pkg+" import "+leaf+" as "+imp.Namespace)
		}
	}

	if len(names) == 0 && imp.Namespace == "" {
		c.out.line(sc.depth, "import "+module)
	}
	return nil
}

// splitModule splits .a.b into (.a, b) and .b into (., b). Absolute modules
// without dots return an empty package.
func splitModule(module string) (string, string) {
	i := strings.LastIndex(module, ".")
	if i < 0 {
		return "", module
	}
	pkg := module[:i]
	if pkg == "" || strings.Trim(pkg, ".") == "" {
		pkg = module[:i+1]
	}
	return pkg, module[i+1:]
}

func (c *conversion) exprStmt(s *syntax.ExprStmt, sc scope) error {
	if c.statics.isConsumed(s) {
		return nil
	}
	if value, ok := c.statics.overwrittenValue(s); ok {
		text, err := c.expr(value, sc)
		if err != nil {
			return err
		}
		c.out.line(sc.depth, text)
		return nil
	}
	switch x := s.X.(type) {
	case *syntax.String:
		return nil
	case *syntax.Assign:
		return c.assignStmt(x, sc)
	case *syntax.Update:
		target, err := c.target(x.X, sc)
		if err != nil {
			return err
		}
		c.out.line(sc.depth, target+" "+updateOps[x.Op])
		return nil
	case *syntax.Call:
		if del, ok, err := c.splice(x, sc); ok || err != nil {
			if err != nil {
				return err
			}
			c.out.line(sc.depth, del)
			return nil
		}
	}
	text, err := c.expr(s.X, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, text)
	return nil
}

func (c *conversion) assignStmt(a *syntax.Assign, sc scope) error {
	if isExports(a.Target) {
		return nil
	}
	if a.Op == "=" {
		if p, ok := a.Target.(syntax.Pattern); ok {
			if _, obj := p.(*syntax.ObjectPattern); obj {
				return c.binding(p, a.Value, sc)
			}
			if mod, ok := requirePath(a.Value); ok {
				return c.requireImport(p, mod, sc)
			}
			if fn, ok := a.Value.(*syntax.Func); ok && fn.Body != nil {
				return c.binding(p, a.Value, sc)
			}
		}
	}
	text, err := c.assign(a, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, text)
	return nil
}

// assign renders target op value. Chained plain assignments a = b = 1 stay
// chained.
func (c *conversion) assign(a *syntax.Assign, sc scope) (string, error) {
	if !assignOps[a.Op] {
		return "", unsupported(a, a.Op)
	}
	target, err := c.target(a.Target, sc)
	if err != nil {
		return "", err
	}
	var value string
	if inner, ok := a.Value.(*syntax.Assign); ok && a.Op == "=" && inner.Op == "=" {
		value, err = c.assign(inner, sc)
	} else {
		value, err = c.expr(a.Value, sc)
	}
	if err != nil {
		return "", err
	}
	return target + " " + a.Op + " " + value, nil
}

// isExports matches module.exports, exports.x and any member access below
// them.
func isExports(n syntax.Node) bool {
	m, ok := n.(*syntax.Member)
	if !ok {
		return false
	}
	if id, ok := m.Object.(*syntax.Ident); ok {
		return (id.Name == "module" && m.Property == "exports") || id.Name == "exports"
	}
	return isExports(m.Object)
}

// splice rewrites arr.splice(i, 1) to del arr[i] and arr.splice(i, n) to a
// slice deletion. The boolean is false when the call is not a splice.
func (c *conversion) splice(call *syntax.Call, sc scope) (string, bool, error) {
	m, ok := call.Callee.(*syntax.Member)
	if !ok || m.Property != spliceMethod || len(call.Args) != 2 {
		return "", false, nil
	}
	recv, err := c.receiver(m.Object, sc)
	if err != nil {
		return "", true, err
	}
	start, err := c.expr(call.Args[0], sc)
	if err != nil {
		return "", true, err
	}
	if n, ok := call.Args[1].(*syntax.Number); ok && n.Raw == "1" {
		return "del " + recv + "[" + start + "]", true, nil
	}
	count, err := c.expr(call.Args[1], sc)
	if err != nil {
		return "", true, err
	}
	return "del " + recv + "[" + start + ":" + start + " + " + count + "]", true, nil
}

func (c *conversion) ifStmt(s *syntax.If, sc scope, keyword string) error {
	cond, err := c.expr(s.Cond, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, keyword+cond+":")
	if err := c.body(s.Then, sc.nested()); err != nil {
		return err
	}
	switch els := s.Else.(type) {
	case nil:
		return nil
	case *syntax.If:
		return c.ifStmt(els, sc, "elif ")
	default:
		c.out.line(sc.depth, "else:")
		return c.body(els, sc.nested())
	}
}

// funcDef emits def name(params): with its body and the closing blank line.
func (c *conversion) funcDef(name string, params []*syntax.Param, body *syntax.Block, sc scope) error {
	list, err := c.params(params, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, "def "+name+"("+list+"):")
	if err := c.block(body, sc.function()); err != nil {
		return err
	}
	c.out.blank()
	return nil
}

func (c *conversion) class(d *syntax.ClassDecl, sc scope) error {
	header := "class " + d.Name
	if d.Super != nil {
		base, err := c.expr(d.Super, sc)
		if err != nil {
			return err
		}
		header += "(" + base + ")"
	}
	c.out.line(sc.depth, header+":")

	inner := sc.inClass(d.Name)
	m := c.out.mark()
	for _, member := range d.Members {
		if err := c.classMember(member, inner); err != nil {
			return err
		}
	}
	c.out.passIfEmpty(m, inner.depth)
	c.out.blank()
	return nil
}

func (c *conversion) classMember(member syntax.ClassMember, sc scope) error {
	switch m := member.(type) {
	case *syntax.Method:
		return c.method(m, sc)
	case *syntax.Field:
		if m.Value == nil {
			return nil
		}
		value, err := c.expr(m.Value, sc)
		if err != nil {
			return err
		}
		c.out.line(sc.depth, m.Name+" = "+value)
		return nil
	default:
		return unsupported(member, "class member")
	}
}

func (c *conversion) method(m *syntax.Method, sc scope) error {
	name := m.Name
	switch {
	case m.Kind == syntax.MethodConstructor:
		name = initName
	case m.Static:
		c.out.line(sc.depth, "@staticmethod")
	case m.Kind == syntax.MethodGetter:
		c.out.line(sc.depth, "@property")
	case m.Kind == syntax.MethodSetter:
		c.out.line(sc.depth, "@"+m.Name+".setter")
	}

	list, err := c.params(m.Params, sc)
	if err != nil {
		return err
	}
	if !m.Static {
		if list == "" {
			list = selfName
		} else {
			list = selfName + ", " + list
		}
	}
	c.out.line(sc.depth, "def "+name+"("+list+"):")
	if err := c.block(m.Body, sc.function()); err != nil {
		return err
	}
	c.out.blank()
	return nil
}

func (c *conversion) throw(t *syntax.Throw, sc scope) error {
	value := t.Value
	if n, ok := value.(*syntax.New); ok {
		if id, ok := n.Callee.(*syntax.Ident); ok && id.Name == "Error" {
			value = &syntax.Call{Callee: &syntax.Ident{Name: "Exception"}, Args: n.Args}
		}
	}
	text, err := c.expr(value, sc)
	if err != nil {
		return err
	}
	c.out.line(sc.depth, "raise "+text)
	return nil
}

func (c *conversion) try(t *syntax.Try, sc scope) error {
	inner := sc.nested()
	c.out.line(sc.depth, "try:")
	if err := c.block(t.Body, inner); err != nil {
		return err
	}
	if t.Handler != nil {
		header := "except Exception:"
		if t.Param != nil {
			id, ok := t.Param.(*syntax.Ident)
			if !ok {
				return unsupported(t.Param, "catch binding")
			}
			header = "except Exception as " + id.Name + ":"
		}
		c.out.line(sc.depth, header)
		if err := c.block(t.Handler, inner); err != nil {
			return err
		}
	}
	if t.Finalizer != nil {
		c.out.line(sc.depth, "finally:")
		if err := c.block(t.Finalizer, inner); err != nil {
			return err
		}
	}
	return nil
}
