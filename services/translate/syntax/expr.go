// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

// Ident is an identifier. It is both an expression and a binding pattern.
type Ident struct {
	Name string
}

// Number is a numeric literal in its source spelling.
type Number struct {
	Raw string
}

// String is a string literal. Raw keeps the quotes as written; Value is the
// text between them.
type String struct {
	Raw   string
	Value string
}

// Bool is true or false.
type Bool struct {
	Value bool
}

// Null is the null literal.
type Null struct{}

// Template is a template literal. Quasis holds the raw text segments around
// the substitutions, so len(Quasis) == len(Exprs)+1.
type Template struct {
	Quasis []string
	Exprs  []Expr
}

// Array is an array literal. Holes are nil entries.
type Array struct {
	Elems []Expr
}

// Object is an object literal.
type Object struct {
	Props []*Property
}

// Property is one entry of an object literal.
//
// Key is an *Ident, *String or *Number unless Computed is set, in which case
// it is an arbitrary expression. Spread entries (`...x`) carry only Value.
type Property struct {
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
	Spread    bool
}

// Binary is a binary or logical operator application.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a prefix operator application (!, -, +, ~, typeof, void, delete).
type Unary struct {
	Op string
	X  Expr
}

// Update is ++ or --.
type Update struct {
	Op     string
	Prefix bool
	X      Expr
}

// Assign is a plain or compound assignment. Target is a Pattern or an Expr.
type Assign struct {
	Op     string
	Target Node
	Value  Expr
}

// Cond is the ternary operator.
type Cond struct {
	Test Expr
	Then Expr
	Else Expr
}

// Call is a function or method call.
type Call struct {
	Callee Expr
	Args   []Expr
}

// New is a constructor invocation.
type New struct {
	Callee Expr
	Args   []Expr
}

// Member is a dotted property access.
type Member struct {
	Object   Expr
	Property string
}

// Index is a subscript access.
type Index struct {
	Object Expr
	Index  Expr
}

// Paren is a parenthesized expression. Parentheses written in the source are
// kept so the translation preserves grouping.
type Paren struct {
	X Expr
}

// This is the this keyword.
type This struct{}

// Super is the super keyword, as a callee or a member object.
type Super struct{}

// Func is a function or arrow expression. Exactly one of Body and ExprBody is
// set; ExprBody is used for concise arrow bodies.
type Func struct {
	Name     string
	Params   []*Param
	Body     *Block
	ExprBody Expr
	Arrow    bool
}

// Spread is `...x` in an argument or array position.
type Spread struct {
	X Expr
}

// Sequence is the comma operator.
type Sequence struct {
	Exprs []Expr
}

func (*Ident) node()    {}
func (*Number) node()   {}
func (*String) node()   {}
func (*Bool) node()     {}
func (*Null) node()     {}
func (*Template) node() {}
func (*Array) node()    {}
func (*Object) node()   {}
func (*Binary) node()   {}
func (*Unary) node()    {}
func (*Update) node()   {}
func (*Assign) node()   {}
func (*Cond) node()     {}
func (*Call) node()     {}
func (*New) node()      {}
func (*Member) node()   {}
func (*Index) node()    {}
func (*Paren) node()    {}
func (*This) node()     {}
func (*Super) node()    {}
func (*Func) node()     {}
func (*Spread) node()   {}
func (*Sequence) node() {}

func (*Ident) expr()    {}
func (*Number) expr()   {}
func (*String) expr()   {}
func (*Bool) expr()     {}
func (*Null) expr()     {}
func (*Template) expr() {}
func (*Array) expr()    {}
func (*Object) expr()   {}
func (*Binary) expr()   {}
func (*Unary) expr()    {}
func (*Update) expr()   {}
func (*Assign) expr()   {}
func (*Cond) expr()     {}
func (*Call) expr()     {}
func (*New) expr()      {}
func (*Member) expr()   {}
func (*Index) expr()    {}
func (*Paren) expr()    {}
func (*This) expr()     {}
func (*Super) expr()    {}
func (*Func) expr()     {}
func (*Spread) expr()   {}
func (*Sequence) expr() {}

// ArrayPattern is `[a, b]` as a binding target. Holes are nil entries.
type ArrayPattern struct {
	Elems []Pattern
}

// ObjectPattern is `{a, b: c}` as a binding target.
type ObjectPattern struct {
	Props []*PatternProp
}

// PatternProp is one entry of an object pattern: Key is the property name and
// Value the local binding (an *Ident for `{a}`).
type PatternProp struct {
	Key   string
	Value Pattern
	Rest  bool
}

func (*ArrayPattern) node()  {}
func (*ObjectPattern) node() {}

func (*Ident) pattern()         {}
func (*ArrayPattern) pattern()  {}
func (*ObjectPattern) pattern() {}
