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

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	// Kind is "var", "let" or "const".
	Kind  string
	Decls []*Declarator
}

// Declarator binds one target. Init is nil for `let a`.
type Declarator struct {
	Target Pattern
	Init   Expr
}

// Param is a formal parameter.
type Param struct {
	Target  Pattern
	Default Expr
	Rest    bool
}

// FuncDecl is a named function declaration.
type FuncDecl struct {
	Name   string
	Params []*Param
	Body   *Block
}

// ClassDecl is a class declaration. Super is nil without an extends clause.
type ClassDecl struct {
	Name    string
	Super   Expr
	Members []ClassMember
}

// ExprStmt is an expression evaluated for its effect. A directive prologue
// such as "use strict" is an ExprStmt whose X is a *String.
type ExprStmt struct {
	X Expr
}

// If is an if statement. Else is nil, another *If (else if), or any statement.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// For is a counting loop. Init is nil, a *VarDecl or an *ExprStmt. Test and
// Update may be nil.
type For struct {
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

// ForOf is a for-of loop, or a for-in loop when In is set.
type ForOf struct {
	Kind  string
	Left  Pattern
	Right Expr
	Body  Stmt
	In    bool
}

// While is a while loop.
type While struct {
	Cond Expr
	Body Stmt
}

// Return is a return statement. Value is nil for a bare return.
type Return struct {
	Value Expr
}

// Break is a break statement.
type Break struct{}

// Continue is a continue statement.
type Continue struct{}

// Throw is a throw statement.
type Throw struct {
	Value Expr
}

// Try is a try statement. Handler and Finalizer are nil when absent; Param is
// nil for a catch clause without a binding.
type Try struct {
	Body      *Block
	Param     Pattern
	Handler   *Block
	Finalizer *Block
}

// Block is a braced statement list.
type Block struct {
	Body []Stmt
}

// Empty is a lone semicolon.
type Empty struct{}

// Import is an ES module import declaration.
type Import struct {
	Source    string
	Default   string
	Namespace string
	Names     []ImportName
}

// ImportName is one specifier of a named import. Alias is empty when the
// binding keeps the imported name.
type ImportName struct {
	Name  string
	Alias string
}

func (*VarDecl) node()   {}
func (*FuncDecl) node()  {}
func (*ClassDecl) node() {}
func (*ExprStmt) node()  {}
func (*If) node()        {}
func (*For) node()       {}
func (*ForOf) node()     {}
func (*While) node()     {}
func (*Return) node()    {}
func (*Break) node()     {}
func (*Continue) node()  {}
func (*Throw) node()     {}
func (*Try) node()       {}
func (*Block) node()     {}
func (*Empty) node()     {}
func (*Import) node()    {}

func (*VarDecl) stmt()   {}
func (*FuncDecl) stmt()  {}
func (*ClassDecl) stmt() {}
func (*ExprStmt) stmt()  {}
func (*If) stmt()        {}
func (*For) stmt()       {}
func (*ForOf) stmt()     {}
func (*While) stmt()     {}
func (*Return) stmt()    {}
func (*Break) stmt()     {}
func (*Continue) stmt()  {}
func (*Throw) stmt()     {}
func (*Try) stmt()       {}
func (*Block) stmt()     {}
func (*Empty) stmt()     {}
func (*Import) stmt()    {}

// MethodKind distinguishes the kinds of class methods.
type MethodKind int

const (
	// MethodNormal is an ordinary method.
	MethodNormal MethodKind = iota

	// MethodConstructor is the class constructor.
	MethodConstructor

	// MethodGetter is a `get name()` accessor.
	MethodGetter

	// MethodSetter is a `set name(v)` accessor.
	MethodSetter
)

// String returns the method kind name.
func (k MethodKind) String() string {
	switch k {
	case MethodNormal:
		return "method"
	case MethodConstructor:
		return "constructor"
	case MethodGetter:
		return "getter"
	case MethodSetter:
		return "setter"
	default:
		return "unknown"
	}
}

// Method is a method definition in a class body.
type Method struct {
	Name   string
	Kind   MethodKind
	Static bool
	Params []*Param
	Body   *Block
}

// Field is a class field definition. Value is nil without an initializer.
type Field struct {
	Name   string
	Static bool
	Value  Expr
}

func (*Method) node() {}
func (*Field) node()  {}

func (*Method) classMember() {}
func (*Field) classMember()  {}
