package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{nil, "nil"},
		{&Program{}, "program"},
		{&VarDecl{Kind: "var"}, "variable_declaration"},
		{&VarDecl{Kind: "const"}, "lexical_declaration"},
		{&Assign{Op: "="}, "assignment_expression"},
		{&Assign{Op: "+="}, "augmented_assignment_expression"},
		{&Func{Arrow: true}, "arrow_function"},
		{&Func{}, "function_expression"},
		{&Bool{Value: false}, "false"},
		{&Unsupported{Kind: "switch_statement"}, "switch_statement"},
		{&ObjectPattern{}, "object_pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.node))
		})
	}
}

func TestUnsupported_ImplementsEveryCategory(t *testing.T) {
	u := &Unsupported{Kind: "regex", Pos: Pos{Line: 3, Column: 7}}

	var (
		_ Stmt        = u
		_ Expr        = u
		_ Pattern     = u
		_ ClassMember = u
	)
	assert.True(t, u.Pos.IsValid())
	assert.False(t, Pos{}.IsValid())
}

func TestMethodKind_String(t *testing.T) {
	assert.Equal(t, "method", MethodNormal.String())
	assert.Equal(t, "constructor", MethodConstructor.String())
	assert.Equal(t, "getter", MethodGetter.String())
	assert.Equal(t, "setter", MethodSetter.String())
	assert.Equal(t, "unknown", MethodKind(42).String())
}
