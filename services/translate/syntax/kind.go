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

// Kind returns the node kind name used in diagnostics.
//
// Names follow the tree-sitter JavaScript grammar so that a diagnostic for a
// node built by hand reads the same as one for a parsed node.
func Kind(n Node) string {
	switch n := n.(type) {
	case nil:
		return "nil"
	case *Program:
		return "program"
	case *Unsupported:
		return n.Kind
	case *VarDecl:
		if n.Kind == "var" {
			return "variable_declaration"
		}
		return "lexical_declaration"
	case *FuncDecl:
		return "function_declaration"
	case *ClassDecl:
		return "class_declaration"
	case *ExprStmt:
		return "expression_statement"
	case *If:
		return "if_statement"
	case *For:
		return "for_statement"
	case *ForOf:
		return "for_in_statement"
	case *While:
		return "while_statement"
	case *Return:
		return "return_statement"
	case *Break:
		return "break_statement"
	case *Continue:
		return "continue_statement"
	case *Throw:
		return "throw_statement"
	case *Try:
		return "try_statement"
	case *Block:
		return "statement_block"
	case *Empty:
		return "empty_statement"
	case *Import:
		return "import_statement"
	case *Method:
		return "method_definition"
	case *Field:
		return "field_definition"
	case *Ident:
		return "identifier"
	case *Number:
		return "number"
	case *String:
		return "string"
	case *Bool:
		if n.Value {
			return "true"
		}
		return "false"
	case *Null:
		return "null"
	case *Template:
		return "template_string"
	case *Array:
		return "array"
	case *Object:
		return "object"
	case *Binary:
		return "binary_expression"
	case *Unary:
		return "unary_expression"
	case *Update:
		return "update_expression"
	case *Assign:
		if n.Op == "=" {
			return "assignment_expression"
		}
		return "augmented_assignment_expression"
	case *Cond:
		return "ternary_expression"
	case *Call:
		return "call_expression"
	case *New:
		return "new_expression"
	case *Member:
		return "member_expression"
	case *Index:
		return "subscript_expression"
	case *Paren:
		return "parenthesized_expression"
	case *This:
		return "this"
	case *Super:
		return "super"
	case *Func:
		if n.Arrow {
			return "arrow_function"
		}
		return "function_expression"
	case *Spread:
		return "spread_element"
	case *Sequence:
		return "sequence_expression"
	case *ArrayPattern:
		return "array_pattern"
	case *ObjectPattern:
		return "object_pattern"
	default:
		return "unknown"
	}
}
