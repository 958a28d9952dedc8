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

// JavaScript Tree-sitter Node Types
//
// The converter walks nodes directly rather than using tree-sitter queries.
// Older and newer grammar generations name a few nodes differently; both
// spellings are listed where that happens.
//
// Reference: https://github.com/tree-sitter/tree-sitter-javascript
const (
	jsNodeHashBang = "hash_bang_line"
	jsNodeComment  = "comment"

	// Statements
	jsNodeExpressionStatement = "expression_statement"
	jsNodeVariableDeclaration = "variable_declaration"
	jsNodeLexicalDeclaration  = "lexical_declaration"
	jsNodeVariableDeclarator  = "variable_declarator"
	jsNodeFunctionDeclaration = "function_declaration"
	jsNodeClassDeclaration    = "class_declaration"
	jsNodeIfStatement         = "if_statement"
	jsNodeElseClause          = "else_clause"
	jsNodeForStatement        = "for_statement"
	jsNodeForInStatement      = "for_in_statement"
	jsNodeWhileStatement      = "while_statement"
	jsNodeReturnStatement     = "return_statement"
	jsNodeBreakStatement      = "break_statement"
	jsNodeContinueStatement   = "continue_statement"
	jsNodeThrowStatement      = "throw_statement"
	jsNodeTryStatement        = "try_statement"
	jsNodeStatementBlock      = "statement_block"
	jsNodeEmptyStatement      = "empty_statement"

	// Modules
	jsNodeImportStatement = "import_statement"
	jsNodeImportClause    = "import_clause"
	jsNodeNamespaceImport = "namespace_import"
	jsNodeNamedImports    = "named_imports"
	jsNodeImportSpecifier = "import_specifier"
	jsNodeExportStatement = "export_statement"

	// Classes
	jsNodeClassHeritage         = "class_heritage"
	jsNodeMethodDefinition      = "method_definition"
	jsNodeFieldDefinition       = "field_definition"
	jsNodePublicFieldDefinition = "public_field_definition"
	jsNodeComputedPropertyName  = "computed_property_name"
	jsNodePropertyIdentifier    = "property_identifier"

	// Functions and patterns
	jsNodeArrowFunction                      = "arrow_function"
	jsNodeFunction                           = "function"
	jsNodeFunctionExpression                 = "function_expression"
	jsNodeAssignmentPattern                  = "assignment_pattern"
	jsNodeRestPattern                        = "rest_pattern"
	jsNodeArrayPattern                       = "array_pattern"
	jsNodeObjectPattern                      = "object_pattern"
	jsNodePairPattern                        = "pair_pattern"
	jsNodeShorthandPropertyIdentifierPattern = "shorthand_property_identifier_pattern"

	// Expressions
	jsNodeIdentifier                    = "identifier"
	jsNodeUndefined                     = "undefined"
	jsNodeNumber                        = "number"
	jsNodeString                        = "string"
	jsNodeTrue                          = "true"
	jsNodeFalse                         = "false"
	jsNodeNull                          = "null"
	jsNodeThis                          = "this"
	jsNodeSuper                         = "super"
	jsNodeTemplateString                = "template_string"
	jsNodeTemplateSubstitution          = "template_substitution"
	jsNodeArray                         = "array"
	jsNodeObject                        = "object"
	jsNodePair                          = "pair"
	jsNodeShorthandPropertyIdentifier   = "shorthand_property_identifier"
	jsNodeSpreadElement                 = "spread_element"
	jsNodeBinaryExpression              = "binary_expression"
	jsNodeUnaryExpression               = "unary_expression"
	jsNodeUpdateExpression              = "update_expression"
	jsNodeAssignmentExpression          = "assignment_expression"
	jsNodeAugmentedAssignmentExpression = "augmented_assignment_expression"
	jsNodeTernaryExpression             = "ternary_expression"
	jsNodeCallExpression                = "call_expression"
	jsNodeArguments                     = "arguments"
	jsNodeNewExpression                 = "new_expression"
	jsNodeMemberExpression              = "member_expression"
	jsNodeSubscriptExpression           = "subscript_expression"
	jsNodeParenthesizedExpression       = "parenthesized_expression"
	jsNodeSequenceExpression            = "sequence_expression"

	// Keywords
	jsNodeAsync  = "async"
	jsNodeAwait  = "await"
	jsNodeStatic = "static"
	jsNodeGet    = "get"
	jsNodeSet    = "set"
	jsNodeIn     = "in"
	jsNodeVar    = "var"
)
