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
	"errors"
	"fmt"

	"github.com/AleutianAI/js2py/services/translate/syntax"
)

var (
	// ErrUnsupportedConstruct indicates the program contains a node kind or
	// idiom that has no translation rule. The conversion is abandoned; no
	// partial output is returned.
	ErrUnsupportedConstruct = errors.New("unsupported construct")

	// ErrNilProgram indicates Convert was called without a syntax tree.
	ErrNilProgram = errors.New("nil program")
)

// UnsupportedError names the construct that stopped a conversion.
//
// Example:
//
//	out, err := tr.Convert(prog)
//	var unsupported *UnsupportedError
//	if errors.As(err, &unsupported) {
//	    fmt.Printf("cannot translate %s at line %d\n", unsupported.Kind, unsupported.Pos.Line)
//	}
type UnsupportedError struct {
	// Kind is the node kind, e.g. "switch_statement" or "unary_expression".
	Kind string

	// Detail narrows the failure down when the node kind alone is ambiguous,
	// e.g. the operator of a unary expression.
	Detail string

	// Pos is the source position when the parser recorded one.
	Pos syntax.Pos
}

// Error formats the failure as "line:col: unsupported construct: kind (detail)".
func (e *UnsupportedError) Error() string {
	msg := "unsupported construct: " + e.Kind
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return msg
}

// Unwrap returns ErrUnsupportedConstruct so callers can use errors.Is.
func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupportedConstruct
}

// IsUnsupported reports whether err is or wraps ErrUnsupportedConstruct.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedConstruct)
}

func unsupported(n syntax.Node, detail string) error {
	err := &UnsupportedError{Kind: syntax.Kind(n), Detail: detail}
	if u, ok := n.(*syntax.Unsupported); ok {
		err.Pos = u.Pos
	}
	return err
}
