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

// Rewrite tables. They are built once and never modified.

// binaryOps maps JavaScript binary and logical operators to Python. Operators
// missing from the table have no translation.
var binaryOps = map[string]string{
	"===": "==",
	"!==": "!=",
	"==":  "==",
	"!=":  "!=",
	"&&":  "and",
	"||":  "or",
	"<":   "<",
	"<=":  "<=",
	">":   ">",
	">=":  ">=",
	"+":   "+",
	"-":   "-",
	"*":   "*",
	"/":   "/",
	"%":   "%",
	"**":  "**",
	"&":   "&",
	"|":   "|",
	"^":   "^",
	"<<":  "<<",
	">>":  ">>",
	"in":  "in",
}

// unaryOps maps prefix operators to the Python prefix text, separating space
// included.
var unaryOps = map[string]string{
	"!":      "not ",
	"-":      "-",
	"+":      "+",
	"~":      "~",
	"delete": "del ",
}

// assignOps lists the assignment operators Python spells the same way.
var assignOps = map[string]bool{
	"=":   true,
	"+=":  true,
	"-=":  true,
	"*=":  true,
	"/=":  true,
	"%=":  true,
	"**=": true,
	"&=":  true,
	"|=":  true,
	"^=":  true,
	"<<=": true,
	">>=": true,
}

// updateOps maps ++ and -- to the compound assignment used at statement level.
var updateOps = map[string]string{
	"++": "+= 1",
	"--": "-= 1",
}

// chainOps maps numeric-wrapper fluent methods to infix operators:
// a.minus(b) becomes a - b.
var chainOps = map[string]string{
	"minus":     "-",
	"plus":      "+",
	"times":     "*",
	"dividedBy": "/",
}

// wrapperStatics maps static methods of numeric-wrapper classes to Python
// builtins: BigN.max(list) becomes max(list).
var wrapperStatics = map[string]string{
	"max": "max",
	"min": "min",
}

// methodRenames maps array methods to their Python list counterparts when
// only the name differs.
var methodRenames = map[string]string{
	"push": "append",
}

// DefaultWrapperNames are the numeric-wrapper classes recognized when no
// WithWrapperNames option is given.
var DefaultWrapperNames = []string{"BigN", "BigNumber", "Big", "Decimal"}

const (
	lengthProperty = "length"
	spliceMethod   = "splice"
	selfName       = "self"
	initName       = "__init__"
)
