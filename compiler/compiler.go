// Package compiler turns a policy document into iptables-restore input.
//
// Compilation is a pure function of the document: it never modifies its input,
// keeps no state between calls, and produces either the complete rule-set or
// an error, never partial output.
package compiler

import (
	"strings"

	"go.hackfix.me/yipt/policy"
)

// Compile returns the rule-set of all tables of doc, in declaration order.
// Errors are of type *policy.Error.
func Compile(doc *policy.Document) (string, error) {
	var b strings.Builder
	for _, t := range doc.Tables {
		if err := compileTable(&b, t); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

// CompileTable returns the rule-set of a single table.
func CompileTable(t *policy.Table) (string, error) {
	var b strings.Builder
	if err := compileTable(&b, t); err != nil {
		return "", err
	}

	return b.String(), nil
}
