package policy

import (
	"fmt"
	"strings"
)

// ErrorKind classifies policy errors.
type ErrorKind int

// All error kinds raised while decoding or compiling a policy.
const (
	KindMalformedDocument ErrorKind = iota + 1
	KindMalformedRuleSpec
	KindDuplicateChain
	KindInvalidDefaultPolicyTarget
	KindUnresolvedJumpTarget
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedDocument:
		return "malformed document"
	case KindMalformedRuleSpec:
		return "malformed rule"
	case KindDuplicateChain:
		return "duplicate chain"
	case KindInvalidDefaultPolicyTarget:
		return "invalid default policy target"
	case KindUnresolvedJumpTarget:
		return "unresolved jump target"
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Sentinel errors to be used with errors.Is. Any *Error matches the sentinel
// of its kind.
var (
	ErrMalformedDocument          = &Error{Kind: KindMalformedDocument}
	ErrMalformedRuleSpec          = &Error{Kind: KindMalformedRuleSpec}
	ErrDuplicateChain             = &Error{Kind: KindDuplicateChain}
	ErrInvalidDefaultPolicyTarget = &Error{Kind: KindInvalidDefaultPolicyTarget}
	ErrUnresolvedJumpTarget       = &Error{Kind: KindUnresolvedJumpTarget}
)

// Error is a policy defect, located by table, chain and rule position.
type Error struct {
	Kind  ErrorKind
	Table string
	Chain string
	// Rule is the 1-based position of the rule in its chain, or 0 if the error
	// isn't tied to a rule.
	Rule int
	// Target is the unresolved jump target.
	Target string
	Msg    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}

	var loc []string
	if e.Table != "" {
		loc = append(loc, "table: "+e.Table)
	}
	if e.Chain != "" {
		loc = append(loc, "chain: "+e.Chain)
	}
	if e.Rule > 0 {
		loc = append(loc, fmt.Sprintf("rule: %d", e.Rule))
	}
	if len(loc) == 0 {
		return msg
	}

	return fmt.Sprintf("%s (%s)", msg, strings.Join(loc, ", "))
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Fields returns the error location as alternating key/value pairs, suitable
// for structured logging.
func (e *Error) Fields() []any {
	fields := []any{"kind", e.Kind.String()}
	if e.Table != "" {
		fields = append(fields, "table", e.Table)
	}
	if e.Chain != "" {
		fields = append(fields, "chain", e.Chain)
	}
	if e.Rule > 0 {
		fields = append(fields, "rule", e.Rule)
	}
	if e.Target != "" {
		fields = append(fields, "target", e.Target)
	}
	return fields
}

// UnresolvedJumpTarget returns the error raised when a rule jumps to a chain
// that its table doesn't declare.
func UnresolvedJumpTarget(table, chain string, rule int, target string) *Error {
	return &Error{
		Kind: KindUnresolvedJumpTarget, Table: table, Chain: chain, Rule: rule, Target: target,
		Msg: fmt.Sprintf("unresolved jump target '%s'", target),
	}
}

// InvalidDefaultPolicyTarget returns the error raised when a default policy is
// declared on a chain that isn't built into its table.
func InvalidDefaultPolicyTarget(table, chain string) *Error {
	return &Error{
		Kind: KindInvalidDefaultPolicyTarget, Table: table, Chain: chain,
		Msg: fmt.Sprintf("default policy declared on custom chain '%s'", chain),
	}
}

func malformedRule(table, chain string, rule int, format string, args ...any) *Error {
	return &Error{
		Kind: KindMalformedRuleSpec, Table: table, Chain: chain, Rule: rule,
		Msg: fmt.Sprintf(format, args...),
	}
}

func malformedDoc(table, chain string, format string, args ...any) *Error {
	return &Error{
		Kind: KindMalformedDocument, Table: table, Chain: chain,
		Msg: fmt.Sprintf(format, args...),
	}
}
