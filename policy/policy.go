// Package policy contains the declarative firewall policy model.
//
// Every level of the model is an ordered container, since the rule-set
// produced from it is order-sensitive: tables, chains and rules are emitted in
// the order they were authored, and so are the match and action parameters of
// each rule.
package policy

import (
	"slices"
	"strings"
)

// Verdicts recognized as terminal actions. Any other action is the name of a
// chain to jump to.
const (
	Accept = "accept"
	Drop   = "drop"
	Reject = "reject"
)

// extensionTargets are targets provided by the loading facility besides the
// verdicts. Rules using them don't jump to a user chain.
var extensionTargets = []string{
	"RETURN", "LOG", "NFLOG", "QUEUE", "NFQUEUE", "MASQUERADE", "SNAT", "DNAT",
	"REDIRECT", "MARK", "CONNMARK", "CT", "NOTRACK", "TCPMSS", "TPROXY", "TRACE",
}

// builtinChains are the chains every known table provides.
var builtinChains = map[string][]string{
	"filter":   {"INPUT", "OUTPUT", "FORWARD"},
	"nat":      {"PREROUTING", "POSTROUTING", "OUTPUT"},
	"mangle":   {"PREROUTING", "INPUT", "FORWARD", "OUTPUT", "POSTROUTING"},
	"raw":      {"PREROUTING", "OUTPUT"},
	"security": {"INPUT", "OUTPUT", "FORWARD"},
}

// Document is a complete policy, made of tables in declaration order.
type Document struct {
	Tables []*Table
}

// Table is a named group of chains, e.g. "filter" or "nat".
type Table struct {
	Name   string
	Chains []*Chain
}

// Chain holds the rules of a single chain and its default behaviors.
type Chain struct {
	Name string
	// Default is the base policy of a built-in chain. Empty when unset.
	Default string
	// DefaultRuleAction is the action of rules that don't declare one. Empty
	// when unset, in which case rules fall back to Accept.
	DefaultRuleAction string
	Rules             []*Rule
}

// Rule is a single rule of a chain.
type Rule struct {
	// Match are the criteria a packet must satisfy, in authored order.
	Match []Param
	// Action is a verdict or the name of a chain to jump to. Empty when unset.
	Action string
	// ActionOptions qualify the action, e.g. reject-with.
	ActionOptions []Param
}

// Param is a single key/value entry of a rule.
type Param struct {
	Key   string
	Value string
	// HasValue is false for keys given without a value, which are rendered as
	// a bare flag.
	HasValue bool
}

// P returns a Param with a value.
func P(key, value string) Param {
	return Param{Key: key, Value: value, HasValue: true}
}

// Flag returns a Param without a value.
func Flag(key string) Param {
	return Param{Key: key}
}

// ChainName returns the canonical form of a chain name. Chain names are case
// insensitive.
func ChainName(name string) string {
	return strings.ToUpper(name)
}

// IsVerdict reports whether action is a terminal verdict rather than a jump.
func IsVerdict(action string) bool {
	switch strings.ToLower(action) {
	case Accept, Drop, Reject:
		return true
	}
	return false
}

// IsTarget reports whether action is a verdict or an extension target, i.e. it
// doesn't name a user chain.
func IsTarget(action string) bool {
	return IsVerdict(action) || slices.Contains(extensionTargets, strings.ToUpper(action))
}

// BuiltinChains returns the canonical names of the built-in chains of the
// given table. Unknown tables have none.
func BuiltinChains(table string) []string {
	return slices.Clone(builtinChains[strings.ToLower(table)])
}

// IsBuiltin reports whether chain is a built-in chain of this table.
func (t *Table) IsBuiltin(chain string) bool {
	return slices.Contains(builtinChains[strings.ToLower(t.Name)], ChainName(chain))
}

// Chain returns the chain with the given name, or nil if the table doesn't
// declare it.
func (t *Table) Chain(name string) *Chain {
	canon := ChainName(name)
	for _, c := range t.Chains {
		if ChainName(c.Name) == canon {
			return c
		}
	}
	return nil
}

// Table returns the table with the given name, or nil if the document doesn't
// declare it.
func (d *Document) Table(name string) *Table {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}
