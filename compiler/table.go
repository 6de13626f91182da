package compiler

import (
	"strings"

	"go.hackfix.me/yipt/policy"
)

// checkDefaults fails if a custom chain declares a base policy.
func checkDefaults(t *policy.Table) error {
	for _, c := range t.Chains {
		if c.Default != "" && !t.IsBuiltin(c.Name) {
			return policy.InvalidDefaultPolicyTarget(t.Name, c.Name)
		}
	}
	return nil
}

// resolveJumps fails if any rule of the table, or any chain's default rule
// action, jumps to a chain the table doesn't declare. Cycles between chains
// are allowed.
func resolveJumps(t *policy.Table) error {
	for _, c := range t.Chains {
		if a := c.DefaultRuleAction; a != "" && !policy.IsTarget(a) && t.Chain(a) == nil {
			return policy.UnresolvedJumpTarget(t.Name, c.Name, 0, a)
		}
		for i, r := range c.Rules {
			a := effectiveAction(c, r)
			if policy.IsTarget(a) || t.Chain(a) != nil {
				continue
			}
			return policy.UnresolvedJumpTarget(t.Name, c.Name, i+1, a)
		}
	}
	return nil
}

// compileTable writes the restore block of table t to b. Chain directives are
// written in declaration order before any rule, so that every chain exists by
// the time a rule jumps to it.
func compileTable(b *strings.Builder, t *policy.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := checkDefaults(t); err != nil {
		return err
	}
	if err := resolveJumps(t); err != nil {
		return err
	}

	writeLine(b, "*"+t.Name)

	for _, c := range t.Chains {
		name := policy.ChainName(c.Name)
		switch {
		case !t.IsBuiltin(c.Name):
			writeLine(b, "-N", name)
		case c.Default != "":
			writeLine(b, "-P", name, strings.ToUpper(c.Default))
		}
	}

	for _, c := range t.Chains {
		for _, r := range c.Rules {
			writeLine(b, assembleRule(c, r)...)
		}
	}

	writeLine(b, "COMMIT")

	return nil
}

func writeLine(b *strings.Builder, tokens ...string) {
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok)
	}
	b.WriteByte('\n')
}
