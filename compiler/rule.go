package compiler

import "go.hackfix.me/yipt/policy"

// effectiveAction returns the action of rule r in chain c: its own action, the
// chain's default rule action, or accept.
func effectiveAction(c *policy.Chain, r *policy.Rule) string {
	switch {
	case r.Action != "":
		return r.Action
	case c.DefaultRuleAction != "":
		return c.DefaultRuleAction
	}
	return policy.Accept
}

// assembleRule returns the append directive tokens of rule r in chain c.
// Jump targets are not checked here, see resolveJumps.
func assembleRule(c *policy.Chain, r *policy.Rule) []string {
	match := translateMatch(r.Match)
	action := translateAction(effectiveAction(c, r), r.ActionOptions)

	tokens := make([]string, 0, 2+len(match)+len(action))
	tokens = append(tokens, "-A", policy.ChainName(c.Name))
	tokens = append(tokens, match...)
	tokens = append(tokens, action...)

	return tokens
}
