package compiler

import "go.hackfix.me/yipt/policy"

// translateAction returns the jump tokens for action, followed by its options.
// Verdicts, extension targets and chain names are all rendered upper-cased.
func translateAction(action string, opts []policy.Param) []string {
	tokens := make([]string, 0, 2+len(opts)*2)
	tokens = append(tokens, "-j", policy.ChainName(action))
	for _, o := range opts {
		tokens = append(tokens, "--"+o.Key)
		if o.HasValue {
			tokens = append(tokens, quote(o.Value))
		}
	}

	return tokens
}
