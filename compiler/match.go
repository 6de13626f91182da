package compiler

import (
	"strings"

	"go.hackfix.me/yipt/policy"
)

// matchFlags maps well-known match keys to their canonical flags. Keys not
// listed here are passed through as --<key>.
var matchFlags = map[string]string{
	"src":           "-s",
	"source":        "-s",
	"dst":           "-d",
	"destination":   "-d",
	"protocol":      "-p",
	"proto":         "-p",
	"dport":         "--dport",
	"sport":         "--sport",
	"in-interface":  "-i",
	"out-interface": "-o",
	"match":         "-m",
	"state":         "--state",
	"icmp-type":     "--icmp-type",
	"limit":         "--limit",
}

// matchFlag is the flag a match key resolves to.
type matchFlag struct {
	flag string
	// known is false for keys passed through verbatim.
	known bool
}

func lookupMatch(key string) matchFlag {
	if flag, ok := matchFlags[key]; ok {
		return matchFlag{flag: flag, known: true}
	}
	return matchFlag{flag: "--" + key}
}

// translateMatch returns the flag tokens of the given match criteria, in
// authored order.
func translateMatch(params []policy.Param) []string {
	tokens := make([]string, 0, len(params)*2)
	for _, p := range params {
		tokens = append(tokens, lookupMatch(p.Key).flag)
		if p.HasValue {
			tokens = append(tokens, quote(p.Value))
		}
	}
	return tokens
}

// quoteEscaper escapes the characters the rule loader unescapes.
var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// quote wraps values containing whitespace, quotes or backslashes in double
// quotes, which the rule loader parses as a single argument.
func quote(val string) string {
	if !strings.ContainsAny(val, " \t\"'\\") {
		return val
	}
	return `"` + quoteEscaper.Replace(val) + `"`
}
