package policy

import (
	"errors"
	"fmt"
	"unicode"
)

// CheckName fails if s can't be written as a single unquoted token of a rule
// line. Chain names, actions and parameter keys must satisfy it.
func CheckName(s string) error {
	if s == "" {
		return errors.New("name is empty")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return fmt.Errorf("name %q contains whitespace or control characters", s)
		}
	}
	return nil
}

// CheckValue fails if s contains control characters, such as line breaks,
// which would end the rule line it's written to. Tabs are allowed, since
// values containing whitespace are quoted.
func CheckValue(s string) error {
	for _, r := range s {
		if r != '\t' && unicode.IsControl(r) {
			return fmt.Errorf("value %q contains control characters", s)
		}
	}
	return nil
}

// checkChainName fails if name isn't a valid chain name. Names of verdicts and
// extension targets are reserved, since a jump to them would reach the target
// instead of the chain.
func checkChainName(name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	if IsTarget(name) {
		return fmt.Errorf("chain name '%s' is reserved for a target", name)
	}
	return nil
}

func checkOptionalName(s string) error {
	if s == "" {
		return nil
	}
	return CheckName(s)
}

func checkParam(p Param) error {
	if err := CheckName(p.Key); err != nil {
		return err
	}
	if p.HasValue {
		return CheckValue(p.Value)
	}
	return nil
}

// Validate fails if any name or value of the table can't be written to a rule
// line as a well-formed token. The error is located at the offending chain and
// rule.
func (t *Table) Validate() error {
	if err := CheckName(t.Name); err != nil {
		return malformedDoc(t.Name, "", "invalid table: %s", err)
	}
	for _, c := range t.Chains {
		if err := checkChainName(c.Name); err != nil {
			return malformedDoc(t.Name, c.Name, "invalid chain: %s", err)
		}
		if err := checkOptionalName(c.Default); err != nil {
			return malformedDoc(t.Name, c.Name, "invalid '%s': %s", keyDefault, err)
		}
		if err := checkOptionalName(c.DefaultRuleAction); err != nil {
			return malformedDoc(t.Name, c.Name, "invalid '%s': %s", keyDefaultRuleAction, err)
		}
		for i, r := range c.Rules {
			if err := r.validate(); err != nil {
				return malformedRule(t.Name, c.Name, i+1, "%s", err)
			}
		}
	}
	return nil
}

func (r *Rule) validate() error {
	if err := checkOptionalName(r.Action); err != nil {
		return fmt.Errorf("invalid action: %w", err)
	}
	for _, p := range r.Match {
		if err := checkParam(p); err != nil {
			return fmt.Errorf("invalid match: %w", err)
		}
	}
	for _, p := range r.ActionOptions {
		if err := checkParam(p); err != nil {
			return fmt.Errorf("invalid action option: %w", err)
		}
	}
	return nil
}
