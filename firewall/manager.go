package firewall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.hackfix.me/yipt/compiler"
	ftypes "go.hackfix.me/yipt/firewall/types"
	"go.hackfix.me/yipt/policy"
)

// addressKeys are the match keys whose values are addresses, mapped to whether
// they're in range notation.
var addressKeys = map[string]bool{
	"src":         false,
	"source":      false,
	"dst":         false,
	"destination": false,
	"src-range":   true,
	"dst-range":   true,
}

// Manager compiles policies and feeds them to a loader.
type Manager struct {
	loader     ftypes.Loader
	checkAddrs bool
	logger     *slog.Logger
}

// NewManager returns a new Manager instance.
func NewManager(loader ftypes.Loader, opts ...Option) (*Manager, error) {
	if loader == nil {
		return nil, errors.New("loader implementation is required")
	}

	m := &Manager{loader: loader}

	opts = append(DefaultOptions(), opts...)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Compile returns the rule-set of doc. If address checks are enabled, address
// values that aren't literal IP addresses or networks, such as host names or
// typos, are logged as warnings. They never fail compilation.
func (m *Manager) Compile(doc *policy.Document) (string, error) {
	rules, err := compiler.Compile(doc)
	if err != nil {
		return "", fmt.Errorf("failed compiling policy: %w", err)
	}

	for _, t := range doc.Tables {
		var nRules int
		for _, c := range t.Chains {
			nRules += len(c.Rules)
		}
		m.logger.Debug("compiled table", "table", t.Name, "chains", len(t.Chains), "rules", nRules)
	}
	if m.checkAddrs {
		m.checkAddresses(doc)
	}

	return rules, nil
}

// Verify compiles doc and checks the result with the loader.
func (m *Manager) Verify(ctx context.Context, doc *policy.Document) (string, error) {
	rules, err := m.Compile(doc)
	if err != nil {
		return "", err
	}

	if err = m.loader.Test(ctx, rules); err != nil {
		return "", fmt.Errorf("failed verifying rules: %w", err)
	}
	m.logger.Info("verified rules")

	return rules, nil
}

// Apply verifies doc and, if it's accepted, commits it.
func (m *Manager) Apply(ctx context.Context, doc *policy.Document) error {
	rules, err := m.Verify(ctx, doc)
	if err != nil {
		return err
	}

	if err = m.loader.Commit(ctx, rules); err != nil {
		return fmt.Errorf("failed applying rules: %w", err)
	}
	m.logger.Info("applied rules")

	return nil
}

func (m *Manager) checkAddresses(doc *policy.Document) {
	for _, t := range doc.Tables {
		for _, c := range t.Chains {
			for i, r := range c.Rules {
				for _, p := range r.Match {
					ranges, ok := addressKeys[p.Key]
					if !ok || !p.HasValue {
						continue
					}
					if _, err := ParseAddresses(p.Value, ranges); err != nil {
						m.logger.Warn("address is not a literal IP address or network",
							"table", t.Name, "chain", c.Name, "rule", i+1,
							"key", p.Key, "value", p.Value, "reason", err.Error())
					}
				}
			}
		}
	}
}
