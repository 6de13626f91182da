// Package mock provides an in-memory loader that records the rule-sets it's
// given instead of loading them.
package mock

import (
	"context"
	"sync"

	ftypes "go.hackfix.me/yipt/firewall/types"
)

// Mock is a loader that records tested and committed rule-sets.
type Mock struct {
	mx        sync.Mutex
	tested    []string
	committed []string
	failErr   error // to simulate errors
}

var _ ftypes.Loader = (*Mock)(nil)

// New returns a new Mock.
func New() *Mock {
	return &Mock{}
}

// Test records rules as tested, unless a failure was set.
func (m *Mock) Test(_ context.Context, rules string) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.tested = append(m.tested, rules)
	return nil
}

// Commit records rules as committed, unless a failure was set.
func (m *Mock) Commit(_ context.Context, rules string) error {
	m.mx.Lock()
	defer m.mx.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.committed = append(m.committed, rules)
	return nil
}

// Tested returns the rule-sets passed to Test, in call order.
func (m *Mock) Tested() []string {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]string(nil), m.tested...)
}

// Committed returns the rule-sets passed to Commit, in call order.
func (m *Mock) Committed() []string {
	m.mx.Lock()
	defer m.mx.Unlock()
	return append([]string(nil), m.committed...)
}

// SetFailError makes all subsequent calls return err.
func (m *Mock) SetFailError(err error) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.failErr = err
}
