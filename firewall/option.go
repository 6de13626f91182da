package firewall

import (
	"log/slog"
)

// Option is a function that allows configuring the Manager.
type Option func(*Manager) error

// WithAddressChecks enables or disables warnings about address values that
// aren't literal IP addresses or networks.
func WithAddressChecks(enabled bool) Option {
	return func(m *Manager) error {
		m.checkAddrs = enabled
		return nil
	}
}

// WithLogger sets the logger used by the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		m.logger = logger.With("component", "firewall")
		return nil
	}
}

// DefaultOptions returns the default Manager options.
func DefaultOptions() []Option {
	return []Option{
		WithAddressChecks(true),
		WithLogger(slog.Default()),
	}
}
