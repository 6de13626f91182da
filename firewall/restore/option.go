package restore

import (
	"log/slog"
	"time"
)

// Option is a function that allows configuring Restore.
type Option func(*Restore)

// WithArgs sets arguments passed to the command before any mode flags.
func WithArgs(args ...string) Option {
	return func(r *Restore) {
		r.args = args
	}
}

// WithTimeout bounds each run of the command. Zero disables the timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Restore) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger used by Restore.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Restore) {
		r.logger = logger
	}
}
