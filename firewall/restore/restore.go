// Package restore loads rule-sets with iptables-restore, or any other command
// that reads the same format on stdin.
package restore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	ftypes "go.hackfix.me/yipt/firewall/types"
)

// DefaultCommand is the loader command used if none is configured.
const DefaultCommand = "iptables-restore"

// Restore runs the loader command once per Test or Commit call.
type Restore struct {
	path    string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

var _ ftypes.Loader = (*Restore)(nil)

// New returns a new Restore that runs the command at path. path may be a bare
// command name, which is looked up in PATH.
func New(path string, opts ...Option) *Restore {
	r := &Restore{path: path, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "restore", "command", path)

	return r
}

// Test runs the loader in test mode, which parses the rule-set and checks it
// against the kernel without committing it.
func (r *Restore) Test(ctx context.Context, rules string) error {
	return r.run(ctx, rules, "--test")
}

// Commit runs the loader to replace the active rule-set.
func (r *Restore) Commit(ctx context.Context, rules string) error {
	return r.run(ctx, rules)
}

// run starts the loader, writes rules to its stdin and waits for it to exit.
// stdout and stderr are drained concurrently with the write, since the loader
// may fill either pipe before it consumes all of its input. The process is
// always waited for once started, so it's reaped on every return path.
func (r *Restore) run(ctx context.Context, rules string, extraArgs ...string) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.args...), extraArgs...)
	cmd := exec.CommandContext(ctx, r.path, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed creating stderr pipe: %w", err)
	}

	logger := r.logger.With("args", args)
	logger.Debug("starting loader")

	if err = cmd.Start(); err != nil {
		return fmt.Errorf("failed starting %s: %w", r.path, err)
	}

	var (
		outBuf, errBuf bytes.Buffer
		g              errgroup.Group
	)
	g.Go(func() error {
		defer stdin.Close()
		_, werr := io.WriteString(stdin, rules)
		return werr
	})
	g.Go(func() error {
		_, rerr := io.Copy(&outBuf, stdout)
		return rerr
	})
	g.Go(func() error {
		_, rerr := io.Copy(&errBuf, stderr)
		return rerr
	})
	ioErr := g.Wait()
	waitErr := cmd.Wait()

	logger.Debug("loader exited", "state", cmd.ProcessState.String())

	if ctx.Err() != nil && waitErr != nil {
		return fmt.Errorf("%s did not finish: %w", r.path, ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return &LoadError{
			Command:  r.path,
			ExitCode: exitErr.ExitCode(),
			Output:   diagnostics(errBuf.String(), outBuf.String()),
		}
	}
	if waitErr != nil {
		return fmt.Errorf("failed waiting for %s: %w", r.path, waitErr)
	}
	if ioErr != nil {
		return fmt.Errorf("failed exchanging data with %s: %w", r.path, ioErr)
	}

	return nil
}

func diagnostics(stderr, stdout string) string {
	var parts []string
	for _, s := range []string{stderr, stdout} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// LoadError is returned when the loader rejects a rule-set.
type LoadError struct {
	Command  string
	ExitCode int
	// Output is the diagnostic text written by the loader.
	Output string
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}
