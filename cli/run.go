package cli

import (
	"errors"
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/yipt/app/config"
	actx "go.hackfix.me/yipt/app/context"
	aerrors "go.hackfix.me/yipt/app/errors"
	"go.hackfix.me/yipt/firewall"
	"go.hackfix.me/yipt/firewall/restore"
	ftypes "go.hackfix.me/yipt/firewall/types"
)

func (c *CLI) run(appCtx *actx.Context) error {
	mode := c.Mode()
	if mode == "" {
		//nolint:wrapcheck // This is fine.
		return c.kctx.PrintUsage(false)
	}

	cfg := config.NewConfig(appCtx.FS, appCtx.Stdin, c.Config)
	if err := cfg.Load(); err != nil {
		return structured("failed loading policy", err, "path", cfg.Path())
	}

	mgr, err := firewall.NewManager(c.loader(appCtx),
		firewall.WithLogger(appCtx.Logger),
		firewall.WithAddressChecks(!c.NoAddrChecks),
	)
	if err != nil {
		return err
	}

	switch mode {
	case "verify":
		if _, err = mgr.Verify(appCtx.Ctx, cfg.Policy); err != nil {
			return structured("policy verification failed", err)
		}
		_, err = fmt.Fprintln(appCtx.Stdout, "Policy verified successfully.")
	case "apply":
		if err = mgr.Apply(appCtx.Ctx, cfg.Policy); err != nil {
			return structured("policy application failed", err)
		}
		host := "unknown host"
		if appCtx.Hostname != nil {
			if h, herr := appCtx.Hostname(); herr == nil {
				host = h
			} else {
				appCtx.Logger.Warn("failed getting host name", "error", herr.Error())
			}
		}
		_, err = fmt.Fprintf(appCtx.Stdout, "Policy applied successfully on %s.\n", host)
	case "print":
		var rules string
		if rules, err = mgr.Compile(cfg.Policy); err != nil {
			return structured("failed compiling policy", err)
		}
		_, err = fmt.Fprint(appCtx.Stdout, rules)
	case "output":
		var rules string
		if rules, err = mgr.Compile(cfg.Policy); err != nil {
			return structured("failed compiling policy", err)
		}
		if err = vfs.WriteFile(appCtx.FS, c.Output, []byte(rules), 0o600); err != nil {
			return aerrors.NewWithCause("failed writing rules", err, "path", c.Output)
		}
		appCtx.Logger.Info("wrote rules", "path", c.Output)
	case "summary":
		if _, err = mgr.Compile(cfg.Policy); err != nil {
			return structured("failed compiling policy", err)
		}
		err = renderSummary(cfg.Policy, appCtx.Stdout)
	}
	if err != nil {
		return aerrors.NewWithCause("failed writing to stdout", err)
	}

	return nil
}

func (c *CLI) loader(appCtx *actx.Context) ftypes.Loader {
	if appCtx.Loader != nil {
		return appCtx.Loader
	}
	return restore.New(c.RestoreCmd,
		restore.WithTimeout(c.Timeout),
		restore.WithLogger(appCtx.Logger),
	)
}

// structured wraps err with msg, adding the loader's exit code and diagnostic
// output as metadata if err carries them. Policy error locations are logged
// from the cause itself.
func structured(msg string, err error, fields ...any) error {
	var lerr *restore.LoadError
	if errors.As(err, &lerr) {
		fields = append(fields, "exit_code", lerr.ExitCode)
		if lerr.Output != "" {
			fields = append(fields, "output", lerr.Output)
		}
	}

	return aerrors.NewWithCause(msg, err, fields...)
}
