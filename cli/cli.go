package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"

	actx "go.hackfix.me/yipt/app/context"
	"go.hackfix.me/yipt/firewall/restore"
)

// CLI is the command line interface of yipt.
type CLI struct {
	Config string `kong:"short='c',required,placeholder='PATH',help='Path to the policy file, or - to read it from stdin.'"`

	Verify  bool   `kong:"xor='mode',group='Modes',help='Check the compiled rules with the loader without applying them.'"`
	Apply   bool   `kong:"xor='mode',group='Modes',help='Check and apply the compiled rules.'"`
	Print   bool   `kong:"xor='mode',group='Modes',help='Print the compiled rules to stdout.'"`
	Output  string `kong:"short='o',xor='mode',group='Modes',placeholder='FILE',help='Write the compiled rules to FILE.'"`
	Summary bool   `kong:"xor='mode',group='Modes',help='Print a summary of the chains of the policy.'"`

	RestoreCmd   string        `kong:"default='${restoreCmd}',help='Command that loads the compiled rules from stdin.'"`
	Timeout      time.Duration `kong:"type='xduration',default='30s',help='Maximum time the loader may run. 0 disables the timeout.'"`
	NoAddrChecks bool          `kong:"name='no-address-checks',help='Do not warn about addresses that are not literal IP addresses or networks.'"`
	Log          struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	Version kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(appCtx *actx.Context, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("yipt"),
		kong.Description("Compile a YAML firewall policy into iptables-restore rules, and verify or apply them."),
		kong.UsageOnError(),
		kong.DefaultEnvars("YIPT"),
		kong.Writers(appCtx.Stdout, appCtx.Stderr),
		kong.NamedMapper("xduration", DurationMapper{}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		kong.Vars{
			"restoreCmd": restore.DefaultCommand,
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute runs the selected mode. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	return c.run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Mode returns the name of the selected mode, or an empty string if none was
// selected.
func (c *CLI) Mode() string {
	switch {
	case c.Verify:
		return "verify"
	case c.Apply:
		return "apply"
	case c.Print:
		return "print"
	case c.Output != "":
		return "output"
	case c.Summary:
		return "summary"
	}
	return ""
}
