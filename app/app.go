package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	actx "go.hackfix.me/yipt/app/context"
	"go.hackfix.me/yipt/cli"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application.
func New(name string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:      context.Background(),
		FS:       memoryfs.New(),
		Logger:   slog.Default(),
		Hostname: os.Hostname,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Version:  version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(app.ctx, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run parses the command line arguments and runs the selected mode. No policy
// is read or compiled if the arguments are invalid.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
	}

	app.ctx.Logger.Debug("running", "mode", app.cli.Mode(), "version", app.ctx.Version.Semantic)

	return app.cli.Execute(app.ctx)
}
