package context

import (
	"context"
	"io"
	"log/slog"

	"github.com/mandelsoft/vfs/pkg/vfs"

	ftypes "go.hackfix.me/yipt/firewall/types"
)

// Context contains common objects used by the application. It is passed around
// the application to avoid direct dependencies on external systems, and make
// testing easier.
type Context struct {
	Ctx    context.Context // global context
	FS     vfs.FileSystem  // filesystem
	Logger *slog.Logger    // global logger

	// Loader overrides the loader created from CLI options, if set.
	Loader ftypes.Loader
	// Hostname returns the identifier of the local host.
	Hostname func() (string, error)

	// Standard streams
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Metadata
	Version *VersionInfo
}
