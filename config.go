package remix

import (
	"log/slog"

	"github.com/remixgo/remix/pkg/assets"
	"github.com/remixgo/remix/pkg/loader"
	"github.com/remixgo/remix/pkg/server"
)

// Config configures a remix application.
type Config struct {
	// Tree is the route tree, built in code or by the file-convention
	// scanner. Required unless Source is set.
	Tree *Tree

	// Assets is where the asset manifest comes from. With a nil source
	// (or a source that fails), manifest queries degrade to an empty
	// patch and page requests fail; in development that is the window
	// before the asset dev server is up.
	Assets assets.Source

	// Source overrides Tree/Assets with a custom snapshot source, such
	// as the development reloader. When set, Tree and Assets are
	// ignored.
	Source server.SnapshotSource

	// Renderer is the render collaborator for page requests. Required.
	Renderer Renderer

	// GlobalLoader runs alongside per-route loaders for every page
	// request. Optional.
	GlobalLoader loader.Loader

	// AppContext is passed to every loader as Args.Context. Optional.
	AppContext any

	// Logger receives loader and header-contribution failures.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics enables the Prometheus request middleware.
	Metrics bool

	// Tracing enables the OpenTelemetry request middleware.
	Tracing bool
}
