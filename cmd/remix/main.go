package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remixgo/remix/internal/errdefs"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "remix",
		Short: "Serve nested routes with per-route data loaders",
		Long: `remix serves HTML pages and JSON data for a nested,
file-system-derived route tree.

Each page request matches the URL against the route tree, runs every
matched route's loader concurrently, and assembles a single response
with redirect precedence and per-route header merging.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		devCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		var structured *errdefs.Error
		if errors.As(err, &structured) {
			fmt.Fprintln(os.Stderr, structured.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("\033[36m•\033[0m %s\n", fmt.Sprintf(format, args...))
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
