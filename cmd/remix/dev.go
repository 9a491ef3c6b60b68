package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remixgo/remix"
	"github.com/remixgo/remix/internal/config"
	"github.com/remixgo/remix/internal/reload"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server.

The dev server watches the routes directory, rebuilds the route tree
and asset manifest into a fresh snapshot on every change, and refreshes
connected browsers over WebSocket. In-flight requests keep the snapshot
they started with; nothing ever observes a half-rebuilt tree.

Examples:
  remix dev
  remix dev --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from remix.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from remix.json)")

	return cmd
}

func runDev(port int, host string) error {
	cfg, err := config.Find(".")
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Port = port
	}
	if host != "" {
		cfg.Host = host
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snaps := reload.New(snapshotBuilder(cfg))
	if _, err := snaps.Rebuild(ctx); err != nil {
		return err
	}

	app, err := remix.New(remix.Config{
		Source:   snaps,
		Renderer: debugRenderer(),
	})
	if err != nil {
		return err
	}
	mountStatic(app, cfg)

	broadcaster := reload.NewBroadcaster()
	if cfg.Dev.HotReloadEnabled() {
		app.Mount("/__remix_reload", http.HandlerFunc(broadcaster.HandleWebSocket))
	}

	watchPaths := make([]string, len(cfg.Dev.Watch))
	for i, p := range cfg.Dev.Watch {
		watchPaths[i] = filepath.Join(cfg.Dir(), p)
	}
	watcher := reload.NewWatcher(reload.WatcherConfig{
		Paths:  watchPaths,
		Ignore: append(reload.DefaultIgnore, cfg.Dev.Ignore...),
	})
	watcher.OnChange(func(change reload.Change) {
		info("changed: %s", change.Path)
		snap, err := snaps.Rebuild(ctx)
		if err != nil {
			broadcaster.NotifyError(err.Error())
			return
		}
		broadcaster.ClearError()
		broadcaster.NotifyReload(snap.Version)
		success("reloaded %d client(s)", broadcaster.ClientCount())
	})

	go watcher.Start(ctx)
	defer watcher.Stop()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	success("dev server on http://%s", addr)
	return app.ListenAndServe(addr)
}
