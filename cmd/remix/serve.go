package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/remixgo/remix"
	"github.com/remixgo/remix/internal/config"
	"github.com/remixgo/remix/internal/reload"
	"github.com/remixgo/remix/pkg/assets"
	"github.com/remixgo/remix/pkg/routes"
	"github.com/remixgo/remix/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application in production mode",
		Long: `Serve the application: the route tree and asset manifest are
built once at startup and shared, immutably, by every request.

Examples:
  remix serve
  remix serve --port=8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from remix.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from remix.json)")

	return cmd
}

func runServe(port int, host string) error {
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

	snaps := reload.New(snapshotBuilder(cfg))
	if _, err := snaps.Rebuild(context.Background()); err != nil {
		return err
	}

	app, err := remix.New(remix.Config{
		Source:   snaps,
		Renderer: debugRenderer(),
		Metrics:  true,
	})
	if err != nil {
		return err
	}
	mountStatic(app, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	success("serving %s on http://%s", cfg.Name, addr)
	return app.ListenAndServe(addr)
}

// snapshotBuilder assembles a snapshot from the configured routes
// directory and asset manifest source.
func snapshotBuilder(cfg *config.Config) reload.BuildFunc {
	routesDir := filepath.Join(cfg.Dir(), cfg.RoutesDir)
	source := assetSource(cfg)

	return func(ctx context.Context) (*server.Snapshot, error) {
		scanner := routes.NewScanner(routesDir, nil)
		tree, err := scanner.Scan()
		if err != nil {
			return nil, err
		}

		snap := &server.Snapshot{Tree: tree}
		if source != nil {
			manifest, err := source.Load(ctx)
			if err != nil {
				// Manifest queries degrade to an empty patch; page
				// requests will report the missing manifest as fatal.
				info("asset manifest unavailable: %v", err)
			} else {
				snap.Assets = manifest
			}
		}
		return snap, nil
	}
}

// assetSource picks the manifest source from configuration: dev server,
// S3 object, or local file.
func assetSource(cfg *config.Config) assets.Source {
	switch {
	case cfg.Assets.DevServer != "":
		return assets.DevSource{URL: cfg.Assets.DevServer}
	case cfg.Assets.S3.Bucket != "":
		client := s3.New(s3.Options{Region: cfg.Assets.S3.Region})
		return assets.S3Source{Client: client, Bucket: cfg.Assets.S3.Bucket, Key: cfg.Assets.S3.Key}
	case cfg.Assets.Manifest != "":
		return assets.FileSource{Path: filepath.Join(cfg.Dir(), cfg.Assets.Manifest)}
	default:
		return nil
	}
}

// mountStatic serves the public directory next to the dispatcher.
func mountStatic(app *remix.App, cfg *config.Config) {
	dir := filepath.Join(cfg.Dir(), cfg.PublicDir)
	fileServer := http.StripPrefix("/public/", http.FileServer(http.Dir(dir)))
	app.Mount("/public/*", fileServer)
}
