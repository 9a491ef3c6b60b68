package remix

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/remixgo/remix/pkg/middleware"
	"github.com/remixgo/remix/pkg/server"
)

// =============================================================================
// App Type
// =============================================================================

// App is the main application entry point. It wraps the request
// dispatcher and the optional metrics and tracing middleware into a
// single http.Handler.
type App struct {
	handler *server.Handler
	mux     chi.Router
	config  Config
	logger  *slog.Logger
}

// New creates a new application with the given configuration.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	source := cfg.Source
	if source == nil {
		if cfg.Tree == nil {
			return nil, fmt.Errorf("remix: Config.Tree or Config.Source is required")
		}
		snap := &server.Snapshot{Tree: cfg.Tree, Version: "static"}
		if cfg.Assets != nil {
			manifest, err := cfg.Assets.Load(context.Background())
			if err != nil {
				// Tolerated at startup: manifest queries degrade to an
				// empty patch, page requests report it as fatal.
				logger.Warn("asset manifest unavailable", "error", err)
			} else {
				snap.Assets = manifest
			}
		}
		source = server.StaticSource(snap)
	}

	handler, err := server.New(server.Config{
		Source:       source,
		Renderer:     cfg.Renderer,
		GlobalLoader: cfg.GlobalLoader,
		AppContext:   cfg.AppContext,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	mux := chi.NewRouter()
	if cfg.Tracing {
		mux.Use(middleware.Tracing())
	}
	if cfg.Metrics {
		mux.Use(middleware.Metrics())
		mux.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}
	mux.Handle("/*", handler)

	return &App{handler: handler, mux: mux, config: cfg, logger: logger}, nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Handler returns the bare dispatcher without middleware, for mounting
// under another router.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Mount attaches extra handlers (static files, live-reload sockets)
// next to the dispatcher.
func (a *App) Mount(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// ListenAndServe serves the app on addr.
func (a *App) ListenAndServe(addr string) error {
	a.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, a)
}
