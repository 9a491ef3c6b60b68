// Package server dispatches HTTP requests against a route tree: it
// classifies each request (manifest query, data query, or page request),
// runs the matcher and the loader orchestrator, assembles the response,
// and hands page plans to the render collaborator.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/remixgo/remix/pkg/loader"
	"github.com/remixgo/remix/pkg/middleware"
	"github.com/remixgo/remix/pkg/routes"
)

// Well-known dispatcher paths. Anything else is a page request.
const (
	ManifestPath = "/__remix_manifest"
	DataPath     = "/__remix_data"
)

// Config configures the request dispatcher.
type Config struct {
	// Source provides the per-request snapshot of tree and assets.
	Source SnapshotSource

	// Renderer is the render collaborator for page requests.
	Renderer Renderer

	// GlobalLoader, when set, runs alongside per-route loaders for
	// every page request. It is not tied to any route and is skipped by
	// data queries.
	GlobalLoader loader.Loader

	// AppContext is handed to every loader as Args.Context.
	AppContext any

	// Logger receives loader and contributor failures. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Handler is the top-level request dispatcher.
type Handler struct {
	source   SnapshotSource
	renderer Renderer
	global   loader.Loader
	appCtx   any
	log      *slog.Logger
	mux      chi.Router
}

// New creates the dispatcher. Source and Renderer are required.
func New(cfg Config) (*Handler, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("server: Config.Source is required")
	}
	if cfg.Renderer == nil {
		return nil, fmt.Errorf("server: Config.Renderer is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{
		source:   cfg.Source,
		renderer: cfg.Renderer,
		global:   cfg.GlobalLoader,
		appCtx:   cfg.AppContext,
		log:      log,
	}

	mux := chi.NewRouter()
	mux.Get(ManifestPath, h.serveManifest)
	mux.Get(DataPath, h.serveData)
	mux.NotFound(h.servePage)
	h.mux = mux
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// =============================================================================
// Manifest query
// =============================================================================

// manifestResponse is the JSON body for a manifest query.
type manifestResponse struct {
	Assets map[string][]string    `json:"assets"`
	Routes []routes.ManifestEntry `json:"routes"`
}

// serveManifest handles GET /__remix_manifest?url=<url>. It runs only
// the matcher, never loaders, and responds with the asset manifest and
// flattened route manifest filtered to the matched chain.
func (h *Handler) serveManifest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSONError(w, http.StatusForbidden, "missing required `url` parameter")
		return
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		writeJSONError(w, http.StatusForbidden, "invalid `url` parameter")
		return
	}

	snap, err := h.source.Snapshot(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	chain, ok := routes.Match(snap.Tree, target.Path)
	if !ok {
		middleware.CountNoMatch()
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no routes matched %q", target.Path))
		return
	}

	ids := make([]string, len(chain))
	entries := make([]routes.ManifestEntry, len(chain))
	for i, m := range chain {
		ids[i] = m.Route.ID
		entries[i] = m.Route.Manifest()
	}

	// A missing dev asset manifest is an empty patch here, not an error.
	filtered := map[string][]string{}
	if snap.Assets != nil {
		filtered = snap.Assets.FilterTo(ids).All()
	}

	writeJSON(w, http.StatusOK, manifestResponse{Assets: filtered, Routes: entries})
}

// =============================================================================
// Data query
// =============================================================================

// serveData handles GET /__remix_data?url=<url>&id=<routeId>&params=<json>.
// It runs exactly one route's loader; the global loader is not invoked.
// A loader fault is propagated as a failed response for this query only.
func (h *Handler) serveData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	rawURL := query.Get("url")
	if rawURL == "" {
		writeJSONError(w, http.StatusForbidden, "missing required `url` parameter")
		return
	}
	routeID := query.Get("id")
	if routeID == "" {
		writeJSONError(w, http.StatusForbidden, "missing required `id` parameter")
		return
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		writeJSONError(w, http.StatusForbidden, "invalid `url` parameter")
		return
	}

	params := map[string]string{}
	if raw := query.Get("params"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			writeJSONError(w, http.StatusForbidden, "invalid `params` parameter")
			return
		}
	}

	snap, err := h.source.Snapshot(ctx)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	route, ok := snap.Tree.Lookup(routeID)
	if !ok {
		writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no route with id %q", routeID))
		return
	}

	args := loader.Args{Params: params, URL: target, Context: h.appCtx}
	collected := loader.RunOne(ctx, routeID, route.Loader, args, h.log)
	if collected.Err != nil {
		middleware.CountLoaderFailure(routeID)
		writeJSONError(w, http.StatusInternalServerError, collected.Err.Error())
		return
	}

	res := collected.Result
	if res == nil {
		// The loader declined to produce a response.
		writeJSON(w, http.StatusOK, nil)
		return
	}

	copyHeaders(w.Header(), res.Headers)
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(res.Status)
	writeBody(w, res.Body)
}

// =============================================================================
// Page pipeline
// =============================================================================

// servePage runs the full pipeline: matcher, loader orchestrator,
// response assembler, render collaborator.
func (h *Handler) servePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	snap, err := h.source.Snapshot(ctx)
	if err != nil {
		h.log.Error("snapshot unavailable", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	plan, outcome := h.plan(ctx, snap, r.URL)

	assembly := Assemble(plan.Matches, outcome, plan.Status, h.log)
	if assembly.Redirect != nil {
		// Returned unmodified as the final response; nothing renders.
		copyHeaders(w.Header(), assembly.Redirect.Headers)
		w.WriteHeader(assembly.Redirect.Status)
		return
	}

	// A page cannot be assembled without an asset manifest; unlike
	// manifest queries, this is fatal.
	if snap.Assets == nil {
		h.log.Error("asset manifest unavailable", "url", r.URL.Path)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ids := make([]string, len(plan.Matches))
	for i, m := range plan.Matches {
		ids[i] = m.Route.ID
	}

	body, err := h.renderer.Render(ctx, &RenderInput{
		Plan:    plan,
		Outcome: outcome,
		Status:  assembly.Status,
		Assets:  snap.Assets.FilterTo(ids),
		URL:     r.URL,
	})
	if err != nil {
		h.log.Error("render failed", "url", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	copyHeaders(w.Header(), assembly.Headers)
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	w.WriteHeader(assembly.Status)
	w.Write(body)
}

// plan matches the URL and runs loaders, deciding which render plan
// variant this request gets.
func (h *Handler) plan(ctx context.Context, snap *Snapshot, target *url.URL) (*Plan, *loader.Outcome) {
	chain, ok := routes.Match(snap.Tree, target.Path)
	if !ok {
		middleware.CountNoMatch()
		return h.syntheticPlan(ctx, snap, target, PlanNotFound, routes.NotFoundID, http.StatusNotFound, nil)
	}

	tasks := make([]loader.Task, len(chain))
	for i, m := range chain {
		tasks[i] = loader.Task{RouteID: m.Route.ID, Loader: m.Route.Loader, Params: m.Params}
	}
	args := loader.Args{URL: target, Context: h.appCtx}
	outcome := loader.Run(ctx, h.global, tasks, args, h.log)

	// Redirects preempt everything, failures included.
	for _, c := range outcome.Combined() {
		if c.Result.IsRedirect() {
			return &Plan{Kind: PlanPage, Matches: chain}, outcome
		}
	}

	if routeID, cause, failed := outcome.FirstFailure(); failed {
		middleware.CountLoaderFailure(routeID)
		// The whole real chain is discarded: a tree with any failed
		// loader is never partially rendered.
		return h.syntheticPlan(ctx, snap, target, PlanError, routes.ServerErrorID, http.StatusInternalServerError, cause)
	}

	return &Plan{Kind: PlanPage, Matches: chain}, outcome
}

// syntheticPlan builds the single-element chain for a reserved route.
// If the application registered a route under the reserved id, its
// loader (alone, without the global loader) runs for the plan; a bare
// synthetic route runs none.
func (h *Handler) syntheticPlan(ctx context.Context, snap *Snapshot, target *url.URL, kind PlanKind, routeID string, status int, cause error) (*Plan, *loader.Outcome) {
	route, registered := snap.Tree.Lookup(routeID)
	if !registered {
		route = &routes.Route{ID: routeID, Path: "/"}
	}

	params := map[string]string{}
	if cause != nil {
		params["error"] = cause.Error()
	}
	plan := &Plan{
		Kind:    kind,
		Matches: []*routes.RouteMatch{{Route: route, Params: params, Pathname: target.Path}},
		Status:  status,
		Cause:   cause,
	}

	var outcome *loader.Outcome
	if registered && route.Loader != nil {
		tasks := []loader.Task{{RouteID: route.ID, Loader: route.Loader, Params: params}}
		outcome = loader.Run(ctx, nil, tasks, loader.Args{URL: target, Context: h.appCtx}, h.log)
	}
	return plan, outcome
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeBody writes a loader body: raw bytes and strings as-is,
// everything else JSON-encoded.
func writeBody(w http.ResponseWriter, body any) {
	switch b := body.(type) {
	case nil:
		w.Write([]byte("null"))
	case []byte:
		w.Write(b)
	case string:
		w.Write([]byte(b))
	default:
		json.NewEncoder(w).Encode(b)
	}
}

func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		dst[http.CanonicalHeaderKey(key)] = values
	}
}
