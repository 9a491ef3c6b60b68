// Package loader defines per-route data loaders and the orchestrator
// that runs them for a request.
//
// A loader fetches the data one route needs to render, independent of
// every other route's loader. The orchestrator starts the global loader
// and all per-route loaders eagerly, then joins them strictly in route
// declaration order, so result ordering is structural rather than
// timing-dependent.
package loader

import (
	"context"
	"net/http"
	"net/url"
)

// Args carries the read-only inputs a loader receives. Loaders share no
// mutable state; they return a value instead of mutating anything.
type Args struct {
	// Params are the route parameters extracted by the matcher.
	Params map[string]string

	// URL is the request URL being loaded.
	URL *url.URL

	// Context is the application-supplied value shared by every loader
	// in the process (database handles, API clients, and so on).
	Context any
}

// Result is a loader's custom HTTP response: status, headers, and an
// opaque body for the render collaborator. A nil *Result means the
// loader declined to produce a custom response and default rendering
// proceeds.
type Result struct {
	Status  int
	Headers http.Header
	Body    any
}

// IsRedirect reports whether the result is a redirect response.
func (r *Result) IsRedirect() bool {
	return r != nil && (r.Status == http.StatusMovedPermanently || r.Status == http.StatusFound)
}

// Location returns the redirect target, if any.
func (r *Result) Location() string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get("Location")
}

// Loader fetches the data a route needs. Implementations typically do
// I/O and should honor ctx for deadlines imposed by the host; the core
// itself enforces none and never cancels a started loader.
type Loader interface {
	Load(ctx context.Context, args Args) (*Result, error)
}

// Func adapts a function to the Loader interface.
type Func func(ctx context.Context, args Args) (*Result, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context, args Args) (*Result, error) { return f(ctx, args) }

// Redirect builds a redirect result for the given status and location.
func Redirect(status int, location string) *Result {
	h := make(http.Header)
	h.Set("Location", location)
	return &Result{Status: status, Headers: h}
}

// JSON builds a 200 result carrying body with a JSON content type.
func JSON(body any) *Result {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return &Result{Status: http.StatusOK, Headers: h, Body: body}
}
