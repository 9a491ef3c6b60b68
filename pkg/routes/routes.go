// Package routes defines the nested route tree and the pathname matcher.
//
// A route tree is built once, at startup, from the builder API or the
// file-convention scanner, and is never mutated afterwards. Requests see
// the tree through an immutable snapshot, so matching needs no locks.
//
//	tree := routes.New()
//	gists := tree.Route("routes/gists", "gists",
//	    routes.WithLoader(gistsLoader),
//	    routes.WithHeaders(gistsHeaders),
//	)
//	gists.Route("routes/gists/index", "/", routes.WithComponent(gistsIndex))
//	gists.Route("routes/gists/$username", ":username", routes.WithComponent(gistsShow))
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/remixgo/remix/pkg/loader"
)

// Reserved route ids substituted into the render plan when matching or
// loading fails. Applications may register routes under these ids to
// customize the not-found and server-error pages.
const (
	NotFoundID    = "routes/404"
	ServerErrorID = "routes/500"
)

// Component is an opaque handle to whatever the render collaborator uses
// to draw a route. The core never inspects it.
type Component any

// HeadersArgs is passed to a route's header contributor.
type HeadersArgs struct {
	// LoaderHeaders are the headers from this route's own loader result,
	// or an empty set if the loader produced none.
	LoaderHeaders http.Header

	// ParentHeaders is the accumulated header set contributed by
	// ancestor routes so far. Read-only.
	ParentHeaders http.Header
}

// Headerer is the optional per-route capability to contribute response
// headers for the route's subtree. Returned headers overwrite same-named
// keys in the accumulated set; keys the contributor does not set are left
// alone. A route without this capability contributes nothing, and its
// loader headers do not propagate on their own.
type Headerer interface {
	Headers(args HeadersArgs) (http.Header, error)
}

// HeadersFunc adapts a function to the Headerer interface.
type HeadersFunc func(args HeadersArgs) (http.Header, error)

// Headers implements Headerer.
func (f HeadersFunc) Headers(args HeadersArgs) (http.Header, error) { return f(args) }

// Route is a single node in the route tree.
//
// Path is the pattern for the segments this route itself consumes:
// static segments, ":name" dynamic segments, a terminal "*" catch-all,
// or exactly "/" for an index route that matches only when the parent
// has consumed the whole pathname.
type Route struct {
	ID       string
	Path     string
	ParentID string

	// Children in declaration order. Order is significant: it is the
	// tie-break between siblings of equal pattern specificity.
	Children []*Route

	Component  Component
	Loader     loader.Loader
	Headerer   Headerer
	StylesHref string

	tree *Tree
}

// Tree is an immutable-after-construction route tree.
type Tree struct {
	roots []*Route
	byID  map[string]*Route
}

// New creates an empty route tree.
func New() *Tree {
	return &Tree{byID: make(map[string]*Route)}
}

// Option configures a route at registration time.
type Option func(*Route)

// WithComponent sets the route's component handle.
func WithComponent(c Component) Option {
	return func(r *Route) { r.Component = c }
}

// WithLoader sets the route's loader.
func WithLoader(l loader.Loader) Option {
	return func(r *Route) { r.Loader = l }
}

// WithHeaders sets the route's header contributor. The capability is
// bound here, at registration time, not discovered per request.
func WithHeaders(h Headerer) Option {
	return func(r *Route) { r.Headerer = h }
}

// WithHeadersFunc sets the route's header contributor from a function.
func WithHeadersFunc(f func(HeadersArgs) (http.Header, error)) Option {
	return func(r *Route) { r.Headerer = HeadersFunc(f) }
}

// WithStyles sets the href of the route's stylesheet.
func WithStyles(href string) Option {
	return func(r *Route) { r.StylesHref = href }
}

// Route registers a top-level route.
// It panics on a duplicate id or an invalid pattern; both are
// registration-time programmer errors.
func (t *Tree) Route(id, pattern string, opts ...Option) *Route {
	return t.add(nil, id, pattern, opts)
}

// Route registers a child route under r.
func (r *Route) Route(id, pattern string, opts ...Option) *Route {
	return r.tree.add(r, id, pattern, opts)
}

func (t *Tree) add(parent *Route, id, pattern string, opts []Option) *Route {
	if id == "" {
		panic("routes: empty route id")
	}
	if _, exists := t.byID[id]; exists {
		panic(fmt.Sprintf("routes: duplicate route id %q", id))
	}
	if err := validatePattern(pattern); err != nil {
		panic(fmt.Sprintf("routes: route %q: %v", id, err))
	}

	route := &Route{ID: id, Path: pattern, tree: t}
	for _, opt := range opts {
		opt(route)
	}
	if parent != nil {
		route.ParentID = parent.ID
		parent.Children = append(parent.Children, route)
	} else {
		t.roots = append(t.roots, route)
	}
	t.byID[id] = route
	return route
}

// Lookup returns the route registered under id.
func (t *Tree) Lookup(id string) (*Route, bool) {
	r, ok := t.byID[id]
	return r, ok
}

// Roots returns the top-level routes in declaration order.
func (t *Tree) Roots() []*Route { return t.roots }

// Len returns the number of registered routes.
func (t *Tree) Len() int { return len(t.byID) }

// Walk visits every route depth-first in declaration order.
func (t *Tree) Walk(visit func(r *Route)) {
	var walk func(rs []*Route)
	walk = func(rs []*Route) {
		for _, r := range rs {
			visit(r)
			walk(r.Children)
		}
	}
	walk(t.roots)
}

// ManifestEntry is the flattened, wire-level form of a route, served by
// the manifest endpoint for a matched chain.
type ManifestEntry struct {
	ID         string `json:"id"`
	ParentID   string `json:"parentId,omitempty"`
	Path       string `json:"path"`
	HasLoader  bool   `json:"hasLoader"`
	StylesHref string `json:"stylesHref,omitempty"`
}

// Manifest flattens a route into its wire form.
func (r *Route) Manifest() ManifestEntry {
	return ManifestEntry{
		ID:         r.ID,
		ParentID:   r.ParentID,
		Path:       r.Path,
		HasLoader:  r.Loader != nil,
		StylesHref: r.StylesHref,
	}
}

// validatePattern rejects patterns the matcher cannot evaluate.
func validatePattern(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("empty pattern (use %q for an index route)", "/")
	}
	if pattern == "/" || pattern == "*" {
		return nil
	}
	segs := splitSegments(pattern)
	if len(segs) == 0 {
		return fmt.Errorf("pattern %q has no segments", pattern)
	}
	for i, seg := range segs {
		switch {
		case seg == "":
			return fmt.Errorf("pattern %q has an empty segment", pattern)
		case strings.HasPrefix(seg, "*"):
			if i != len(segs)-1 {
				return fmt.Errorf("pattern %q: catch-all must be the last segment", pattern)
			}
		case strings.HasPrefix(seg, ":"):
			if len(seg) == 1 {
				return fmt.Errorf("pattern %q has an unnamed dynamic segment", pattern)
			}
		}
	}
	return nil
}

// splitSegments splits a pathname or pattern into its slash-delimited
// segments, ignoring leading and trailing slashes.
func splitSegments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
