// Package remix serves HTML pages and JSON data for a nested,
// file-system-derived route tree.
//
// Every page request runs one global loader plus one loader per matched
// route, all started concurrently, with results collected in route
// order. The assembled response honors redirect precedence, picks the
// first non-200 status, and merges per-route header contributions from
// root to leaf.
//
// This is the recommended import for most applications:
//
//	import "github.com/remixgo/remix"
//
// Usage:
//
//	tree := routes.New()
//	gists := tree.Route("routes/gists", "gists", routes.WithLoader(gistsLoader))
//	gists.Route("routes/gists/index", "/", routes.WithComponent(gistsIndex))
//	gists.Route("routes/gists/$username", ":username", routes.WithComponent(gistsShow))
//
//	app, err := remix.New(remix.Config{
//	    Tree:     tree,
//	    Assets:   assets.FileSource{Path: "public/build/manifest.json"},
//	    Renderer: myRenderer,
//	})
//	http.ListenAndServe(":3000", app)
package remix

import (
	"github.com/remixgo/remix/pkg/loader"
	"github.com/remixgo/remix/pkg/routes"
	"github.com/remixgo/remix/pkg/server"
)

// =============================================================================
// Re-exports (the common surface, so most apps import only this package)
// =============================================================================

// Tree is the nested route tree.
type Tree = routes.Tree

// Route is a single node in the route tree.
type Route = routes.Route

// NewTree creates an empty route tree.
var NewTree = routes.New

// Loader fetches the data a route needs to render.
type Loader = loader.Loader

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc = loader.Func

// LoadResult is a loader's custom HTTP response.
type LoadResult = loader.Result

// Redirect builds a redirect loader result.
var Redirect = loader.Redirect

// Renderer is the render collaborator for page requests.
type Renderer = server.Renderer

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc = server.RendererFunc

// RenderInput is what the renderer receives for a page request.
type RenderInput = server.RenderInput

// Plan is the dispatcher's render plan, a tagged variant.
type Plan = server.Plan

// Plan kinds.
const (
	PlanPage     = server.PlanPage
	PlanNotFound = server.PlanNotFound
	PlanError    = server.PlanError
)

// Reserved route ids for the synthesized not-found and server-error
// pages.
const (
	NotFoundID    = routes.NotFoundID
	ServerErrorID = routes.ServerErrorID
)
