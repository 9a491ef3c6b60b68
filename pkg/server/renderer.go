package server

import (
	"context"
	"net/url"

	"github.com/remixgo/remix/pkg/assets"
	"github.com/remixgo/remix/pkg/loader"
	"github.com/remixgo/remix/pkg/routes"
)

// PlanKind discriminates the render plan variants.
type PlanKind int

const (
	// PlanPage renders the real matched chain.
	PlanPage PlanKind = iota

	// PlanNotFound renders the reserved not-found route.
	PlanNotFound

	// PlanError renders the reserved server-error route. The real match
	// chain, if any, has been discarded entirely: a tree where any
	// loader failed is never partially rendered.
	PlanError
)

// String returns the plan kind name.
func (k PlanKind) String() string {
	switch k {
	case PlanPage:
		return "page"
	case PlanNotFound:
		return "not-found"
	case PlanError:
		return "error"
	default:
		return "unknown"
	}
}

// Plan is what the dispatcher decided to render. It is a tagged variant:
// error substitution produces a new plan with a synthetic single-route
// chain rather than mutating the original one.
type Plan struct {
	Kind    PlanKind
	Matches []*routes.RouteMatch

	// Status is the dispatcher-synthesized status for NotFound and
	// Error plans. Zero for page plans, where the assembler decides.
	Status int

	// Cause is the loader failure behind an Error plan.
	Cause error
}

// RenderInput is everything the render collaborator receives for a page
// request.
type RenderInput struct {
	Plan *Plan

	// Outcome holds the collected loader results. Nil when no loaders
	// ran (a synthetic not-found plan with no registered route).
	Outcome *loader.Outcome

	// Status is the final response status code.
	Status int

	// Assets is the manifest filtered to the plan's chain.
	Assets *assets.Manifest

	// URL is the request URL.
	URL *url.URL
}

// Renderer turns a render plan into markup. Rendering itself is outside
// the core; tests and the CLI provide trivial implementations.
type Renderer interface {
	Render(ctx context.Context, in *RenderInput) ([]byte, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, in *RenderInput) ([]byte, error)

// Render implements Renderer.
func (f RendererFunc) Render(ctx context.Context, in *RenderInput) ([]byte, error) {
	return f(ctx, in)
}
