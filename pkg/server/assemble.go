package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/remixgo/remix/pkg/loader"
	"github.com/remixgo/remix/pkg/routes"
)

// Assembly is the response assembler's verdict for a page request.
type Assembly struct {
	// Redirect, when non-nil, short-circuits everything else: the
	// response is this result, unmodified, and Status and Headers are
	// not meaningful.
	Redirect *loader.Result

	Status  int
	Headers http.Header
}

// Assemble consumes the collected loader results for a match chain and
// decides the response shape.
//
// Precedence, in order:
//  1. The first redirect (301 or 302) in [global, route 0..N-1] scan
//     order wins outright, before any header merge and ahead of error
//     statuses.
//  2. Otherwise the first non-200 status in the same order becomes the
//     response status; with none, baseStatus (200 for page plans, the
//     dispatcher-synthesized status for substituted plans).
//  3. Headers fold over the chain root to leaf through each route's
//     header contributor; contributed keys overwrite same-named keys in
//     the accumulator. A contributor failure is logged and swallowed,
//     never failing the response.
func Assemble(chain []*routes.RouteMatch, out *loader.Outcome, baseStatus int, log *slog.Logger) *Assembly {
	if log == nil {
		log = slog.Default()
	}
	if baseStatus == 0 {
		baseStatus = http.StatusOK
	}
	if out == nil {
		return &Assembly{Status: baseStatus, Headers: mergeHeaders(chain, nil, log)}
	}

	for _, c := range out.Combined() {
		if c.Result.IsRedirect() {
			return &Assembly{Redirect: c.Result}
		}
	}

	status := baseStatus
	for _, c := range out.Combined() {
		if c.Result != nil && c.Result.Status != http.StatusOK {
			status = c.Result.Status
			break
		}
	}

	return &Assembly{Status: status, Headers: mergeHeaders(chain, out, log)}
}

// mergeHeaders folds the chain root to leaf through each route's header
// contributor. A route's own loader headers are handed to its
// contributor; they reach descendants only through the accumulator
// after that contributor has run. A route with a loader but no
// contributor propagates nothing: opt-in, not inheritance.
func mergeHeaders(chain []*routes.RouteMatch, out *loader.Outcome, log *slog.Logger) http.Header {
	acc := make(http.Header)
	for _, m := range chain {
		if m.Route == nil || m.Route.Headerer == nil {
			continue
		}

		loaderHeaders := make(http.Header)
		if out != nil {
			if res := out.ResultFor(m.Route.ID); res != nil && res.Headers != nil {
				loaderHeaders = res.Headers
			}
		}

		contributed, err := contribute(m.Route.Headerer, routes.HeadersArgs{
			LoaderHeaders: loaderHeaders,
			ParentHeaders: acc,
		})
		if err != nil {
			log.Error("headers contribution failed", "route", m.Route.ID, "error", err)
			continue
		}
		for key, values := range contributed {
			acc[http.CanonicalHeaderKey(key)] = values
		}
	}
	return acc
}

// contribute invokes a header contributor, converting a panic into an
// error so a broken contributor cannot take down the response.
func contribute(h routes.Headerer, args routes.HeadersArgs) (hdrs http.Header, err error) {
	defer func() {
		if r := recover(); r != nil {
			hdrs = nil
			err = fmt.Errorf("headers panic: %v", r)
		}
	}()
	return h.Headers(args)
}
