package loader

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Task pairs a chain position with the loader to run for it. Loader may
// be nil when the route has none; the position then collects "no result"
// immediately.
type Task struct {
	RouteID string
	Loader  Loader
	Params  map[string]string
}

// Collected is the outcome of one loader at one chain position.
// Exactly one of Result and Err is meaningful: Err non-nil marks a
// failed position, otherwise Result is the loader's response (nil when
// the loader declined to produce one).
type Collected struct {
	RouteID string
	Result  *Result
	Err     error
}

// Outcome holds everything the orchestrator collected for one request.
// Routes is aligned 1:1 with the tasks (and therefore the match chain)
// it was given.
type Outcome struct {
	Global Collected
	Routes []Collected
}

// Combined returns the fixed scan order used by redirect and status
// precedence: the global result first, then route results in chain
// order.
func (o *Outcome) Combined() []Collected {
	combined := make([]Collected, 0, len(o.Routes)+1)
	combined = append(combined, o.Global)
	return append(combined, o.Routes...)
}

// FirstFailure returns the first failed position in collected order.
// The returned route id is empty when the global loader failed.
func (o *Outcome) FirstFailure() (routeID string, err error, ok bool) {
	for _, c := range o.Combined() {
		if c.Err != nil {
			return c.RouteID, c.Err, true
		}
	}
	return "", nil, false
}

// ResultFor returns the collected result for a route id.
func (o *Outcome) ResultFor(routeID string) *Result {
	for _, c := range o.Routes {
		if c.RouteID == routeID {
			return c.Result
		}
	}
	return nil
}

// Run starts the global loader and every task's loader concurrently,
// then collects results in declared order: global first, then tasks
// 0..N-1. A slow loader never reorders results, and a failed loader
// never aborts its siblings; the failure is recorded for its position
// and every remaining loader is still awaited before Run returns.
// There is no cancellation: once started, a loader runs to completion
// even if an earlier-ordered result already decided the response.
//
// Every failure is logged with the offending route id.
func Run(ctx context.Context, global Loader, tasks []Task, args Args, log *slog.Logger) *Outcome {
	if log == nil {
		log = slog.Default()
	}

	pending := make([]chan Collected, len(tasks)+1)
	for i := range pending {
		pending[i] = make(chan Collected, 1)
	}

	start := func(ch chan Collected, routeID string, l Loader, args Args) {
		go func() {
			ch <- invoke(ctx, routeID, l, args)
		}()
	}

	start(pending[0], "", global, args)
	for i, t := range tasks {
		taskArgs := args
		taskArgs.Params = t.Params
		start(pending[i+1], t.RouteID, t.Loader, taskArgs)
	}

	// Join by index, not by completion signal.
	out := &Outcome{Routes: make([]Collected, len(tasks))}
	out.Global = <-pending[0]
	for i := range tasks {
		out.Routes[i] = <-pending[i+1]
	}

	for _, c := range out.Combined() {
		if c.Err != nil {
			id := c.RouteID
			if id == "" {
				id = "global"
			}
			log.Error("loader failed", "route", id, "error", c.Err)
		}
	}
	return out
}

// RunOne runs a single route's loader, used by the data endpoint.
// The global loader is not invoked.
func RunOne(ctx context.Context, routeID string, l Loader, args Args, log *slog.Logger) Collected {
	if log == nil {
		log = slog.Default()
	}
	c := invoke(ctx, routeID, l, args)
	if c.Err != nil {
		log.Error("loader failed", "route", routeID, "error", c.Err)
	}
	return c
}

// invoke runs one loader, converting a panic into a failed position and
// normalizing a zero status to 200.
func invoke(ctx context.Context, routeID string, l Loader, args Args) (c Collected) {
	c.RouteID = routeID
	if l == nil {
		return c
	}
	defer func() {
		if r := recover(); r != nil {
			c.Result = nil
			c.Err = fmt.Errorf("loader panic: %v", r)
		}
	}()
	c.Result, c.Err = l.Load(ctx, args)
	if c.Result != nil && c.Result.Status == 0 {
		c.Result.Status = http.StatusOK
	}
	return c
}
