package server

import (
	"context"

	"github.com/remixgo/remix/pkg/assets"
	"github.com/remixgo/remix/pkg/routes"
)

// Snapshot is the immutable view of the application one request runs
// against: the route tree and the asset manifest as of some version.
// Concurrent requests may hold different snapshots, but no request ever
// observes a partially-updated one.
type Snapshot struct {
	Tree *routes.Tree

	// Assets may be nil when the build collaborator has not produced a
	// manifest (typically a dev asset server that is not running).
	// Manifest queries treat that as an empty patch; page requests
	// treat it as fatal.
	Assets *assets.Manifest

	// Version identifies the build this snapshot came from.
	Version string
}

// SnapshotSource hands out the current snapshot. Implementations must
// return each snapshot fully built; swapping in a new one must be
// atomic with respect to concurrent Snapshot calls.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// StaticSource wraps a fixed snapshot, the production case where the
// tree and manifest are built once at startup.
func StaticSource(snap *Snapshot) SnapshotSource {
	return staticSource{snap}
}

type staticSource struct{ snap *Snapshot }

func (s staticSource) Snapshot(context.Context) (*Snapshot, error) { return s.snap, nil }
