// Package reload keeps the current route tree and asset manifest behind
// an atomically swapped snapshot, rebuilt on file changes in development
// and built exactly once in production.
//
// Concurrent requests each take the snapshot pointer once and never see
// a partially-updated tree: a rebuild assembles the whole snapshot off
// to the side and publishes it with a single pointer swap.
package reload

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/remixgo/remix/pkg/middleware"
	"github.com/remixgo/remix/pkg/server"
)

// BuildFunc assembles a fresh snapshot: rescans routes, reloads the
// asset manifest, and so on. It must not mutate any previously returned
// snapshot.
type BuildFunc func(ctx context.Context) (*server.Snapshot, error)

// Snapshotter implements server.SnapshotSource over an atomically
// swapped snapshot pointer.
type Snapshotter struct {
	build BuildFunc

	cur     atomic.Pointer[server.Snapshot]
	mu      sync.Mutex // serializes rebuilds
	version atomic.Uint64
}

// New creates a Snapshotter. The first Snapshot call triggers the
// initial build; call Rebuild up front to fail fast at startup.
func New(build BuildFunc) *Snapshotter {
	return &Snapshotter{build: build}
}

// Snapshot returns the current snapshot, building it on first use.
func (s *Snapshotter) Snapshot(ctx context.Context) (*server.Snapshot, error) {
	if snap := s.cur.Load(); snap != nil {
		return snap, nil
	}
	return s.Rebuild(ctx)
}

// Rebuild builds a fresh snapshot and swaps it in. On failure the
// previous snapshot stays current, so in-flight and future requests
// keep a consistent view.
func (s *Snapshotter) Rebuild(ctx context.Context) (*server.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.build(ctx)
	if err != nil {
		if old := s.cur.Load(); old != nil {
			return old, fmt.Errorf("snapshot rebuild failed, keeping version %s: %w", old.Version, err)
		}
		return nil, err
	}
	if snap.Version == "" {
		snap.Version = strconv.FormatUint(s.version.Add(1), 10)
	}

	s.cur.Store(snap)
	middleware.CountSnapshotRebuild()
	return snap, nil
}

// Current returns the published snapshot without building, or nil.
func (s *Snapshotter) Current() *server.Snapshot {
	return s.cur.Load()
}
