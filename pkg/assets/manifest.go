// Package assets reads the build system's asset manifest and narrows it
// to a matched route chain.
//
// The manifest maps route ids (plus a few fixed keys, such as the client
// entry point and the global stylesheet) to the asset URLs needed to
// render them:
//
//	{
//	  "entry": ["/build/entry.a1b2c3d4.js"],
//	  "global-styles": ["/build/global.e5f6g7h8.css"],
//	  "routes/gists": ["/build/routes/gists.js", "/build/routes/gists.css"]
//	}
//
// The core only reads and filters it; producing the manifest belongs to
// the build collaborator.
package assets

import (
	"encoding/json"
	"os"
	"sync"
)

// Fixed manifest keys that survive filtering regardless of the matched
// chain.
const (
	EntryKey        = "entry"
	GlobalStylesKey = "global-styles"
)

// Manifest maps route ids and fixed keys to asset URLs.
// It is safe for concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string][]string
}

// NewManifest creates an empty manifest. An empty manifest is also the
// "empty patch" used when the development asset server is unavailable.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string][]string)}
}

// Parse decodes a manifest from its JSON wire form.
func Parse(data []byte) (*Manifest, error) {
	var entries map[string][]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = make(map[string][]string)
	}
	return &Manifest{entries: entries}, nil
}

// LoadFile reads a manifest.json from disk.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Get returns the assets recorded for a key.
func (m *Manifest) Get(key string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key]
}

// Set adds or replaces an entry. Primarily useful for tests and for
// dynamic manifest building.
func (m *Manifest) Set(key string, urls ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = urls
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// FilterTo returns a new manifest narrowed to the given route ids plus
// the fixed keys. The receiver is not modified.
func (m *Manifest) FilterTo(routeIDs []string) *Manifest {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := NewManifest()
	for _, key := range []string{EntryKey, GlobalStylesKey} {
		if urls, ok := m.entries[key]; ok {
			out.entries[key] = urls
		}
	}
	for _, id := range routeIDs {
		if urls, ok := m.entries[id]; ok {
			out.entries[id] = urls
		}
	}
	return out
}

// All returns a copy of every entry.
func (m *Manifest) All() map[string][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]string, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the manifest in its wire form.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.All())
}
