package routes

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/remixgo/remix/internal/errdefs"
	"github.com/remixgo/remix/pkg/loader"
)

// Handles are the opaque references the registry resolves for a route
// id: what to render, how to load its data, and its optional header
// contribution and stylesheet.
type Handles struct {
	Component  Component
	Loader     loader.Loader
	Headerer   Headerer
	StylesHref string
}

// Registry resolves handles by route id. It is the narrow interface
// between the file-convention scanner and whatever module system the
// application uses.
type Registry interface {
	Resolve(routeID string) (Handles, bool)
}

// MapRegistry is a Registry backed by a plain map.
type MapRegistry map[string]Handles

// Resolve implements Registry.
func (m MapRegistry) Resolve(routeID string) (Handles, bool) {
	h, ok := m[routeID]
	return h, ok
}

// Scanner derives a route tree from a directory convention:
//
//	routes/index.go          -> id "routes/index",           pattern "/"
//	routes/gists.go          -> id "routes/gists",           pattern "gists"
//	routes/gists/index.go    -> id "routes/gists/index",     pattern "/"
//	routes/gists/$username.go-> id "routes/gists/$username", pattern ":username"
//	routes/$.go              -> id "routes/$",               pattern "*"
//	routes/404.go            -> id "routes/404" (reserved not-found page)
//
// A file nests under a sibling directory's file of the same stem
// ("gists.go" is the parent layout of everything in "gists/"). A
// directory without such a file contributes its name as static segments
// of its children's patterns instead.
type Scanner struct {
	fsys fs.FS
	reg  Registry

	// Exts are the file extensions treated as route files.
	Exts []string
}

// NewScanner creates a scanner over dir, resolving handles from reg.
func NewScanner(dir string, reg Registry) *Scanner {
	return &Scanner{fsys: dirFS(dir), reg: reg, Exts: []string{".go"}}
}

// NewScannerFS is NewScanner over an fs.FS, which tests use.
func NewScannerFS(fsys fs.FS, reg Registry) *Scanner {
	return &Scanner{fsys: fsys, reg: reg, Exts: []string{".go"}}
}

// Scan walks the routes directory and builds the tree. Child order is
// lexicographic by file path; the matcher ranks siblings by pattern
// specificity, so file naming never has to.
func (s *Scanner) Scan() (*Tree, error) {
	stems, err := s.collect()
	if err != nil {
		return nil, err
	}
	sort.Strings(stems)

	known := make(map[string]bool, len(stems))
	for _, stem := range stems {
		known[stem] = true
	}

	tree := New()
	built := make(map[string]*Route, len(stems))

	for _, stem := range stems {
		parentStem := parentOf(stem, known)

		rel := stem
		if parentStem != "" {
			rel = strings.TrimPrefix(stem, parentStem+"/")
		}
		pattern := stemPattern(rel)

		id := "routes/" + stem
		var route *Route
		if parentStem != "" {
			route = built[parentStem].Route(id, pattern)
		} else {
			route = tree.Route(id, pattern)
		}
		built[stem] = route

		if s.reg != nil {
			handles, ok := s.reg.Resolve(id)
			if !ok {
				return nil, errdefs.New(errdefs.CodeRouteUnresolved).
					WithDetail("route file " + stem + " has no registered handles").
					WithSuggestion("register the route id " + id + " with your Registry")
			}
			route.Component = handles.Component
			route.Loader = handles.Loader
			route.Headerer = handles.Headerer
			route.StylesHref = handles.StylesHref
		}
	}
	return tree, nil
}

// collect gathers route file stems (extension stripped, slash paths).
func (s *Scanner) collect() ([]string, error) {
	var stems []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != "." && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || strings.HasSuffix(name, "_test.go") {
			return nil
		}
		ext := path.Ext(name)
		if !s.routeExt(ext) {
			return nil
		}
		stems = append(stems, strings.TrimSuffix(p, ext))
		return nil
	})
	if err != nil {
		return nil, errdefs.New(errdefs.CodeRouteScan).Wrap(err)
	}
	return stems, nil
}

func (s *Scanner) routeExt(ext string) bool {
	for _, e := range s.Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// parentOf returns the longest proper prefix of stem that is itself a
// route file, or "" for a top-level route.
func parentOf(stem string, known map[string]bool) string {
	for prefix := path.Dir(stem); prefix != "."; prefix = path.Dir(prefix) {
		if known[prefix] {
			return prefix
		}
	}
	return ""
}

// stemPattern converts the path segments a route owns into a pattern.
func stemPattern(rel string) string {
	segs := strings.Split(rel, "/")

	// A trailing "index" file is the index route of its parent.
	if segs[len(segs)-1] == "index" {
		segs = segs[:len(segs)-1]
		if len(segs) == 0 {
			return "/"
		}
	}

	out := make([]string, len(segs))
	for i, seg := range segs {
		switch {
		case seg == "$":
			out[i] = "*"
		case strings.HasPrefix(seg, "$"):
			out[i] = ":" + seg[1:]
		default:
			out[i] = seg
		}
	}
	return strings.Join(out, "/")
}

func dirFS(dir string) fs.FS {
	return os.DirFS(filepath.Clean(dir))
}
