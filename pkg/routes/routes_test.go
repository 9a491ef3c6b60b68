package routes

import (
	"context"
	"net/http"
	"testing"

	"github.com/remixgo/remix/pkg/loader"
)

func TestTreeRegistration(t *testing.T) {
	tree := New()
	parent := tree.Route("routes/gists", "gists", WithStyles("/styles/gists.css"))
	child := parent.Route("routes/gists/index", "/")

	if got := tree.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if child.ParentID != parent.ID {
		t.Errorf("child.ParentID = %q, want %q", child.ParentID, parent.ID)
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Error("parent.Children does not hold the registered child")
	}

	got, ok := tree.Lookup("routes/gists")
	if !ok || got != parent {
		t.Error("Lookup did not return the registered route")
	}
}

func TestTreeOptionsApplied(t *testing.T) {
	l := loader.Func(func(context.Context, loader.Args) (*loader.Result, error) { return nil, nil })
	h := HeadersFunc(func(HeadersArgs) (http.Header, error) { return nil, nil })
	component := "gists-page"

	tree := New()
	r := tree.Route("routes/gists", "gists",
		WithComponent(component),
		WithLoader(l),
		WithHeaders(h),
		WithStyles("/styles/gists.css"),
	)

	if r.Component != component {
		t.Errorf("Component = %v, want %v", r.Component, component)
	}
	if r.Loader == nil {
		t.Error("Loader was not applied")
	}
	if r.Headerer == nil {
		t.Error("Headerer was not applied")
	}
	if r.StylesHref != "/styles/gists.css" {
		t.Errorf("StylesHref = %q, want /styles/gists.css", r.StylesHref)
	}

	// Options apply on child registration too.
	child := r.Route("routes/gists/index", "/", WithLoader(l))
	if child.Loader == nil {
		t.Error("child Loader was not applied")
	}
}

func TestTreeChildOrderPreserved(t *testing.T) {
	tree := New()
	parent := tree.Route("routes/p", "p")
	parent.Route("routes/p/one", "one")
	parent.Route("routes/p/two", "two")
	parent.Route("routes/p/three", "three")

	want := []string{"routes/p/one", "routes/p/two", "routes/p/three"}
	for i, child := range parent.Children {
		if child.ID != want[i] {
			t.Errorf("Children[%d] = %q, want %q", i, child.ID, want[i])
		}
	}
}

func TestTreeDuplicateIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate id")
		}
	}()
	tree := New()
	tree.Route("routes/a", "a")
	tree.Route("routes/a", "b")
}

func TestTreeInvalidPatternPanics(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"empty", ""},
		{"catch-all not last", "*rest/more"},
		{"unnamed dynamic", ":"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for pattern %q", tt.pattern)
				}
			}()
			New().Route("routes/x", tt.pattern)
		})
	}
}

func TestTreeWalkDepthFirst(t *testing.T) {
	tree := New()
	a := tree.Route("routes/a", "a")
	a.Route("routes/a/b", "b")
	tree.Route("routes/c", "c")

	var visited []string
	tree.Walk(func(r *Route) { visited = append(visited, r.ID) })

	want := []string{"routes/a", "routes/a/b", "routes/c"}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestManifestEntry(t *testing.T) {
	tree := New()
	l := loader.Func(func(context.Context, loader.Args) (*loader.Result, error) { return nil, nil })
	r := tree.Route("routes/gists", "gists", WithLoader(l), WithStyles("/gists.css"))

	entry := r.Manifest()
	if entry.ID != "routes/gists" || entry.Path != "gists" {
		t.Errorf("entry = %+v", entry)
	}
	if !entry.HasLoader {
		t.Error("HasLoader = false, want true")
	}
	if entry.StylesHref != "/gists.css" {
		t.Errorf("StylesHref = %q", entry.StylesHref)
	}
}

func TestHeadersFuncAdapter(t *testing.T) {
	var sawParent http.Header
	h := HeadersFunc(func(args HeadersArgs) (http.Header, error) {
		sawParent = args.ParentHeaders
		return http.Header{"X-Test": []string{"yes"}}, nil
	})

	parent := http.Header{"X-Parent": []string{"root"}}
	got, err := h.Headers(HeadersArgs{ParentHeaders: parent})
	if err != nil {
		t.Fatalf("Headers() error = %v", err)
	}
	if got.Get("X-Test") != "yes" {
		t.Errorf("contributed = %v", got)
	}
	if sawParent.Get("X-Parent") != "root" {
		t.Error("contributor did not receive parent headers")
	}
}
