package routes

import (
	"testing"
	"testing/fstest"
)

func scanFS(t *testing.T, files []string, reg Registry) *Tree {
	t.Helper()
	fsys := fstest.MapFS{}
	for _, f := range files {
		fsys[f] = &fstest.MapFile{Data: []byte("package routes\n")}
	}
	tree, err := NewScannerFS(fsys, reg).Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return tree
}

func TestScannerConvention(t *testing.T) {
	tree := scanFS(t, []string{
		"index.go",
		"gists.go",
		"gists/index.go",
		"gists/$username.go",
		"404.go",
		"500.go",
	}, nil)

	tests := []struct {
		id       string
		pattern  string
		parentID string
	}{
		{"routes/index", "/", ""},
		{"routes/gists", "gists", ""},
		{"routes/gists/index", "/", "routes/gists"},
		{"routes/gists/$username", ":username", "routes/gists"},
		{"routes/404", "404", ""},
		{"routes/500", "500", ""},
	}
	for _, tt := range tests {
		r, ok := tree.Lookup(tt.id)
		if !ok {
			t.Errorf("route %q not discovered", tt.id)
			continue
		}
		if r.Path != tt.pattern {
			t.Errorf("%s: pattern = %q, want %q", tt.id, r.Path, tt.pattern)
		}
		if r.ParentID != tt.parentID {
			t.Errorf("%s: parentID = %q, want %q", tt.id, r.ParentID, tt.parentID)
		}
	}
}

func TestScannerCatchAllFile(t *testing.T) {
	tree := scanFS(t, []string{"files.go", "files/$.go"}, nil)

	r, ok := tree.Lookup("routes/files/$")
	if !ok {
		t.Fatal("catch-all route not discovered")
	}
	if r.Path != "*" {
		t.Errorf("pattern = %q, want *", r.Path)
	}
}

func TestScannerDirWithoutLayoutFoldsSegments(t *testing.T) {
	// No docs.go, so docs/guides/intro.go is a top-level route whose
	// pattern carries the directory segments.
	tree := scanFS(t, []string{"docs/guides/intro.go"}, nil)

	r, ok := tree.Lookup("routes/docs/guides/intro")
	if !ok {
		t.Fatal("route not discovered")
	}
	if r.ParentID != "" {
		t.Errorf("parentID = %q, want top-level", r.ParentID)
	}
	if r.Path != "docs/guides/intro" {
		t.Errorf("pattern = %q, want docs/guides/intro", r.Path)
	}

	if _, ok := Match(tree, "docs/guides/intro"); !ok {
		t.Error("folded route did not match its URL")
	}
}

func TestScannerSkipsHiddenAndTestFiles(t *testing.T) {
	tree := scanFS(t, []string{
		"gists.go",
		"gists_test.go",
		"_helpers.go",
		".hidden.go",
	}, nil)

	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want only gists", tree.Len())
	}
}

func TestScannerResolvesHandles(t *testing.T) {
	reg := MapRegistry{
		"routes/gists": {Component: "gists-component", StylesHref: "/gists.css"},
	}
	tree := scanFS(t, []string{"gists.go"}, reg)

	r, _ := tree.Lookup("routes/gists")
	if r.Component != "gists-component" {
		t.Errorf("Component = %v", r.Component)
	}
	if r.StylesHref != "/gists.css" {
		t.Errorf("StylesHref = %q", r.StylesHref)
	}
}

func TestScannerUnresolvedRouteFails(t *testing.T) {
	fsys := fstest.MapFS{"gists.go": &fstest.MapFile{Data: []byte("x")}}
	_, err := NewScannerFS(fsys, MapRegistry{}).Scan()
	if err == nil {
		t.Fatal("expected an error for a route with no registered handles")
	}
}
