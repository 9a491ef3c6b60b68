package routes

import (
	"testing"
)

// buildGistsTree mirrors the canonical example app: a gists section
// with an index page and a dynamic username page.
func buildGistsTree(t *testing.T) *Tree {
	t.Helper()
	tree := New()
	gists := tree.Route("routes/gists", "gists")
	gists.Route("routes/gists/index", "/")
	gists.Route("routes/gists/$username", ":username")
	return tree
}

func chainIDs(chain []*RouteMatch) []string {
	ids := make([]string, len(chain))
	for i, m := range chain {
		ids[i] = m.Route.ID
	}
	return ids
}

func TestMatchStaticBeatsDynamic(t *testing.T) {
	tree := New()
	a := tree.Route("routes/a", "a")
	a.Route("routes/a/$x", ":x")
	a.Route("routes/a/b", "b")

	chain, ok := Match(tree, "a/b")
	if !ok {
		t.Fatal("expected match for a/b")
	}
	leaf := chain[len(chain)-1]
	if leaf.Route.ID != "routes/a/b" {
		t.Errorf("leaf = %q, want the static sibling routes/a/b", leaf.Route.ID)
	}
	if len(leaf.Params) != 0 {
		t.Errorf("params = %v, want none", leaf.Params)
	}
}

func TestMatchDynamicBeatsCatchAll(t *testing.T) {
	tree := New()
	docs := tree.Route("routes/docs", "docs")
	docs.Route("routes/docs/$", "*")
	docs.Route("routes/docs/$page", ":page")

	chain, ok := Match(tree, "docs/intro")
	if !ok {
		t.Fatal("expected match")
	}
	leaf := chain[len(chain)-1]
	if leaf.Route.ID != "routes/docs/$page" {
		t.Errorf("leaf = %q, want the dynamic sibling", leaf.Route.ID)
	}
}

func TestMatchDeclarationOrderBreaksTies(t *testing.T) {
	tree := New()
	tree.Route("routes/first", ":a")
	tree.Route("routes/second", ":b")

	chain, ok := Match(tree, "anything")
	if !ok {
		t.Fatal("expected match")
	}
	if chain[0].Route.ID != "routes/first" {
		t.Errorf("matched %q, want the earlier-declared sibling", chain[0].Route.ID)
	}
}

func TestMatchIndexRoute(t *testing.T) {
	tree := buildGistsTree(t)

	chain, ok := Match(tree, "gists/")
	if !ok {
		t.Fatal("expected match for gists/")
	}
	want := []string{"routes/gists", "routes/gists/index"}
	got := chainIDs(chain)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("chain = %v, want %v", got, want)
	}
}

func TestMatchIndexChildWithoutTrailingSlash(t *testing.T) {
	tree := buildGistsTree(t)

	chain, ok := Match(tree, "gists")
	if !ok {
		t.Fatal("expected match for gists")
	}
	got := chainIDs(chain)
	want := []string{"routes/gists", "routes/gists/index"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("chain = %v, want %v", got, want)
	}
}

func TestMatchDynamicChild(t *testing.T) {
	tree := buildGistsTree(t)

	chain, ok := Match(tree, "gists/alice")
	if !ok {
		t.Fatal("expected match for gists/alice")
	}
	leaf := chain[len(chain)-1]
	if leaf.Route.ID != "routes/gists/$username" {
		t.Errorf("leaf = %q, want routes/gists/$username", leaf.Route.ID)
	}
	if leaf.Params["username"] != "alice" {
		t.Errorf("params[username] = %q, want %q", leaf.Params["username"], "alice")
	}
}

func TestMatchChainOrderAndLinkage(t *testing.T) {
	tree := buildGistsTree(t)

	chain, ok := Match(tree, "gists/alice")
	if !ok {
		t.Fatal("expected match")
	}
	if len(chain) != 2 {
		t.Fatalf("chain length = %d, want 2", len(chain))
	}
	for i := 1; i < len(chain); i++ {
		if chain[i].Route.ParentID != chain[i-1].Route.ID {
			t.Errorf("chain[%d].ParentID = %q, want %q", i, chain[i].Route.ParentID, chain[i-1].Route.ID)
		}
	}
	if chain[0].Pathname != "/gists" {
		t.Errorf("ancestor pathname = %q, want /gists", chain[0].Pathname)
	}
	if chain[1].Pathname != "/gists/alice" {
		t.Errorf("leaf pathname = %q, want /gists/alice", chain[1].Pathname)
	}
}

func TestMatchNoMatchIsNormalOutcome(t *testing.T) {
	tree := buildGistsTree(t)

	chain, ok := Match(tree, "404")
	if ok {
		t.Fatalf("expected no match, got %v", chainIDs(chain))
	}
	if chain != nil {
		t.Errorf("chain = %v, want nil", chain)
	}
}

func TestMatchCatchAll(t *testing.T) {
	tree := New()
	files := tree.Route("routes/files", "files")
	files.Route("routes/files/$", "*")

	chain, ok := Match(tree, "files/a/b/c")
	if !ok {
		t.Fatal("expected match")
	}
	leaf := chain[len(chain)-1]
	if leaf.Params[CatchAllParam] != "a/b/c" {
		t.Errorf("params[*] = %q, want %q", leaf.Params[CatchAllParam], "a/b/c")
	}
}

func TestMatchNamedCatchAll(t *testing.T) {
	tree := New()
	tree.Route("routes/$slug", "*slug")

	chain, ok := Match(tree, "a/b")
	if !ok {
		t.Fatal("expected match")
	}
	if chain[0].Params["slug"] != "a/b" {
		t.Errorf("params[slug] = %q, want %q", chain[0].Params["slug"], "a/b")
	}
}

func TestMatchParamsMergeDownChain(t *testing.T) {
	tree := New()
	users := tree.Route("routes/users", "users")
	user := users.Route("routes/users/$id", ":id")
	user.Route("routes/users/$id/$tab", ":tab")

	chain, ok := Match(tree, "users/7/activity")
	if !ok {
		t.Fatal("expected match")
	}
	leaf := chain[len(chain)-1]
	if leaf.Params["id"] != "7" || leaf.Params["tab"] != "activity" {
		t.Errorf("params = %v, want id=7 tab=activity", leaf.Params)
	}
	// The ancestor level must not see the descendant's capture.
	if _, ok := chain[1].Params["tab"]; ok {
		t.Errorf("ancestor params %v leaked descendant capture", chain[1].Params)
	}
}

func TestMatchAncestorParamWinsCollision(t *testing.T) {
	tree := New()
	a := tree.Route("routes/$x", ":x")
	a.Route("routes/$x/$x2", ":x")

	chain, ok := Match(tree, "outer/inner")
	if !ok {
		t.Fatal("expected match")
	}
	leaf := chain[len(chain)-1]
	if leaf.Params["x"] != "outer" {
		t.Errorf("params[x] = %q, want ancestor capture %q", leaf.Params["x"], "outer")
	}
}

func TestMatchBacktracksThroughNonViableSibling(t *testing.T) {
	// The static sibling matches "a" but cannot finish "a/x"; the
	// dynamic sibling's subtree can.
	tree := New()
	static := tree.Route("routes/a", "a")
	static.Route("routes/a/b", "b")
	dyn := tree.Route("routes/any", ":any")
	dyn.Route("routes/any/x", "x")

	chain, ok := Match(tree, "a/x")
	if !ok {
		t.Fatal("expected match via the dynamic sibling")
	}
	want := []string{"routes/any", "routes/any/x"}
	got := chainIDs(chain)
	if got[0] != want[0] || got[1] != want[1] {
		t.Errorf("chain = %v, want %v", got, want)
	}
	if chain[0].Params["any"] != "a" {
		t.Errorf("params[any] = %q, want %q", chain[0].Params["any"], "a")
	}
}

func TestMatchParentTerminatesChain(t *testing.T) {
	tree := New()
	gists := tree.Route("routes/gists", "gists")
	gists.Route("routes/gists/$username", ":username")

	chain, ok := Match(tree, "gists")
	if !ok {
		t.Fatal("expected match for bare gists")
	}
	if len(chain) != 1 || chain[0].Route.ID != "routes/gists" {
		t.Errorf("chain = %v, want just routes/gists", chainIDs(chain))
	}
}

func TestMatchMultiSegmentPattern(t *testing.T) {
	tree := New()
	tree.Route("routes/docs/guides/$name", "docs/guides/:name")

	chain, ok := Match(tree, "docs/guides/routing")
	if !ok {
		t.Fatal("expected match")
	}
	if chain[0].Params["name"] != "routing" {
		t.Errorf("params[name] = %q, want routing", chain[0].Params["name"])
	}
}

func TestMatchRootPathname(t *testing.T) {
	tree := New()
	tree.Route("routes/index", "/")

	chain, ok := Match(tree, "/")
	if !ok {
		t.Fatal("expected the index route to match /")
	}
	if chain[0].Pathname != "/" {
		t.Errorf("pathname = %q, want /", chain[0].Pathname)
	}
}
