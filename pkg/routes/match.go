package routes

import "strings"

// RouteMatch pairs a route with the parameters extracted for it and the
// portion of the pathname consumed through its level.
type RouteMatch struct {
	Route    *Route
	Params   map[string]string
	Pathname string
}

// CatchAllParam is the params key used by an unnamed "*" catch-all
// segment. A named catch-all ("*slug") captures under its own name.
const CatchAllParam = "*"

// Match resolves pathname against the tree and returns the ordered
// root-to-leaf match chain. The boolean is false when nothing matched;
// that is a normal outcome for the caller to check, not an error.
//
// Sibling selection is by pattern specificity (static > dynamic >
// catch-all), with declaration order breaking ties. An index route
// ("/") matches only when its parent consumed the whole pathname.
// Parameters merge down the chain; a descendant never overwrites a
// parameter name captured by an ancestor.
func Match(tree *Tree, pathname string) ([]*RouteMatch, bool) {
	segments := splitSegments(pathname)
	return matchLevel(tree.roots, segments, nil, "")
}

// matchLevel evaluates sibling routes against the remaining segments and
// recurses into the most specific viable candidate. Viability includes
// the subtree: a sibling whose own pattern matches a prefix only counts
// if some descendant can finish the remainder.
func matchLevel(siblings []*Route, segments []string, parentParams map[string]string, consumed string) ([]*RouteMatch, bool) {
	for _, rank := range []int{rankIndex, rankStatic, rankDynamic, rankCatchAll} {
		for _, route := range siblings {
			if patternRank(route.Path) != rank {
				continue
			}
			if chain, ok := matchRoute(route, segments, parentParams, consumed); ok {
				return chain, true
			}
		}
	}
	return nil, false
}

// matchRoute tries a single route against the remaining segments.
func matchRoute(route *Route, segments []string, parentParams map[string]string, consumed string) ([]*RouteMatch, bool) {
	rest, params, ok := consumeSegments(route.Path, segments, parentParams)
	if !ok {
		return nil, false
	}

	taken := segments[:len(segments)-len(rest)]
	pathname := consumed
	if len(taken) > 0 {
		pathname = consumed + "/" + strings.Join(taken, "/")
	}
	if pathname == "" {
		pathname = "/"
	}

	m := &RouteMatch{Route: route, Params: params, Pathname: pathname}

	if len(rest) == 0 {
		// The route consumed the whole remainder. An index child (or a
		// catch-all, which matches an empty remainder too) still extends
		// the chain; without one, the route terminates it here.
		if childChain, ok := matchLevel(route.Children, rest, params, strings.TrimSuffix(pathname, "/")); ok {
			return append([]*RouteMatch{m}, childChain...), true
		}
		return []*RouteMatch{m}, true
	}

	// A partial match is only viable if a descendant finishes the rest.
	childChain, ok := matchLevel(route.Children, rest, params, strings.TrimSuffix(pathname, "/"))
	if !ok {
		return nil, false
	}
	return append([]*RouteMatch{m}, childChain...), true
}

// consumeSegments matches a route pattern against the head of segments.
// It returns the unconsumed remainder and the merged parameter map.
// Ancestor parameter names win on collision.
func consumeSegments(pattern string, segments []string, parentParams map[string]string) (rest []string, params map[string]string, ok bool) {
	params = copyParams(parentParams)

	if pattern == "/" {
		// Index routes match only an empty remainder.
		if len(segments) != 0 {
			return nil, nil, false
		}
		return nil, params, true
	}

	for _, seg := range splitSegments(pattern) {
		if strings.HasPrefix(seg, "*") {
			name := seg[1:]
			if name == "" {
				name = CatchAllParam
			}
			setParam(params, name, strings.Join(segments, "/"))
			return nil, params, true
		}
		if len(segments) == 0 {
			return nil, nil, false
		}
		head := segments[0]
		if strings.HasPrefix(seg, ":") {
			setParam(params, seg[1:], head)
		} else if seg != head {
			return nil, nil, false
		}
		segments = segments[1:]
	}
	return segments, params, true
}

// Specificity ranks, most specific first. Index routes only ever compete
// for an empty remainder, where no static or dynamic sibling can match,
// so ranking them first is safe and keeps "gists/" away from ":username".
const (
	rankIndex = iota
	rankStatic
	rankDynamic
	rankCatchAll
)

// patternRank classifies a pattern by its first segment.
func patternRank(pattern string) int {
	if pattern == "/" {
		return rankIndex
	}
	segs := splitSegments(pattern)
	if len(segs) == 0 {
		return rankStatic
	}
	switch {
	case strings.HasPrefix(segs[0], "*"):
		return rankCatchAll
	case strings.HasPrefix(segs[0], ":"):
		return rankDynamic
	default:
		return rankStatic
	}
}

func copyParams(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// setParam adds a capture without overwriting an ancestor's name.
// Cross-level name collisions are undefined behavior; first writer wins.
func setParam(params map[string]string, name, value string) {
	if _, exists := params[name]; exists {
		return
	}
	params[name] = value
}
