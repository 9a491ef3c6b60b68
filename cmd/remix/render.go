package main

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"sort"

	"github.com/remixgo/remix"
)

// debugRenderer is the placeholder render collaborator used by the CLI
// until an application wires a real one. It emits a plain HTML shell
// showing the render plan, loader data, and the assets the page would
// hydrate with.
func debugRenderer() remix.Renderer {
	return remix.RendererFunc(func(ctx context.Context, in *remix.RenderInput) ([]byte, error) {
		var b bytes.Buffer
		fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head><title>%s</title>\n", html.EscapeString(in.URL.Path))

		entries := in.Assets.All()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, url := range entries[key] {
				fmt.Fprintf(&b, "<link rel=\"preload\" href=%q>\n", url)
			}
		}

		fmt.Fprintf(&b, "</head>\n<body>\n<h1>%s</h1>\n<ul>\n", in.Plan.Kind)
		for _, m := range in.Plan.Matches {
			fmt.Fprintf(&b, "<li><code>%s</code> at <code>%s</code></li>\n",
				html.EscapeString(m.Route.ID), html.EscapeString(m.Pathname))
		}
		fmt.Fprintf(&b, "</ul>\n<p>status %d</p>\n", in.Status)
		if in.Plan.Cause != nil {
			fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(in.Plan.Cause.Error()))
		}
		b.WriteString("</body>\n</html>\n")
		return b.Bytes(), nil
	})
}
