package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/remixgo/remix/internal/config"
	"github.com/remixgo/remix/pkg/routes"
)

func routesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the route tree discovered from the routes directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoutes()
		},
	}
	return cmd
}

func runRoutes() error {
	cfg, err := config.Find(".")
	if err != nil {
		return err
	}

	scanner := routes.NewScanner(filepath.Join(cfg.Dir(), cfg.RoutesDir), nil)
	tree, err := scanner.Scan()
	if err != nil {
		return err
	}

	info("%d route(s) in %s", tree.Len(), cfg.RoutesDir)
	printRoutes(tree.Roots(), 0)
	return nil
}

func printRoutes(rs []*routes.Route, depth int) {
	for _, r := range rs {
		fmt.Printf("%s%-24s %s\n", strings.Repeat("  ", depth), r.Path, r.ID)
		printRoutes(r.Children, depth+1)
	}
}
