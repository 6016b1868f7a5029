package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storegraph/app/repositories"
	"github.com/shashiranjanraj/storegraph/pkg/app"
	"github.com/shashiranjanraj/storegraph/pkg/auth"
	"github.com/shashiranjanraj/storegraph/pkg/rbac"
)

// storegraph serve: start the HTTP server.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			return a.Serve(ctx)
		})
	},
}

// storegraph route:list: print all registered routes. Needs no store, so
// the routes are built over an empty in-memory one.
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(app.Options{
			Repos:  repositories.NewMemorySet(),
			Issuer: auth.NewIssuer("route-list", 0),
			Policy: rbac.LegacyPolicy(),
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range a.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

// storegraph version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.Version().String())
	},
}
