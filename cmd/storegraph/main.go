package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storegraph/pkg/app"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "storegraph",
	Short:         "storegraph: GraphQL API over products, orders and users",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(dbIndexCmd)

	rootCmd.AddCommand(versionCmd)
}

// withApp boots the application, runs fn and closes it again.
func withApp(ctx context.Context, fn func(context.Context, *app.Application) error) error {
	a, err := app.Boot(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background()) //nolint:errcheck
	return fn(ctx, a)
}
