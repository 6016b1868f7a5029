package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/storegraph/pkg/app"
)

// storegraph seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo products, users and orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Seeding…")
			if err := a.Seed(ctx, cmd.OutOrStdout()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅  Seeding complete")
			return nil
		})
	},
}

// storegraph db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the users.username and orders.userId indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.Application) error {
			if err := a.EnsureIndexes(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅  Indexes ensured")
			return nil
		})
	},
}
