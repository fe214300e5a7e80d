package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/core"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _ := openManager(ctx)

		if err := mgr.DeleteProfile(ctx, core.Identifier(args[0])); err != nil {
			fatal("Error deleting profile", err)
		}
		closeManager(ctx, mgr)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
