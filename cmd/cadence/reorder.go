package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/core"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder [id]...",
	Short: "Move profiles to the front in the given order",
	Long: `Reorder profiles. The listed profiles come first, in the given order;
profiles that are not listed follow in their current order. Unknown IDs are
ignored and naming a profile twice is an error.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids := make([]core.Identifier, 0, len(args))
		for _, a := range args {
			ids = append(ids, core.Identifier(a))
		}

		ctx := context.Background()
		mgr, _ := openManager(ctx)
		if err := mgr.ReorderProfiles(ctx, ids); err != nil {
			fatal("Error reordering profiles", err)
		}
		closeManager(ctx, mgr)
	},
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}
