package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/adapters/fs"
	"github.com/aretw0/cadence/pkg/core"
)

var importCmd = &cobra.Command{
	Use:   "import [glob]",
	Short: "Add the profiles of other profile files",
	Long: `Import every profile from the files matching glob (** is supported).
Each imported profile gets a fresh ID and is appended in the order it was read.
Files that cannot be read are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		col, warnings, err := fs.ReadGlob(args[0])
		if err != nil {
			fatal("Error reading files", err)
		}
		for _, w := range warnings {
			slog.Warn("import", "warning", w)
		}

		ctx := context.Background()
		mgr, _ := openManager(ctx)

		imported := 0
		col.Each(func(id core.Identifier, p core.Profile) {
			primer, err := mgr.NewProfile(ctx, core.WithHeader(p.Header), core.WithContent(p.Content))
			if err != nil {
				slog.Error("failed to import profile", "source_id", id, "error", err)
				return
			}
			slog.Debug("profile imported", "source_id", id, "id", primer.ID)
			imported++
		})
		closeManager(ctx, mgr)

		fmt.Printf("imported %d profile(s)\n", imported)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
