package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/core"
)

var (
	newTitle       string
	newDescription string
	newTempo       int
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a profile with default settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _ := openManager(ctx)

		opts := []core.ProfileOption{core.WithTitle(newTitle), core.WithDescription(newDescription)}
		if cmd.Flags().Changed("tempo") {
			opts = append(opts, core.WithTempo(newTempo))
		}

		primer, err := mgr.NewProfile(ctx, opts...)
		if err != nil {
			fatal("Error creating profile", err)
		}
		closeManager(ctx, mgr)

		fmt.Println(primer.ID)
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().StringVarP(&newTitle, "title", "t", "", "Profile title")
	newCmd.Flags().StringVarP(&newDescription, "description", "d", "", "Profile description")
	newCmd.Flags().IntVar(&newTempo, "tempo", core.DefaultTempo, "Tempo in beats per minute")
}
