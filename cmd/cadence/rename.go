package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/core"
)

var (
	renameTitle       string
	renameDescription string
)

var renameCmd = &cobra.Command{
	Use:   "rename [id]",
	Short: "Change the title or description of a profile",
	Long:  `Change the header of a profile. Flags that are not given keep their current value; the profile content is never touched.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("title") && !cmd.Flags().Changed("description") {
			fatal("Nothing to rename", fmt.Errorf("pass --title and/or --description"))
		}

		ctx := context.Background()
		mgr, _ := openManager(ctx)
		id := core.Identifier(args[0])

		h, err := mgr.GetProfileHeader(ctx, id)
		if err != nil {
			fatal("Error reading profile", err)
		}
		if cmd.Flags().Changed("title") {
			h.Title = renameTitle
		}
		if cmd.Flags().Changed("description") {
			h.Description = renameDescription
		}

		if err := mgr.SetProfileHeader(ctx, id, h); err != nil {
			fatal("Error renaming profile", err)
		}
		closeManager(ctx, mgr)
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	renameCmd.Flags().StringVarP(&renameTitle, "title", "t", "", "New title")
	renameCmd.Flags().StringVarP(&renameDescription, "description", "d", "", "New description")
}
