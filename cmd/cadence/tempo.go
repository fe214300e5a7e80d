package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence/pkg/core"
)

var tempoCmd = &cobra.Command{
	Use:   "tempo [id] [bpm]",
	Short: "Set the tempo of a profile",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		bpm, err := strconv.Atoi(args[1])
		if err != nil || bpm <= 0 {
			fatal("Invalid tempo", fmt.Errorf("%q is not a positive number of beats per minute", args[1]))
		}

		ctx := context.Background()
		mgr, _ := openManager(ctx)
		id := core.Identifier(args[0])

		c, err := mgr.GetProfileContent(ctx, id)
		if err != nil {
			fatal("Error reading profile", err)
		}
		c.Tempo = bpm
		if err := mgr.SetProfileContent(ctx, id, c); err != nil {
			fatal("Error setting tempo", err)
		}
		closeManager(ctx, mgr)
	},
}

func init() {
	rootCmd.AddCommand(tempoCmd)
}
