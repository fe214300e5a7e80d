package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles in order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _ := openManager(ctx)

		primers, err := mgr.ListProfiles(ctx)
		if err != nil {
			fatal("Error listing profiles", err)
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(primers); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		index := color.New(color.FgCyan)
		untitled := color.New(color.FgHiBlack)
		for i, p := range primers {
			title := p.Header.Title
			if title == "" {
				title = untitled.Sprint("(untitled)")
			}
			fmt.Printf("%s %s %s\n", index.Sprintf("%2d.", i+1), p.ID, title)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
}
