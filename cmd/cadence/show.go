package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/cadence/pkg/core"
)

var (
	showJSON bool
	showYAML bool
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a profile",
	Long:  `Show a profile by its ID. Prints a summary by default, or the full profile with --json or --yaml.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		mgr, _ := openManager(ctx)

		id := core.Identifier(args[0])
		p, err := mgr.GetProfile(ctx, id)
		if err != nil {
			fatal("Error reading profile", err)
		}

		switch {
		case showJSON:
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(p); err != nil {
				fatal("Error encoding JSON", err)
			}
		case showYAML:
			encoder := yaml.NewEncoder(os.Stdout)
			encoder.SetIndent(2)
			if err := encoder.Encode(p); err != nil {
				fatal("Error encoding YAML", err)
			}
			_ = encoder.Close()
		default:
			printProfile(os.Stdout, id, p)
		}
	},
}

func printProfile(w io.Writer, id core.Identifier, p core.Profile) {
	c := p.Content
	fmt.Fprintf(w, "id:          %s\n", id)
	fmt.Fprintf(w, "title:       %s\n", p.Header.Title)
	if p.Header.Description != "" {
		fmt.Fprintf(w, "description: %s\n", p.Header.Description)
	}
	fmt.Fprintf(w, "tempo:       %d bpm\n", c.Tempo)

	if c.MeterEnabled {
		m := c.Meter(c.MeterSelect)
		fmt.Fprintf(w, "meter:       %s %d/%d %s\n", c.MeterSelect, m.Beats, m.Division, accentPattern(m))
	} else {
		fmt.Fprintf(w, "meter:       off\n")
	}

	if c.Trainer.Enabled {
		fmt.Fprintf(w, "trainer:     %d -> %d bpm, +%d\n", c.Trainer.Start, c.Trainer.Target, c.Trainer.Accel)
	} else {
		fmt.Fprintf(w, "trainer:     off\n")
	}
}

// accentPattern renders one character per pulse, beats separated by spaces.
func accentPattern(m core.Meter) string {
	marks := map[core.Accent]byte{
		core.AccentOff:    '.',
		core.AccentWeak:   'x',
		core.AccentMedium: 'X',
		core.AccentStrong: '#',
	}
	per := max(m.Division, 1)

	var b strings.Builder
	for i, a := range m.Accents {
		if i > 0 && i%per == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(marks[a.Clamp()])
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output in YAML format")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
}
