package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/paths"
	"github.com/aretw0/cadence/pkg/core"
)

var (
	verbose       bool
	flagFile      string
	flagConfigDir string
)

// settings holds config.yaml values loaded by PersistentPreRunE.
var settings config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Manage metronome practice profiles",
	Long: `Cadence keeps an ordered collection of metronome profiles (tempo, meters,
accent patterns, tempo trainer) in a single XML file that can also be edited by hand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		settings, err = loadConfig(configDir)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagFile, "file", "", "profile file (default: $XDG_DATA_HOME/cadence/profiles.xml)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "configuration directory (default: $XDG_CONFIG_HOME/cadence)")
}

// openManager resolves the profile file (--file > config.yaml > CADENCE_FILE >
// default) and opens a Manager over it.
func openManager(ctx context.Context, extra ...cadence.Option) (*core.Manager, string) {
	path, err := paths.ResolveFile(flagFile, settings.File)
	if err != nil {
		fatal("Error resolving profile file", err)
	}

	opts := []cadence.Option{
		cadence.WithLogger(slog.Default()),
		cadence.WithBackupCorrupt(settings.BackupCorrupt),
	}
	if settings.Debounce > 0 {
		opts = append(opts, cadence.WithDebounce(settings.Debounce))
	}
	opts = append(opts, extra...)

	mgr, err := cadence.New(ctx, path, opts...)
	if err != nil {
		fatal("Error opening profiles", err)
	}
	return mgr, path
}

// closeManager flushes pending changes; a failed write is fatal so that no
// mutating command reports success without persisting.
func closeManager(ctx context.Context, mgr *core.Manager) {
	if err := mgr.Close(ctx); err != nil {
		fatal("Error saving profiles", err)
	}
}
