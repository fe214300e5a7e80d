package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print profile changes until interrupted",
	Long:  `Watch the profile file and print one line per change. Edits made by other programs are reloaded (last writer wins) and reported as RELOAD.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mgr, path := openManager(ctx,
			cadence.WithWatch(true),
			cadence.WithWatcherErrorHandler(func(err error) {
				slog.Error("watcher", "error", err)
			}),
		)
		defer func() {
			if err := mgr.Close(context.Background()); err != nil {
				slog.Error("failed to save profiles", "error", err)
			}
		}()

		fmt.Printf("watching %s (ctrl-c to stop)\n", path)
		for e := range mgr.Watch(ctx, core.DefaultEventBuffer) {
			fmt.Printf("%s %s\n", time.Unix(e.Timestamp, 0).Format(time.TimeOnly), eventLabel(e))
		}
	},
}

func eventLabel(e core.Event) string {
	var c *color.Color
	switch e.Type {
	case core.EventCreate:
		c = color.New(color.FgGreen)
	case core.EventDelete:
		c = color.New(color.FgRed)
	case core.EventReload:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgBlue)
	}
	return c.Sprint(e.String())
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
