package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of profiles to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark file after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "cadence_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	path := filepath.Join(benchDir, "profiles.xml")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.TODO()

	mgr, err := cadence.New(ctx, path, cadence.WithLogger(logger))
	if err != nil {
		panic(err)
	}

	fmt.Printf("Generating %d profiles in %s...\n", *count, path)
	startGen := time.Now()
	for i := 0; i < *count; i++ {
		_, err := mgr.NewProfile(ctx,
			core.WithTitle(fmt.Sprintf("Profile %d", i)),
			core.WithTempo(60+i%180),
		)
		if err != nil {
			panic(err)
		}
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	startFlush := time.Now()
	if err := mgr.Close(ctx); err != nil {
		panic(err)
	}
	flushed := time.Since(startFlush)

	info, err := os.Stat(path)
	if err != nil {
		panic(err)
	}

	// Reopen to measure the import a fresh CLI run pays.
	startOpen := time.Now()
	mgr2, err := cadence.New(ctx, path, cadence.WithLogger(logger))
	if err != nil {
		panic(err)
	}
	list, err := mgr2.ListProfiles(ctx)
	if err != nil {
		panic(err)
	}
	opened := time.Since(startOpen)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d profiles, %d bytes):\n", *count, info.Size())
	fmt.Printf("  Flush: %v\n", flushed)
	fmt.Printf("  Open:  %v (Items: %d)\n", opened, len(list))
	fmt.Printf("--------------------------------------------------\n")
}
