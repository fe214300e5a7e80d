package cadence_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/core"
)

// Example_basic demonstrates how to create a profile, persist it and read it back.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "cadence-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	path := filepath.Join(tmpDir, "profiles.xml")

	mgr, err := cadence.New(ctx, path)
	if err != nil {
		log.Fatal(err)
	}

	primer, err := mgr.NewProfile(ctx, core.WithTitle("Warmup"), core.WithTempo(90))
	if err != nil {
		log.Fatal(err)
	}
	if err := mgr.Close(ctx); err != nil {
		log.Fatal(err)
	}

	// Reopen from disk.
	mgr, err = cadence.New(ctx, path)
	if err != nil {
		log.Fatal(err)
	}

	content, err := mgr.GetProfileContent(ctx, primer.ID)
	if err != nil {
		log.Fatal(err)
	}

	selected := content.Meter(content.MeterSelect)
	fmt.Printf("tempo %d, meter %s (%d pulses)\n", content.Tempo, content.MeterSelect, selected.Pulses())
	// Output:
	// tempo 90, meter meter-4-simple (8 pulses)
}

// Example_subscribe demonstrates change notifications.
func Example_subscribe() {
	ctx := context.Background()
	mgr, err := cadence.New(ctx, "unused.xml", cadence.WithStorage(memory.NewStore()))
	if err != nil {
		log.Fatal(err)
	}

	mgr.Subscribe(func(e core.Event) {
		fmt.Println(e.Type)
	})

	primer, _ := mgr.NewProfile(ctx)
	_ = mgr.SetProfileHeader(ctx, primer.ID, core.Header{Title: "Renamed"})
	_ = mgr.DeleteProfile(ctx, primer.ID)
	// Output:
	// CREATE
	// MODIFY
	// DELETE
}
