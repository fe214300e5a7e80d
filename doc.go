// Package cadence is the Composition Root for the cadence profile store.
//
// It connects the profile Manager (Domain Layer) with the file-backed store
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// A profile is a named metronome configuration: tempo, nine meter slots with
// their accent patterns, and a tempo trainer. The whole collection lives in a
// single markup file that is read once on open and rewritten atomically on
// flush. Profile order is explicit and survives restarts.
//
// Features:
//
//   - **Single File**: human-editable XML, unknown elements ignored, bad fields contained.
//   - **Atomic Writes**: temp file plus rename, 0600 by default, failures surfaced as core.IOError.
//   - **Change Events**: exactly one core.Event per successful mutation.
//   - **Outside Edits**: optional fsnotify watcher, last writer wins, reported as core.EventReload.
//   - **Swappable Backend**: any core.Storage (e.g. memory.Store) can replace the file at runtime.
//
// Usage:
//
//	mgr, err := cadence.New(ctx, "profiles.xml",
//		cadence.WithLogger(logger),
//		cadence.WithWatch(true),
//	)
//	defer mgr.Close(ctx)
//
//	primer, err := mgr.NewProfile(ctx, core.WithTitle("Warmup"), core.WithTempo(90))
package cadence
