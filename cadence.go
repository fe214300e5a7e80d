package cadence

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/cadence/internal/platform"
	"github.com/aretw0/cadence/pkg/core"
)

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/aretw0/cadence.Version=v1.2.3".
var Version = "dev"

// --- Types ---

// Manager is a public alias for the profile manager.
type Manager = core.Manager

// Profile is a public alias for one stored metronome profile.
type Profile = core.Profile

// Event is a public alias for change notifications.
type Event = core.Event

// --- Configuration ---

// Option defines a functional option for configuring the manager.
type Option = platform.Option

// WithLogger sets the logger for the store and the manager.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStorage allows injecting a custom storage backend.
func WithStorage(s core.Storage) Option {
	return platform.WithStorage(s)
}

// WithWatch enables reloading the file when another program edits it.
func WithWatch(enabled bool) Option {
	return platform.WithWatch(enabled)
}

// WithPerm sets the mode of the written file.
func WithPerm(perm os.FileMode) Option {
	return platform.WithPerm(perm)
}

// WithBackupCorrupt controls whether a malformed file is set aside before being overwritten.
func WithBackupCorrupt(enabled bool) Option {
	return platform.WithBackupCorrupt(enabled)
}

// WithFormat overrides the root element name and version attribute of the file.
func WithFormat(product, version string) Option {
	return platform.WithFormat(product, version)
}

// WithDebounce sets the watcher quiet period.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithIDGenerator replaces the UUID generator used for new profiles.
func WithIDGenerator(fn func() core.Identifier) Option {
	return platform.WithIDGenerator(fn)
}

// WithWatcherErrorHandler registers a callback for reload failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New opens the profile file at path and returns a Manager over it.
func New(ctx context.Context, path string, opts ...Option) (*core.Manager, error) {
	return platform.New(ctx, path, opts...)
}

// Init opens the storage backend explicitly.
func Init(ctx context.Context, path string, opts ...Option) (core.Storage, error) {
	return platform.Init(ctx, path, opts...)
}
