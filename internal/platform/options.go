package platform

import (
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/cadence/pkg/core"
)

// options holds the internal configuration for the profile manager.
type options struct {
	storage       core.Storage
	logger        *slog.Logger
	watch         bool
	perm          os.FileMode
	backupCorrupt bool
	product       string
	version       string
	debounce      time.Duration
	idGenerator   func() core.Identifier
	errorHandler  func(error)
}

// Option defines a functional option for configuring the manager.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		backupCorrupt: true,
	}
}

// WithLogger sets the logger used by the store and the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStorage injects a custom backend (e.g. memory.Store).
// If provided, the file path is ignored and no file is opened.
func WithStorage(s core.Storage) Option {
	return func(o *options) {
		o.storage = s
	}
}

// WithWatch starts the file watcher so edits made by other programs are
// picked up (last writer wins) and reported as core.EventReload.
func WithWatch(enabled bool) Option {
	return func(o *options) {
		o.watch = enabled
	}
}

// WithPerm sets the mode of the written file. Defaults to 0600.
func WithPerm(perm os.FileMode) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithBackupCorrupt controls whether a malformed file is copied aside before
// it can be overwritten by the next flush. Enabled by default.
func WithBackupCorrupt(enabled bool) Option {
	return func(o *options) {
		o.backupCorrupt = enabled
	}
}

// WithFormat overrides the root element name and the version attribute
// written to the file.
func WithFormat(product, version string) Option {
	return func(o *options) {
		o.product = product
		o.version = version
	}
}

// WithDebounce sets the quiet period the watcher waits for before reloading.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithIDGenerator replaces the UUID generator used for new profiles.
func WithIDGenerator(fn func() core.Identifier) Option {
	return func(o *options) {
		o.idGenerator = fn
	}
}

// WithWatcherErrorHandler registers a callback to handle errors occurring during the Watch loop.
// This allows applications to react to reload failures (e.g. a malformed edit)
// which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
