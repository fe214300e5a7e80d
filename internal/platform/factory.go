package platform

import (
	"context"
	"fmt"

	"github.com/aretw0/cadence/pkg/adapters/fs"
	"github.com/aretw0/cadence/pkg/core"
)

// Init opens the storage backend described by path and opts.
// Unless a backend was injected with WithStorage, it is an fs.Store over the
// file at path, watched when WithWatch(true) is given. ctx bounds the watcher.
func Init(ctx context.Context, path string, opts ...Option) (core.Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(ctx, path, o)
}

func initStorage(ctx context.Context, path string, o *options) (core.Storage, error) {
	if o.storage != nil {
		return o.storage, nil
	}

	store, err := fs.Open(fs.Config{
		Path:          path,
		Logger:        o.logger,
		Perm:          o.perm,
		BackupCorrupt: o.backupCorrupt,
		Product:       o.product,
		Version:       o.version,
		Debounce:      o.debounce,
		ErrorHandler:  o.errorHandler,
	})
	if err != nil {
		return nil, err
	}

	if o.watch {
		if err := store.Watch(ctx); err != nil {
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	return store, nil
}

// New builds a Manager over the storage returned by Init.
//
//	mgr, err := cadence.New(ctx, "profiles.xml", cadence.WithWatch(true))
func New(ctx context.Context, path string, opts ...Option) (*core.Manager, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, err := initStorage(ctx, path, o)
	if err != nil {
		return nil, err
	}

	var managerOpts []core.ManagerOption
	if o.logger != nil {
		managerOpts = append(managerOpts, core.WithManagerLogger(o.logger))
	}
	if o.idGenerator != nil {
		managerOpts = append(managerOpts, core.WithIDGenerator(o.idGenerator))
	}
	return core.NewManager(storage, managerOpts...), nil
}
