package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

// watchWorker observes the directory of the profile file (watching the file
// itself would lose track of it after an atomic rename) and reloads the store
// when the file changes.
type watchWorker struct {
	*worker.BaseWorker
	store     *Store
	target    string
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(store *Store) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("profile-watcher"),
		store:      store,
		target:     filepath.Clean(store.Path),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	dir := filepath.Dir(w.target)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.store.config.Debounce)
	w.store.setWatcherActive(true)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.target,
		}
	})
}

// relevant reports whether event touches the profile file. Siblings, including
// our own temp files, are ignored; the rename that publishes a flush shows up
// as a Create on the target and is filtered later by content digest.
func (w *watchWorker) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *watchWorker) reconcile() {
	if _, err := w.store.reload(); err != nil {
		w.handleError(fmt.Errorf("reload failed, keeping memory: %w", err))
		return
	}
	w.store.recordReconcile()
}

func (w *watchWorker) handleError(err error) {
	w.store.config.Logger.Error("profile watcher", "error", err)
	if w.store.config.ErrorHandler != nil {
		w.store.config.ErrorHandler(err)
	}
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	log := w.store.config.Logger
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			if log.Enabled(ctx, slog.LevelDebug) {
				log.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				log.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.store.setWatcherActive(false)
	defer w.watcher.Close()

	err = w.loop(ctx)

	// Wait for an in-flight reload before the store is flushed by Close.
	w.debouncer.stopAndWait(5 * time.Second)
	return err
}

func (w *watchWorker) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.store.config.Logger.Debug("event received", "name", event.Name, "op", event.Op.String())
			if w.relevant(event) {
				w.debouncer.trigger(w.reconcile)
			}

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleError(wErr)
		}
	}
}
