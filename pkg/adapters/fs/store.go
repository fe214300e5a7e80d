// Package fs implements core.Storage on top of a single markup file.
//
// The whole collection is read into memory when the store is opened and
// written back in full on Flush and Close. Mutations only touch memory.
package fs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
	"unicode"

	"github.com/aretw0/cadence/pkg/core"
)

// Defaults applied by Open to a zero Config.
const (
	DefaultProduct  = "cadence"
	DefaultVersion  = "1"
	DefaultPerm     = 0o600
	DefaultDebounce = 50 * time.Millisecond

	// CorruptSuffix is appended to the file name when an unreadable file is
	// set aside before it could be overwritten.
	CorruptSuffix = ".corrupt"
)

// Config holds the configuration for the file-backed store.
type Config struct {
	Path          string
	Logger        *slog.Logger
	Perm          os.FileMode   // mode of the written file, DefaultPerm when zero
	BackupCorrupt bool          // copy a malformed file to Path+CorruptSuffix on import
	Product       string        // root element name
	Version       string        // root version attribute, written but never checked on read
	Debounce      time.Duration // watcher quiet period
	ErrorHandler  func(error)   // receives watcher failures in addition to the log
}

// ImportReport describes the last import of the file.
type ImportReport struct {
	At       time.Time
	Profiles int
	Warnings []error // per-field conversion failures, see core.ConversionError
	Err      error   // whole-file failure; the collection was treated as empty
}

// Store implements core.Storage backed by one file.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	col           *core.Collection
	digest        [sha256.Size]byte // of the bytes last read from or written to Path
	dirty         bool              // memory changed since the last read or write of Path
	report        ImportReport
	lastFlush     *time.Time
	lastReconcile *time.Time
	watcherActive bool

	changed chan struct{}

	watchMu sync.Mutex
	watcher *watchWorker
}

// Open creates the store and imports Path. A missing, unreadable or malformed
// file never fails Open: the store starts empty and the reason is available
// from LastImport and the log.
func Open(config Config) (*Store, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("profile store: empty path")
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	if config.Perm == 0 {
		config.Perm = DefaultPerm
	}
	if config.Product == "" {
		config.Product = DefaultProduct
	}
	if config.Version == "" {
		config.Version = DefaultVersion
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if !validName(config.Product) {
		return nil, fmt.Errorf("profile store: root element name %q: %w", config.Product, core.ErrInvalidText)
	}
	if !core.ValidText(config.Version) {
		return nil, fmt.Errorf("profile store: version %q: %w", config.Version, core.ErrInvalidText)
	}

	s := &Store{
		Path:    config.Path,
		config:  config,
		changed: make(chan struct{}, 1),
	}

	col, digest, report := s.importFile()
	s.col = col
	s.digest = digest
	s.report = report
	return s, nil
}

// validName accepts a markup element name without a namespace prefix.
func validName(name string) bool {
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return name != ""
}

// importFile reads and decodes Path, degrading every whole-file failure to an
// empty collection.
func (s *Store) importFile() (*core.Collection, [sha256.Size]byte, ImportReport) {
	log := s.config.Logger
	report := ImportReport{At: time.Now()}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("profile file not found, starting empty", "path", s.Path)
		} else {
			report.Err = &core.ParseError{Path: s.Path, Err: err}
			log.Warn("profile file unreadable, starting empty", "path", s.Path, "error", err)
		}
		return core.NewCollection(), [sha256.Size]byte{}, report
	}
	digest := sha256.Sum256(data)

	col, warnings, err := decode(bytes.NewReader(data))
	report.Warnings = warnings
	for _, w := range warnings {
		log.Warn("profile field ignored", "path", s.Path, "error", w)
	}
	if err != nil {
		report.Err = &core.ParseError{Path: s.Path, Err: err}
		log.Warn("profile file malformed, starting empty", "path", s.Path, "error", err)
		s.backupCorrupt(data)
		return core.NewCollection(), digest, report
	}

	report.Profiles = col.Len()
	log.Debug("profiles imported", "path", s.Path, "count", col.Len(), "warnings", len(warnings))
	return col, digest, report
}

func (s *Store) backupCorrupt(data []byte) {
	if !s.config.BackupCorrupt {
		return
	}
	target := s.Path + CorruptSuffix
	if err := writeFileAtomic(target, data, s.config.Perm); err != nil {
		s.config.Logger.Error("failed to set malformed profile file aside", "path", target, "error", err)
		return
	}
	s.config.Logger.Warn("malformed profile file set aside", "path", target)
}

// LastImport returns the report of the last import or reload.
func (s *Store) LastImport() ImportReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

func (s *Store) List(ctx context.Context) ([]core.Primer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Primers(), nil
}

func (s *Store) Load(ctx context.Context, id core.Identifier) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, err := s.col.Get(id)
	if err != nil {
		return core.Profile{}, fmt.Errorf("load %s: %w", id, err)
	}
	return p, nil
}

// Store replaces the profile in place or appends it. Meters are normalized so
// the accent pattern always matches the pulse count.
func (s *Store) Store(ctx context.Context, id core.Identifier, p core.Profile) error {
	if err := core.ValidateRecord(id, p.Header); err != nil {
		return err
	}
	p.Content = p.Content.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.col.Put(id, p)
	s.dirty = true
	return nil
}

func (s *Store) Reorder(ctx context.Context, ids []core.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.col.Reorder(ids); err != nil {
		return err
	}
	s.dirty = true
	return nil
}

func (s *Store) Remove(ctx context.Context, id core.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.col.Remove(id); err != nil {
		return fmt.Errorf("remove %s: %w", id, err)
	}
	s.dirty = true
	return nil
}

// Flush rewrites the whole file from memory.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := encode(s.col, s.config.Product, s.config.Version)
	if err := writeFileAtomic(s.Path, data, s.config.Perm); err != nil {
		s.config.Logger.Error("failed to write profile file, changes not persisted", "path", s.Path, "error", err)
		return &core.IOError{Op: "flush", Path: s.Path, Err: err}
	}

	s.digest = sha256.Sum256(data)
	s.dirty = false
	now := time.Now()
	s.lastFlush = &now
	s.config.Logger.Debug("profiles flushed", "path", s.Path, "count", s.col.Len())
	return nil
}

// Changed fires after the file was changed by another writer and reloaded.
func (s *Store) Changed() <-chan struct{} {
	return s.changed
}

// Watch starts observing the file for outside edits until ctx is done or the
// store is closed.
func (s *Store) Watch(ctx context.Context) error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if s.watcher != nil {
		return fmt.Errorf("profile store already watching %s", s.Path)
	}
	w := newWatchWorker(s)
	if err := w.Start(ctx); err != nil {
		return err
	}
	s.watcher = w
	return nil
}

// Close stops the watcher and flushes when memory holds changes the file
// does not. A file nobody wrote through this store is left as it is.
func (s *Store) Close(ctx context.Context) error {
	s.watchMu.Lock()
	w := s.watcher
	s.watcher = nil
	s.watchMu.Unlock()

	var stopErr error
	if w != nil {
		stopErr = w.Stop(ctx)
	}

	s.mu.RLock()
	dirty := s.dirty
	s.mu.RUnlock()
	if !dirty {
		return stopErr
	}
	return errors.Join(stopErr, s.Flush(ctx))
}

// reload re-imports the file after an outside change. The file wins over
// unflushed memory (last writer wins). Our own writes, an unreadable file and
// a malformed file leave memory untouched; a malformed file is set aside
// first when BackupCorrupt is on, since a later flush replaces it.
func (s *Store) reload() (bool, error) {
	s.mu.RLock()
	seen := s.digest
	s.mu.RUnlock()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.config.Logger.Warn("profile file removed outside the process, keeping memory", "path", s.Path)
			return false, nil
		}
		return false, &core.ParseError{Path: s.Path, Err: err}
	}
	return s.apply(data, seen)
}

// apply swaps in the collection decoded from data, read while the store's
// digest was seen. A flush since then wrote bytes newer than data, so data is
// dropped.
func (s *Store) apply(data []byte, seen [sha256.Size]byte) (bool, error) {
	digest := sha256.Sum256(data)
	if digest == seen {
		return false, nil
	}

	col, warnings, err := decode(bytes.NewReader(data))
	if err != nil {
		s.backupCorrupt(data)
		return false, &core.ParseError{Path: s.Path, Err: err}
	}

	now := time.Now()
	s.mu.Lock()
	if s.digest != seen {
		s.mu.Unlock()
		s.config.Logger.Debug("profile file rewritten during reload, keeping memory", "path", s.Path)
		return false, nil
	}
	s.col = col
	s.digest = digest
	s.dirty = false
	s.report = ImportReport{At: now, Profiles: col.Len(), Warnings: warnings}
	s.lastReconcile = &now
	s.mu.Unlock()

	s.config.Logger.Info("profile file changed outside the process, reloaded", "path", s.Path, "count", col.Len())
	s.notify()
	return true, nil
}

// notify coalesces: one pending signal is enough for the owner to reconcile.
func (s *Store) notify() {
	select {
	case s.changed <- struct{}{}:
	default:
	}
}

var _ core.Storage = (*Store)(nil)
var _ core.Closer = (*Store)(nil)
