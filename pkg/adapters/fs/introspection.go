package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path           string     `json:"path"`
	Profiles       int        `json:"profiles"`
	WatcherActive  bool       `json:"watcher_active"`
	LastImport     time.Time  `json:"last_import"`
	ImportWarnings int        `json:"import_warnings"`
	ImportError    string     `json:"import_error,omitempty"`
	LastFlush      *time.Time `json:"last_flush,omitempty"`
	LastReconcile  *time.Time `json:"last_reconcile,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := StoreState{
		Path:           s.Path,
		Profiles:       s.col.Len(),
		WatcherActive:  s.watcherActive,
		LastImport:     s.report.At,
		ImportWarnings: len(s.report.Warnings),
		LastFlush:      s.lastFlush,
		LastReconcile:  s.lastReconcile,
	}
	if s.report.Err != nil {
		state.ImportError = s.report.Err.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "profile-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Store) recordReconcile() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastReconcile = &now
}
