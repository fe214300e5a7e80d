// Package memory provides a Storage that keeps profiles in process memory only.
// It is used by tests and as a scratch backend that can be swapped into a
// Manager at runtime.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/cadence/pkg/core"
)

// Store implements core.Storage in memory.
type Store struct {
	core.NopFlush

	mu  sync.RWMutex
	col *core.Collection
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{col: core.NewCollection()}
}

// NewStoreFrom returns a store seeded with a copy of col.
func NewStoreFrom(col *core.Collection) *Store {
	return &Store{col: col.Clone()}
}

func (s *Store) List(ctx context.Context) ([]core.Primer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Primers(), nil
}

func (s *Store) Load(ctx context.Context, id core.Identifier) (core.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Get(id)
}

func (s *Store) Store(ctx context.Context, id core.Identifier, p core.Profile) error {
	if err := core.ValidateRecord(id, p.Header); err != nil {
		return err
	}
	p.Content = p.Content.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.col.Put(id, p)
	return nil
}

func (s *Store) Reorder(ctx context.Context, ids []core.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Reorder(ids)
}

func (s *Store) Remove(ctx context.Context, id core.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.col.Remove(id)
}

// Snapshot returns an independent copy of the stored collection.
func (s *Store) Snapshot() *core.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.col.Clone()
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{"profiles": s.col.Len()}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ core.Storage = (*Store)(nil)
