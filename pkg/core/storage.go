package core

import "context"

// Storage defines the contract for persisting profiles.
// Adhering to this interface keeps the Manager independent of the medium
// (single markup file, memory, anything else).
type Storage interface {
	// List returns the primers of all profiles in user-visible order.
	List(ctx context.Context) ([]Primer, error)

	// Load returns the full profile. Unknown identifiers fail with ErrNotFound.
	Load(ctx context.Context, id Identifier) (Profile, error)

	// Store inserts the profile at the end of the order when id is new,
	// otherwise replaces it in place without moving it.
	Store(ctx context.Context, id Identifier, p Profile) error

	// Reorder applies a new permutation of identifiers. A permutation that
	// names an identifier twice is rejected with ErrDuplicateID and leaves the
	// order untouched. Unknown identifiers are discarded; known identifiers the
	// caller omitted keep their relative order after the listed ones.
	Reorder(ctx context.Context, ids []Identifier) error

	// Remove deletes a profile. Unknown identifiers fail with ErrNotFound.
	Remove(ctx context.Context, id Identifier) error

	// Flush persists buffered state. Backends that write through make it a no-op.
	Flush(ctx context.Context) error

	// Changed fires when the backend detects that the medium was altered
	// outside the process and its in-memory state was reconciled.
	// A nil channel means the backend never detects external changes.
	Changed() <-chan struct{}
}

// Closer is implemented by backends that own resources (watchers, files).
type Closer interface {
	Close(ctx context.Context) error
}

// NopFlush gives embedding backends the default Flush and Changed behaviour.
type NopFlush struct{}

// Flush does nothing.
func (NopFlush) Flush(context.Context) error { return nil }

// Changed returns a nil channel, which never fires.
func (NopFlush) Changed() <-chan struct{} { return nil }
