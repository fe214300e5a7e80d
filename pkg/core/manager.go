package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

// DefaultEventBuffer is the channel size used by Watch when none is given.
const DefaultEventBuffer = 64

const mintAttempts = 3

// Manager is the single entry point for consumers of the profile collection.
// It owns one Storage, mints identifiers and emits one Event after every
// successful mutation.
//
// All calls are serialised through one mutex, so the read-modify-write
// operations (SetProfileHeader, SetProfileContent) are atomic with respect to
// every other Manager call. Subscribers are invoked after the mutex is
// released and may call back into the Manager.
type Manager struct {
	mu       sync.Mutex
	storage  Storage
	logger   *slog.Logger
	newID    func() Identifier
	broker   *broker
	stopPump context.CancelFunc
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger used by the Manager.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithIDGenerator replaces the random UUID generator (useful for tests).
func WithIDGenerator(fn func() Identifier) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewUUID mints a random UUID identifier.
func NewUUID() Identifier {
	return Identifier(uuid.NewString())
}

// NewManager creates a Manager over storage.
func NewManager(storage Storage, opts ...ManagerOption) *Manager {
	m := &Manager{
		storage: storage,
		logger:  slog.New(slog.DiscardHandler),
		newID:   NewUUID,
		broker:  newBroker(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.startPump(storage)
	return m
}

// ProfileOption adjusts the defaults of a profile created by NewProfile.
type ProfileOption func(*Profile)

// WithHeader replaces the whole header.
func WithHeader(h Header) ProfileOption {
	return func(p *Profile) { p.Header = h }
}

// WithContent replaces the whole content.
func WithContent(c Content) ProfileOption {
	return func(p *Profile) { p.Content = c.Clone() }
}

// WithTitle sets the title.
func WithTitle(title string) ProfileOption {
	return func(p *Profile) { p.Header.Title = title }
}

// WithDescription sets the description.
func WithDescription(desc string) ProfileOption {
	return func(p *Profile) { p.Header.Description = desc }
}

// WithTempo sets the tempo in beats per minute.
func WithTempo(bpm int) ProfileOption {
	return func(p *Profile) { p.Content.Tempo = bpm }
}

// NewProfile creates a profile from DefaultProfile adjusted by opts, stores it
// under a freshly minted identifier and returns its primer.
func (m *Manager) NewProfile(ctx context.Context, opts ...ProfileOption) (Primer, error) {
	p := DefaultProfile()
	for _, opt := range opts {
		opt(&p)
	}

	var id Identifier
	err := m.withStorage(func(s Storage) error {
		var err error
		id, err = m.mintID(ctx, s)
		if err != nil {
			return err
		}
		return s.Store(ctx, id, p)
	})
	if err != nil {
		return Primer{}, fmt.Errorf("new profile: %w", err)
	}

	m.logger.Debug("profile created", "id", id, "title", p.Header.Title)
	m.emit(EventCreate, id)
	return Primer{ID: id, Header: p.Header}, nil
}

func (m *Manager) mintID(ctx context.Context, s Storage) (Identifier, error) {
	for range mintAttempts {
		id := m.newID()
		if id == "" {
			continue
		}
		_, err := s.Load(ctx, id)
		if errors.Is(err, ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
		m.logger.Warn("identifier collision, minting again", "id", id)
	}
	return "", ErrIDExhausted
}

// ListProfiles returns the primers of all profiles in user-visible order.
func (m *Manager) ListProfiles(ctx context.Context) ([]Primer, error) {
	var primers []Primer
	err := m.withStorage(func(s Storage) error {
		var err error
		primers, err = s.List(ctx)
		return err
	})
	return primers, err
}

// GetProfile returns the full profile.
func (m *Manager) GetProfile(ctx context.Context, id Identifier) (Profile, error) {
	if id == "" {
		return Profile{}, ErrEmptyID
	}
	var p Profile
	err := m.withStorage(func(s Storage) error {
		var err error
		p, err = s.Load(ctx, id)
		return err
	})
	return p, err
}

// GetProfileHeader returns only the header of a profile.
func (m *Manager) GetProfileHeader(ctx context.Context, id Identifier) (Header, error) {
	p, err := m.GetProfile(ctx, id)
	return p.Header, err
}

// GetProfileContent returns only the content of a profile.
func (m *Manager) GetProfileContent(ctx context.Context, id Identifier) (Content, error) {
	p, err := m.GetProfile(ctx, id)
	return p.Content, err
}

// SetProfile replaces a profile, inserting it when id is new.
func (m *Manager) SetProfile(ctx context.Context, id Identifier, p Profile) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := m.withStorage(func(s Storage) error { return s.Store(ctx, id, p) }); err != nil {
		return fmt.Errorf("set profile %s: %w", id, err)
	}
	m.emit(EventModify, id)
	return nil
}

// SetProfileHeader replaces the header of an existing profile.
func (m *Manager) SetProfileHeader(ctx context.Context, id Identifier, h Header) error {
	return m.update(ctx, id, func(p *Profile) { p.Header = h })
}

// SetProfileContent replaces the content of an existing profile.
func (m *Manager) SetProfileContent(ctx context.Context, id Identifier, c Content) error {
	return m.update(ctx, id, func(p *Profile) { p.Content = c.Clone() })
}

func (m *Manager) update(ctx context.Context, id Identifier, fn func(*Profile)) error {
	if id == "" {
		return ErrEmptyID
	}
	err := m.withStorage(func(s Storage) error {
		p, err := s.Load(ctx, id)
		if err != nil {
			return err
		}
		fn(&p)
		return s.Store(ctx, id, p)
	})
	if err != nil {
		return fmt.Errorf("update profile %s: %w", id, err)
	}
	m.emit(EventModify, id)
	return nil
}

// DeleteProfile removes a profile.
func (m *Manager) DeleteProfile(ctx context.Context, id Identifier) error {
	if id == "" {
		return ErrEmptyID
	}
	if err := m.withStorage(func(s Storage) error { return s.Remove(ctx, id) }); err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	m.emit(EventDelete, id)
	return nil
}

// ReorderProfiles applies a new permutation of identifiers (see Storage.Reorder).
func (m *Manager) ReorderProfiles(ctx context.Context, ids []Identifier) error {
	if err := m.withStorage(func(s Storage) error { return s.Reorder(ctx, ids) }); err != nil {
		return fmt.Errorf("reorder profiles: %w", err)
	}
	m.emit(EventReorder, "")
	return nil
}

// Storage returns the current backend.
func (m *Manager) Storage() Storage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storage
}

// SetStorage swaps the backend and returns the previous one, which the caller
// now owns (it is neither flushed nor closed).
func (m *Manager) SetStorage(s Storage) Storage {
	m.mu.Lock()
	prev := m.storage
	m.storage = s
	m.startPump(s)
	m.mu.Unlock()

	m.emit(EventBackend, "")
	return prev
}

// Flush asks the backend to persist buffered state.
func (m *Manager) Flush(ctx context.Context) error {
	return m.withStorage(func(s Storage) error { return s.Flush(ctx) })
}

// Close stops forwarding storage notifications and closes the backend
// (or flushes it when it has nothing to close).
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopPump != nil {
		m.stopPump()
		m.stopPump = nil
	}
	if m.storage == nil {
		return nil
	}
	if c, ok := m.storage.(Closer); ok {
		return c.Close(ctx)
	}
	return m.storage.Flush(ctx)
}

// Subscribe registers fn to be called with every Event. The returned function
// removes the subscription; calling it more than once is safe.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	return m.broker.subscribe(fn)
}

// Watch returns a channel receiving every Event until ctx is done, at which
// point the channel is closed. Events are dropped (and logged) when the
// receiver falls more than buffer events behind.
func (m *Manager) Watch(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = DefaultEventBuffer
	}
	ch := make(chan Event, buffer)

	var mu sync.Mutex
	closed := false
	unsubscribe := m.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- e:
		default:
			m.logger.Warn("dropping event, watcher too slow", "event", e.String())
		}
	})

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
		return nil
	})
	return ch
}

func (m *Manager) withStorage(fn func(Storage) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.storage == nil {
		return ErrNoStorage
	}
	return fn(m.storage)
}

func (m *Manager) emit(t EventType, id Identifier) {
	m.broker.publish(Event{Type: t, ID: id, Timestamp: time.Now().Unix()})
}

// startPump forwards the backend's storage-changed notifications as
// EventReload. Callers hold m.mu.
func (m *Manager) startPump(s Storage) {
	if m.stopPump != nil {
		m.stopPump()
		m.stopPump = nil
	}
	if s == nil {
		return
	}
	changed := s.Changed()
	if changed == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.stopPump = cancel
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changed:
				if !ok {
					return nil
				}
				m.logger.Info("storage changed outside the process, reloaded")
				m.emit(EventReload, "")
			}
		}
	})
}
