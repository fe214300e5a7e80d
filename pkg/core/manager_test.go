package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/core"
)

// recorder collects every event published by a Manager.
type recorder struct {
	mu     sync.Mutex
	events []core.Event
}

func (r *recorder) record(e core.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []core.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func setupManager(t *testing.T, opts ...core.ManagerOption) (*core.Manager, *recorder) {
	t.Helper()
	mgr := core.NewManager(memory.NewStore(), opts...)
	rec := &recorder{}
	unsubscribe := mgr.Subscribe(rec.record)
	t.Cleanup(unsubscribe)
	return mgr, rec
}

// memStore names the embedded field so it does not shadow the Store method.
type memStore = memory.Store

// notifyingStore is a memory store that reports outside changes on demand.
type notifyingStore struct {
	*memStore
	changed chan struct{}
}

func (s *notifyingStore) Changed() <-chan struct{} { return s.changed }

// failingStore rejects every write.
type failingStore struct {
	*memStore
}

var errDiskFull = errors.New("disk full")

func (failingStore) Store(context.Context, core.Identifier, core.Profile) error { return errDiskFull }

func TestManager_NewProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Applies Options Over Defaults", func(t *testing.T) {
		mgr, rec := setupManager(t)

		primer, err := mgr.NewProfile(ctx, core.WithTitle("Warmup"), core.WithTempo(90))
		require.NoError(t, err)
		assert.NotEmpty(t, primer.ID)
		assert.Equal(t, "Warmup", primer.Header.Title)

		p, err := mgr.GetProfile(ctx, primer.ID)
		require.NoError(t, err)
		want := core.DefaultContent()
		want.Tempo = 90
		assert.Equal(t, want, p.Content)
		assert.Equal(t, "", p.Header.Description)

		assert.Equal(t, []core.EventType{core.EventCreate}, rec.types())
		assert.Equal(t, primer.ID, rec.events[0].ID)
	})

	t.Run("New Profiles Are Appended", func(t *testing.T) {
		mgr, _ := setupManager(t)
		first, err := mgr.NewProfile(ctx)
		require.NoError(t, err)
		second, err := mgr.NewProfile(ctx)
		require.NoError(t, err)

		primers, err := mgr.ListProfiles(ctx)
		require.NoError(t, err)
		require.Len(t, primers, 2)
		assert.Equal(t, first.ID, primers[0].ID)
		assert.Equal(t, second.ID, primers[1].ID)
	})

	t.Run("Retries On Collision Then Gives Up", func(t *testing.T) {
		mgr, rec := setupManager(t, core.WithIDGenerator(func() core.Identifier { return "fixed" }))

		_, err := mgr.NewProfile(ctx)
		require.NoError(t, err)

		_, err = mgr.NewProfile(ctx)
		assert.ErrorIs(t, err, core.ErrIDExhausted)
		assert.Equal(t, []core.EventType{core.EventCreate}, rec.types(), "no event on failure")
	})

	t.Run("Storage Failure Emits Nothing", func(t *testing.T) {
		mgr := core.NewManager(failingStore{memory.NewStore()})
		rec := &recorder{}
		mgr.Subscribe(rec.record)

		_, err := mgr.NewProfile(ctx)
		assert.ErrorIs(t, err, errDiskFull)
		assert.Empty(t, rec.types())
	})
}

func TestManager_Mutations(t *testing.T) {
	ctx := context.Background()

	t.Run("Header And Content Updates", func(t *testing.T) {
		mgr, rec := setupManager(t)
		primer, err := mgr.NewProfile(ctx, core.WithTitle("a"))
		require.NoError(t, err)

		require.NoError(t, mgr.SetProfileHeader(ctx, primer.ID, core.Header{Title: "b", Description: "d"}))
		content := core.DefaultContent()
		content.Trainer = core.Trainer{Enabled: true, Start: 60, Target: 100, Accel: 5}
		require.NoError(t, mgr.SetProfileContent(ctx, primer.ID, content))

		h, err := mgr.GetProfileHeader(ctx, primer.ID)
		require.NoError(t, err)
		assert.Equal(t, core.Header{Title: "b", Description: "d"}, h)

		c, err := mgr.GetProfileContent(ctx, primer.ID)
		require.NoError(t, err)
		assert.Equal(t, content, c, "content update keeps the header")

		assert.Equal(t, []core.EventType{core.EventCreate, core.EventModify, core.EventModify}, rec.types())
	})

	t.Run("Partial Update Of Unknown Profile", func(t *testing.T) {
		mgr, rec := setupManager(t)
		err := mgr.SetProfileHeader(ctx, "ghost", core.Header{Title: "x"})
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.Empty(t, rec.types())
	})

	t.Run("Set Profile Inserts Or Replaces", func(t *testing.T) {
		mgr, rec := setupManager(t)
		p := core.DefaultProfile()
		p.Header.Title = "imported"
		require.NoError(t, mgr.SetProfile(ctx, "fixed-id", p))

		got, err := mgr.GetProfile(ctx, "fixed-id")
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.Equal(t, []core.EventType{core.EventModify}, rec.types())
	})

	t.Run("Delete Then Not Found", func(t *testing.T) {
		mgr, rec := setupManager(t)
		primer, err := mgr.NewProfile(ctx)
		require.NoError(t, err)

		require.NoError(t, mgr.DeleteProfile(ctx, primer.ID))
		_, err = mgr.GetProfile(ctx, primer.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.ErrorIs(t, mgr.DeleteProfile(ctx, primer.ID), core.ErrNotFound)

		assert.Equal(t, []core.EventType{core.EventCreate, core.EventDelete}, rec.types())
	})

	t.Run("Reorder", func(t *testing.T) {
		mgr, rec := setupManager(t)
		a, _ := mgr.NewProfile(ctx)
		b, _ := mgr.NewProfile(ctx)

		require.NoError(t, mgr.ReorderProfiles(ctx, []core.Identifier{b.ID, a.ID}))
		primers, err := mgr.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, b.ID, primers[0].ID)

		err = mgr.ReorderProfiles(ctx, []core.Identifier{a.ID, a.ID})
		assert.ErrorIs(t, err, core.ErrDuplicateID)

		assert.Equal(t, []core.EventType{core.EventCreate, core.EventCreate, core.EventReorder}, rec.types())
		assert.Equal(t, core.Identifier(""), rec.events[2].ID)
	})

	t.Run("Empty Identifier", func(t *testing.T) {
		mgr, _ := setupManager(t)
		_, err := mgr.GetProfile(ctx, "")
		assert.ErrorIs(t, err, core.ErrEmptyID)
		assert.ErrorIs(t, mgr.SetProfile(ctx, "", core.DefaultProfile()), core.ErrEmptyID)
		assert.ErrorIs(t, mgr.DeleteProfile(ctx, ""), core.ErrEmptyID)
	})

	t.Run("Subscriber May Call Back", func(t *testing.T) {
		mgr := core.NewManager(memory.NewStore())
		done := make(chan int, 1)
		mgr.Subscribe(func(e core.Event) {
			primers, err := mgr.ListProfiles(ctx)
			if err == nil {
				done <- len(primers)
			}
		})

		_, err := mgr.NewProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, <-done)
	})
}

func TestManager_Backend(t *testing.T) {
	ctx := context.Background()

	t.Run("Swap Emits Backend Event", func(t *testing.T) {
		mgr, rec := setupManager(t)
		_, err := mgr.NewProfile(ctx)
		require.NoError(t, err)

		next := memory.NewStore()
		prev := mgr.SetStorage(next)
		require.NotNil(t, prev)
		assert.Same(t, next, mgr.Storage())

		primers, err := mgr.ListProfiles(ctx)
		require.NoError(t, err)
		assert.Empty(t, primers)
		assert.Equal(t, []core.EventType{core.EventCreate, core.EventBackend}, rec.types())
	})

	t.Run("No Storage", func(t *testing.T) {
		mgr := core.NewManager(nil)
		_, err := mgr.ListProfiles(ctx)
		assert.ErrorIs(t, err, core.ErrNoStorage)
		assert.NoError(t, mgr.Close(ctx))
	})

	t.Run("Outside Changes Become Reload Events", func(t *testing.T) {
		store := &notifyingStore{memStore: memory.NewStore(), changed: make(chan struct{}, 1)}
		mgr := core.NewManager(store)
		defer mgr.Close(ctx)

		watchCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		events := mgr.Watch(watchCtx, 1)

		store.changed <- struct{}{}
		select {
		case e := <-events:
			assert.Equal(t, core.EventReload, e.Type)
		case <-watchCtx.Done():
			t.Fatal("reload was not forwarded")
		}

		state := mgr.State().(core.ManagerState)
		assert.True(t, state.Forwarding)
		assert.Equal(t, "memory-store", state.StorageType)
	})
}

func TestManager_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mgr := core.NewManager(memory.NewStore())

	events := mgr.Watch(ctx, 8)
	primer, err := mgr.NewProfile(context.Background())
	require.NoError(t, err)

	select {
	case e := <-events:
		assert.Equal(t, core.EventCreate, e.Type)
		assert.Equal(t, primer.ID, e.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return mgr.State().(core.ManagerState).Subscribers == 0
	}, 2*time.Second, 10*time.Millisecond)
}
