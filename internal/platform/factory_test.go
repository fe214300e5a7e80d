package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cadence/internal/platform"
	"github.com/aretw0/cadence/pkg/adapters/fs"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/core"
)

func setupManager(t *testing.T, opts ...platform.Option) (*core.Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.xml")

	mgr, err := platform.New(context.Background(), path, opts...)
	require.NoError(t, err)
	return mgr, path
}

func TestNew_PersistsThroughFile(t *testing.T) {
	ctx := context.Background()
	mgr, path := setupManager(t)

	primer, err := mgr.NewProfile(ctx, core.WithTitle("Warmup"), core.WithTempo(90))
	require.NoError(t, err)
	require.NoError(t, mgr.Close(ctx))

	reopened, err := platform.New(ctx, path)
	require.NoError(t, err)

	p, err := reopened.GetProfile(ctx, primer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Warmup", p.Header.Title)
	assert.Equal(t, 90, p.Content.Tempo)
}

func TestNew_Options(t *testing.T) {
	ctx := context.Background()

	t.Run("Injected Storage Skips The File", func(t *testing.T) {
		store := memory.NewStore()
		mgr, path := setupManager(t, platform.WithStorage(store))

		_, err := mgr.NewProfile(ctx)
		require.NoError(t, err)
		require.NoError(t, mgr.Close(ctx))

		assert.Equal(t, 1, store.Snapshot().Len())
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("ID Generator", func(t *testing.T) {
		mgr, _ := setupManager(t, platform.WithIDGenerator(func() core.Identifier { return "fixed" }))
		primer, err := mgr.NewProfile(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Identifier("fixed"), primer.ID)
	})

	t.Run("Perm And Format", func(t *testing.T) {
		mgr, path := setupManager(t, platform.WithPerm(0o640), platform.WithFormat("metronome", "7"))
		_, err := mgr.NewProfile(ctx)
		require.NoError(t, err)
		require.NoError(t, mgr.Flush(ctx))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `<metronome version="7">`)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	})

	t.Run("Corrupt Backup Can Be Disabled", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "profiles.xml")
		require.NoError(t, os.WriteFile(path, []byte("<cadence"), 0o600))

		_, err := platform.Init(ctx, path, platform.WithBackupCorrupt(false))
		require.NoError(t, err)
		_, err = os.Stat(path + fs.CorruptSuffix)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestNew_Watch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mgr, path := setupManager(t, platform.WithWatch(true), platform.WithDebounce(20*time.Millisecond))
	t.Cleanup(func() { _ = mgr.Close(context.Background()) })

	require.Eventually(t, func() bool {
		state, ok := mgr.Storage().(*fs.Store).State().(fs.StoreState)
		return ok && state.WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	events := mgr.Watch(ctx, 4)
	doc := `<cadence version="1"><profile id="outside"><header><title>edited</title></header></profile></cadence>`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	select {
	case e := <-events:
		assert.Equal(t, core.EventReload, e.Type)
	case <-ctx.Done():
		t.Fatal("outside edit was not reported")
	}

	h, err := mgr.GetProfileHeader(ctx, "outside")
	require.NoError(t, err)
	assert.Equal(t, "edited", h.Title)
}
