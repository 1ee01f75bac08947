package prefs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-app-core/prefs"
	"github.com/jrsteele09/go-app-core/storage"
)

func TestDefaults(t *testing.T) {
	store := prefs.New(storage.NewMemory())
	require.Equal(t, prefs.ThemeSystem, store.Theme())
	require.False(t, store.IsDrawerOpen())
	require.Nil(t, store.Toast())
}

func TestThemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	first := prefs.New(mem)
	first.SetTheme(prefs.ThemeDark)
	first.Flush()

	second := prefs.New(mem)
	second.Restore(ctx)
	require.Equal(t, prefs.ThemeDark, second.Theme())
}

func TestDrawerStateIsTransient(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()

	first := prefs.New(mem)
	first.SetDrawerOpen(true)
	first.SetTheme(prefs.ThemeLight)
	first.Flush()

	second := prefs.New(mem)
	second.Restore(ctx)
	require.Equal(t, prefs.ThemeLight, second.Theme())
	require.False(t, second.IsDrawerOpen(), "drawer state must not be persisted")
}

func TestToggleDrawer(t *testing.T) {
	store := prefs.New(storage.NewMemory())
	store.ToggleDrawer()
	require.True(t, store.IsDrawerOpen())
	store.ToggleDrawer()
	require.False(t, store.IsDrawerOpen())
}

func TestToastLifecycle(t *testing.T) {
	store := prefs.New(storage.NewMemory())

	store.ShowToast("saved", prefs.ToastSuccess)
	toast := store.Toast()
	require.NotNil(t, toast)
	require.Equal(t, "saved", toast.Message)
	require.Equal(t, prefs.ToastSuccess, toast.Type)

	store.HideToast()
	require.Nil(t, store.Toast())
}

func TestShowToastDefaultsToInfo(t *testing.T) {
	store := prefs.New(storage.NewMemory())
	store.ShowToast("heads up", "")
	require.Equal(t, prefs.ToastInfo, store.Toast().Type)
}

// slowFirstWriteStorage stalls the first SetItem so a later write can finish
// before it
type slowFirstWriteStorage struct {
	*storage.Memory
	mu    sync.Mutex
	calls int
}

func (s *slowFirstWriteStorage) SetItem(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()

	if first {
		time.Sleep(50 * time.Millisecond)
	}
	return s.Memory.SetItem(ctx, key, value)
}

func TestLatestThemeSurvivesSlowEarlierWrite(t *testing.T) {
	st := &slowFirstWriteStorage{Memory: storage.NewMemory()}

	first := prefs.New(st)
	first.SetTheme(prefs.ThemeDark)
	first.SetTheme(prefs.ThemeLight)
	first.Flush()

	second := prefs.New(st)
	second.Restore(context.Background())
	require.Equal(t, prefs.ThemeLight, second.Theme())
}

func TestRestoreDiscardsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	require.NoError(t, mem.SetItem(ctx, "ui-storage", "{broken"))

	store := prefs.New(mem)
	store.Restore(ctx)
	require.Equal(t, prefs.ThemeSystem, store.Theme())
}
