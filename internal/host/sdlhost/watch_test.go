package sdlhost

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/scatterbrush/internal/keymap"
)

func next(t *testing.T, ch <-chan *keymap.Keymap) *keymap.Keymap {
	t.Helper()
	select {
	case km, ok := <-ch:
		require.True(t, ok, "watcher stopped")
		return km
	case <-time.After(5 * time.Second):
		t.Fatal("no keymap reload")
		return nil
	}
}

func TestKeymapWatcherReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  dot: D\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := WatchKeymap(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("tools:\n  dot: ctrl+shift+D\n"), 0o644))
	km := next(t, w.Updates)
	b, ok := km.Tool("dot")
	require.True(t, ok)
	assert.Equal(t, keymap.MustParse("ctrl+shift+D"), b)
}

func TestKeymapWatcherSkipsBadFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tools: {}\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w, err := WatchKeymap(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("tools: {dot: X}\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("tools: [not, a, map]\n"), 0o644))
	time.Sleep(3 * reloadDelay)
	require.NoError(t, os.WriteFile(path, []byte("tools:\n  path: ctrl+P\n"), 0o644))

	km := next(t, w.Updates)
	b, ok := km.Tool("path")
	require.True(t, ok)
	assert.Equal(t, keymap.MustParse("ctrl+P"), b)
}

func TestKeymapWatcherStopsWithContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	w, err := WatchKeymap(ctx, path)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-w.Updates:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
