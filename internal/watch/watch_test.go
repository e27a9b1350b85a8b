package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, w *Watcher) []string {
	t.Helper()
	select {
	case batch, ok := <-w.Changes():
		require.True(t, ok, "changes channel closed")
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return nil
	}
}

func TestWatcher_DebouncesSourceChanges(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w, err := New(root, WithDebounce(50*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	a := filepath.Join(root, "a.ts")
	b := filepath.Join(root, "b.d.ts")
	require.NoError(t, os.WriteFile(a, []byte("let a;"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("declare let b;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.md"), []byte("x"), 0o644))

	// Events may be split across batches by the OS; collect until both appear.
	seen := map[string]bool{}
	for !seen[a] || !seen[b] {
		for _, p := range receive(t, w) {
			seen[p] = true
		}
	}
	assert.NotContains(t, seen, filepath.Join(root, "notes.md"))
}

func TestWatcher_SkipsConfiguredDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	skipped := filepath.Join(root, "node_modules")
	require.NoError(t, os.Mkdir(skipped, 0o755))

	w, err := New(root,
		WithDebounce(20*time.Millisecond),
		WithSkipDir(func(name string) bool { return name == "node_modules" }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	require.NoError(t, os.WriteFile(filepath.Join(skipped, "x.ts"), []byte("let x;"), 0o644))
	kept := filepath.Join(root, "y.ts")
	require.NoError(t, os.WriteFile(kept, []byte("let y;"), 0o644))

	batch := receive(t, w)
	assert.Contains(t, batch, kept)
	assert.NotContains(t, batch, filepath.Join(skipped, "x.ts"))
}

func TestWatcher_CloseClosesChanges(t *testing.T) {
	t.Parallel()
	w, err := New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, ok := <-w.Changes()
	assert.False(t, ok)
}
