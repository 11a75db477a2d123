package profile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replaceFile writes data next to path and renames it into place, the way
// editors and config management tools do.
func replaceFile(t *testing.T, path, data string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(data), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	replaceFile(t, path, "tags:\n  b: {}\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	assert.Equal(t, "<b>x</b>y", w.Filter("<b>x</b><i>y</i>"))

	replaceFile(t, path, "tags:\n  i: {}\n")
	require.NoError(t, w.Reload())
	assert.Equal(t, "x<i>y</i>", w.Filter("<b>x</b><i>y</i>"))

	replaceFile(t, path, "tags: [")
	require.Error(t, w.Reload())
	assert.Equal(t, "x<i>y</i>", w.Filter("<b>x</b><i>y</i>"), "previous policy must stay in place")
}

func TestWatcher_InitialLoadFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	replaceFile(t, path, "extends: nobody\n")

	_, err := NewWatcher(path)
	require.Error(t, err)

	_, err = NewWatcher(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	replaceFile(t, path, "tags:\n  b: {}\n")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Other files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("tags: ["), 0o600))

	replaceFile(t, path, "tags:\n  i: {}\n")
	require.Eventually(t, func() bool {
		_, ok := w.Policy().AllowedTags["i"]
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	// A broken update keeps the last good policy.
	replaceFile(t, path, "tags: [")
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, w.Policy().AllowedTags, "i")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
