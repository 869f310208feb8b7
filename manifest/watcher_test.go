package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWatcherMissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestWatcherRerunsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.toml")
	initial := `[[encoders]]
suffix = "a"
width = 4
prefix = 3
`
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Manifest, 1)
	w.OnRun(func(m *Manifest) error {
		select {
		case reloaded <- m:
		default:
		}
		return nil
	})
	w.Start()

	// Give the watch loop a moment before touching the file
	time.Sleep(100 * time.Millisecond)

	updated := `[[encoders]]
suffix = "b"
width = 8
prefix = 4
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	select {
	case m := <-reloaded:
		require.Len(t, m.Encoders, 1)
		assert.Equal(t, "b", m.Encoders[0].Suffix)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not rerun after manifest change")
	}
}
