package internal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gnolang/linarith/internal/linarith"
	tt "github.com/gnolang/linarith/internal/types"
)

func TestWatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	engine := NewEngine(linarith.DefaultConfig(), nil)

	require.NoError(t, engine.StartWatching(dir))
	assert.ErrorIs(t, engine.StartWatching(dir), ErrAlreadyWatching)

	path := filepath.Join(dir, "watched.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: w\nhypotheses: [x < 0, 0 < x]\nexpect: refuted\n"), 0o644))

	select {
	case res := <-engine.Results():
		require.NoError(t, res.Err)
		assert.Equal(t, path, res.Filename)
		require.NotEmpty(t, res.Results)
		assert.Equal(t, tt.VerdictRefuted, res.Results[0].Verdict)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch result")
	}

	require.NoError(t, engine.StopWatching())
	assert.ErrorIs(t, engine.StopWatching(), ErrNotWatching)

	// the results channel is closed once the loop exits
	for range engine.Results() {
	}
}

func TestIsProblemEvent(t *testing.T) {
	t.Parallel()
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "a.yml", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "a.yaml", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "a.go", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "dir/.linarith.yaml", Op: fsnotify.Write}, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, isProblemEvent(tc.event), tc.event.String())
	}
}
