package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func TestMergeOps(t *testing.T) {
	tests := []struct {
		prev, next, want ChangeOp
	}{
		{OpCreated, OpUpdated, OpCreated},
		{OpCreated, OpRemoved, OpRemoved},
		{OpUpdated, OpRemoved, OpRemoved},
		{OpRemoved, OpCreated, OpUpdated},
		{OpUpdated, OpUpdated, OpUpdated},
	}

	for _, tt := range tests {
		t.Run(string(tt.prev)+"+"+string(tt.next), func(t *testing.T) {
			assert.Equal(t, tt.want, mergeOps(tt.prev, tt.next))
		})
	}
}

func TestWatcher_Relevant(t *testing.T) {
	m := newWorkspaces(t)
	_, err := m.AddWorkspace("proj")
	require.NoError(t, err)

	w, err := m.NewWatcher("proj", 0)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, w.debounce)

	dir := filepath.Join(m.Root(), "proj")
	assert.True(t, w.relevant(filepath.Join(dir, ConfFileName)))
	assert.True(t, w.relevant(filepath.Join(dir, SSHDirName, "db.conf")))
	assert.False(t, w.relevant(filepath.Join(dir, SSHDirName, ".tmp-123")))
	assert.False(t, w.relevant(filepath.Join(dir, "notes.txt")))
	assert.False(t, w.relevant(filepath.Join(dir, SSHDirName, "id_rsa")))

	_, err = m.NewWatcher("missing", 0)
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindWorkspace))
}

func TestWatcher_Run(t *testing.T) {
	m := newWorkspaces(t)
	_, err := m.AddWorkspace("proj")
	require.NoError(t, err)

	w, err := m.NewWatcher("proj", 20*time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan ChangeEvent, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	path, err := m.SSHConfPath("proj", "db")
	require.NoError(t, err)

	// Keep touching the file until the watch is established and reports it.
	var got ChangeEvent
	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("[base]\nssh_host=h\n"), 0644)
		select {
		case got = <-changes:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, "proj", got.Workspace)
	assert.Equal(t, "db.conf", got.File)
	assert.Contains(t, []ChangeOp{OpCreated, OpUpdated}, got.Op)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}
