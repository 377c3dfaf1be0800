package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func newProfiles(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "profiles"), apperr.KindProfile)
}

func TestManager_Add(t *testing.T) {
	m := newProfiles(t)

	p, err := m.Add("dev")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(m.Root(), "dev"), p.Dir)
	assert.FileExists(t, p.ConfPath)
	assert.Empty(t, p.SSHDir)

	info, err := os.Stat(p.Dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	_, err = m.Add("dev")
	assert.True(t, apperr.IsAlreadyExists(err))

	_, err = m.Add("bad name")
	assert.True(t, apperr.IsValidation(err))
}

func TestManager_AddLeavesNoStagingDirs(t *testing.T) {
	m := newProfiles(t)
	_, err := m.Add("a")
	require.NoError(t, err)

	entries, err := os.ReadDir(m.Root())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].Name())
}

func TestManager_AddFailureLeavesNothing(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "ws"), apperr.KindWorkspace,
		WithDefaultBundles([]string{"db.conf", "bad\x00.conf"}))

	// The second bundle cannot be written, after profile.conf and db.conf
	// already exist in the staging directory.
	_, err := m.AddWorkspace("broken")
	require.Error(t, err)
	assert.NoDirExists(t, filepath.Join(m.Root(), "broken"))

	list, err := m.List()
	require.NoError(t, err)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.NotContains(t, names, "broken")
}

func TestManager_AddRepairsMissingConf(t *testing.T) {
	m := newProfiles(t)
	require.NoError(t, os.MkdirAll(filepath.Join(m.Root(), "half"), 0755))
	assert.False(t, m.Exists("half"))

	p, err := m.Add("half")
	require.NoError(t, err)
	assert.FileExists(t, p.ConfPath)
	assert.True(t, m.Exists("half"))
}

func TestManager_CloneRenameRemove(t *testing.T) {
	m := newProfiles(t)
	_, err := m.Add("src")
	require.NoError(t, err)
	require.NoError(t, m.AddProfileConf("src", "TOKEN", "abc"))

	_, err = m.Clone("src", "copy")
	require.NoError(t, err)
	v, err := m.GetProfileConfValue("copy", "TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	_, err = m.Clone("src", "copy")
	assert.True(t, apperr.IsAlreadyExists(err))
	_, err = m.Clone("missing", "x")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindProfile))

	_, err = m.Rename("copy", "moved")
	require.NoError(t, err)
	assert.False(t, m.Exists("copy"))
	assert.True(t, m.Exists("moved"))

	_, err = m.Rename("moved", "src")
	assert.True(t, apperr.IsAlreadyExists(err))

	require.NoError(t, m.Remove("moved"))
	assert.NoDirExists(t, filepath.Join(m.Root(), "moved"))
	assert.True(t, apperr.IsNotFound(m.Remove("moved")))

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "src", list[0].Name)
}

func TestManager_ListEmptyRoot(t *testing.T) {
	m := newProfiles(t)
	list, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestManager_ProfileConf(t *testing.T) {
	m := newProfiles(t)
	_, err := m.Add("p")
	require.NoError(t, err)

	require.NoError(t, m.AddProfileConf("p", "A", "1"))
	require.NoError(t, m.AddProfileConf("p", "B", "two words"))
	assert.True(t, apperr.IsAlreadyExists(m.AddProfileConf("p", "A", "x")))

	require.NoError(t, m.RenameProfileConfKey("p", "A", "C"))
	require.NoError(t, m.UpdateProfileConfValue("p", "C", "3"))
	require.NoError(t, m.RemoveProfileConfKey("p", "B"))

	keys, err := m.ListProfileConfKeys("p")
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, keys)

	v, err := m.GetProfileConfValue("p", "C")
	require.NoError(t, err)
	assert.Equal(t, "3", v)

	// Profile stores have no protected keys.
	require.NoError(t, m.AddProfileConf("p", "SECRET_KEY", "k"))
	require.NoError(t, m.RemoveProfileConfKey("p", "SECRET_KEY"))

	_, err = m.GetProfileConfValue("nope", "C")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindProfile))
}
