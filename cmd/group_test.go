package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/group"
)

func seedDBKeys(env *testEnv) {
	env.mustRun("kv", "add", "DB_HOST", "localhost")
	env.mustRun("kv", "add", "DB_PORT", "5432")
	env.mustRun("kv", "add", "DB_PASSWORD", "it's secret")
}

func TestGroupAddGetExport(t *testing.T) {
	env := newTestEnv(t)
	seedDBKeys(env)

	env.mustRun("group", "add", "db", "DB_HOST", "DB_PORT", "DB_PASSWORD")

	out := env.mustRun("group", "get", "db", "--export")
	assert.Equal(t, "export DB_HOST=localhost\nexport DB_PORT=5432\nexport DB_PASSWORD='it'\"'\"'s secret'\n", out)

	out = env.mustRun("group", "get", "db", "-o", "json")
	var items []group.Item
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	assert.Equal(t, []group.Item{
		{Key: "DB_HOST", Value: "localhost"},
		{Key: "DB_PORT", Value: "5432"},
		{Key: "DB_PASSWORD", Value: "it's secret"},
	}, items)

	_, _, err := env.run("group", "add", "broken", "DB_HOST", "NOPE")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))

	_, _, err = env.run("group", "get", "nope")
	assert.Equal(t, ExitCodeNotFound, getExitCode(err))
}

func TestGroupGetExportVariableNames(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("kv", "add", "app.url", "https://example.com")
	env.mustRun("kv", "add", "my-key", "k")
	env.mustRun("group", "add", "web", "app.url", "my-key")

	out := env.mustRun("group", "get", "web", "--export")
	assert.Equal(t, "export APP_URL=https://example.com\nexport MY_KEY=k\n", out)
}

func TestGroupGetPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	seedDBKeys(env)
	env.mustRun("group", "add", "db", "DB_HOST", "DB_PORT")
	env.mustRun("kv", "rm", "DB_PORT", "-y")

	out, _, err := env.run("group", "get", "db", "--export")
	assert.Equal(t, "export DB_HOST=localhost\n", out)
	assert.Equal(t, ExitCodePartialFailure, getExitCode(err))
}

func TestGroupListRenameCloneRemove(t *testing.T) {
	env := newTestEnv(t)
	seedDBKeys(env)
	env.mustRun("group", "add", "db", "DB_HOST", "DB_PORT")

	env.mustRun("group", "clone", "db", "replica")
	env.mustRun("group", "rename", "replica", "standby")

	out := env.mustRun("group", "list", "-o", "json")
	var groups []group.Group
	require.NoError(t, json.Unmarshal([]byte(out), &groups))
	assert.Equal(t, []group.Group{
		{Name: "db", Keys: []string{"DB_HOST", "DB_PORT"}},
		{Name: "standby", Keys: []string{"DB_HOST", "DB_PORT"}},
	}, groups)

	_, _, err := env.run("group", "clone", "db", "standby")
	assert.True(t, apperr.IsAlreadyExists(err))

	env.mustRun("group", "rm", "standby", "-y")
	assert.Equal(t, [][]string{{"NAME", "KEYS"}, {"db", "DB_HOST,DB_PORT"}}, tableRows(env.mustRun("group", "list")))
}

func TestGroupSync(t *testing.T) {
	env := newTestEnv(t)
	seedDBKeys(env)
	env.mustRun("group", "add", "db", "DB_HOST", "DB_PORT")
	env.mustRun("group", "add", "port", "DB_PORT")
	env.mustRun("kv", "rm", "DB_PORT", "-y")

	out := env.mustRun("group", "sync", "-o", "json")
	var report group.SyncReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, map[string][]string{"db": {"DB_PORT"}}, report.Pruned)
	assert.Equal(t, []string{"port"}, report.Removed)

	_, stderr, err := env.run("group", "sync")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Groups are in sync")
}
