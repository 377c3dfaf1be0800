package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func TestINIReadWrite(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "app.ini")

	env.mustRun("ini", "write", file, "server", "port", "8080")
	env.mustRun("ini", "write", file, "server", "host", "0.0.0.0")
	env.mustRun("ini", "write", file, "db", "name", "app")

	assert.Equal(t, "8080\n", env.mustRun("ini", "read", file, "server", "port"))
	assert.Equal(t, "server\ndb\n", env.mustRun("ini", "sections", file))
	assert.Equal(t, "port\nhost\n", env.mustRun("ini", "keys", file, "server"))
	assert.Equal(t, "host\n", env.mustRun("ini", "keys", file, "server", "--filter", "os"))

	_, _, err := env.run("ini", "read", file, "server", "missing")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))
	assert.Equal(t, "fallback\n", env.mustRun("ini", "read", file, "server", "missing", "--default", "fallback"))

	_, _, err = env.run("ini", "write", file, "bad section", "k", "v")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
}

func TestINISectionOperations(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "app.ini")
	env.mustRun("ini", "write", file, "dev", "url", "http://dev")

	env.mustRun("ini", "clone-section", file, "dev", "uat")
	env.mustRun("ini", "rename-section", file, "uat", "stage")
	env.mustRun("ini", "add-section", file, "empty")
	assert.Equal(t, "dev\nstage\nempty\n", env.mustRun("ini", "sections", file))

	env.mustRun("ini", "rm-section", file, "empty")
	env.mustRun("ini", "rm-key", file, "stage", "url")
	assert.Equal(t, "", env.mustRun("ini", "keys", file, "stage"))

	out := env.mustRun("ini", "entries", file, "dev", "-o", "json")
	var entries []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Equal(t, []map[string]string{{"key": "url", "value": "http://dev"}}, entries)
}

func TestINIArrays(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "app.ini")

	env.mustRun("ini", "set-array", file, "server", "hosts", "a.example.com", "b, c")
	assert.Equal(t, "a.example.com\nb, c\n", env.mustRun("ini", "get-array", file, "server", "hosts"))
}

func TestINIEnv(t *testing.T) {
	env := newTestEnv(t)
	file := filepath.Join(t.TempDir(), "app.ini")
	env.mustRun("ini", "write", file, "server", "port", "8080")
	env.mustRun("ini", "write", file, "db", "name", "my app")

	assert.Equal(t,
		"export APP_SERVER_PORT=8080\nexport APP_DB_NAME='my app'\n",
		env.mustRun("ini", "env", file, "--prefix", "app"))
	assert.Equal(t,
		"export DB_NAME='my app'\n",
		env.mustRun("ini", "env", file, "--section", "db"))
	assert.Equal(t,
		"unset APP_SERVER_PORT\nunset APP_DB_NAME\n",
		env.mustRun("ini", "unenv", file, "--prefix", "app"))

	out := env.mustRun("ini", "env", file, "-o", "json")
	var vars map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &vars))
	assert.Equal(t, map[string]string{"SERVER_PORT": "8080", "DB_NAME": "my app"}, vars)
}

func TestINIValidate(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.ini")
	env.mustRun("ini", "write", good, "server", "port", "8080")
	_, stderr, err := env.run("ini", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, stderr, "is valid")

	bad := filepath.Join(dir, "bad.ini")
	require.NoError(t, os.WriteFile(bad, []byte("[server]\nport=1\nport=2\nnot a pair\n"), 0o600))
	out, _, err := env.run("ini", "validate", bad)
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
	assert.Contains(t, out, "LINE")
}
