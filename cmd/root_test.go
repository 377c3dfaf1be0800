package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "shellkit", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestVersionCommand(t *testing.T) {
	original := rootCmd.Version
	defer func() { rootCmd.Version = original }()
	SetVersion("1.2.3-test")

	env := newTestEnv(t)
	assert.Equal(t, "shellkit version 1.2.3-test\n", env.mustRun("version"))
	assert.Equal(t, "shellkit version 1.2.3-test\n", env.mustRun("--version"))

	var info versionInfo
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("version", "-o", "json")), &info))
	assert.Equal(t, "1.2.3-test", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)

	require.NoError(t, os.WriteFile(filepath.Join(env.dir, "config.yaml"), []byte("ini: [broken\n"), 0644))
	assert.Equal(t, "shellkit version 1.2.3-test\n", env.mustRun("version"), "config.yaml is not read")
}

func TestSubcommands(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "kv", "group", "ini", "profile", "workspace", "secret", "config"} {
		assert.True(t, found[name], "expected subcommand %s to be registered", name)
	}
}

func TestGetExitCode(t *testing.T) {
	partial := &apperr.PartialFailure{Op: "read group db"}
	partial.Add("DB_HOST", apperr.NotFound(apperr.KindKey, "DB_HOST", ""))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"general", errors.New("boom"), ExitCodeError},
		{"not found", apperr.NotFound(apperr.KindProfile, "dev", ""), ExitCodeNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", apperr.NotFound(apperr.KindFile, "a.ini", "")), ExitCodeNotFound},
		{"already exists", apperr.AlreadyExists(apperr.KindKey, "A", ""), ExitCodeAlreadyExists},
		{"validation", apperr.Invalid(apperr.KindKey, "1A", "bad"), ExitCodeValidation},
		{"protected", apperr.Protected("SECRET_KEY", "remove"), ExitCodeProtected},
		{"partial", partial, ExitCodePartialFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestRootFlagValidation(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("kv", "list", "-o", "xml")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))

	_, _, err = env.run("kv", "list", "--log-level", "loud")
	assert.Equal(t, ExitCodeValidation, getExitCode(err))
}
