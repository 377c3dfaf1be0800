package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0644))
}

func TestLoad_DefaultOnly(t *testing.T) {
	dir := t.TempDir()

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.True(t, settings.INI.Strict)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
paths:
  keyStore: data/kv.conf
  workspaces: /srv/ws
ini:
  strict: false
  allowEmptyValues: true
protectedKeys: [DB_PASSWORD]
workspace:
  defaultBundles: [db.conf]
  tunnelTemplate: "ssh {{ .ssh_host }}"
`)

	settings, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "data/kv.conf", settings.Paths.KeyStore)
	assert.Equal(t, "groups.conf", settings.Paths.Groups, "unset fields keep defaults")
	assert.False(t, settings.INI.Strict)
	assert.True(t, settings.INI.AllowEmptyValues)
	assert.Equal(t, []string{"DB_PASSWORD"}, settings.ProtectedKeys)
	assert.Equal(t, []string{"db.conf"}, settings.Workspace.DefaultBundles)
	assert.Equal(t, "ssh {{ .ssh_host }}", settings.Workspace.TunnelTemplate)
	assert.Equal(t, "SHELLKIT_PASSPHRASE", settings.Secret.PassphraseEnv)

	root, err := settings.Root(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "kv.conf"), root.KeyStore)
	assert.Equal(t, "/srv/ws", root.Workspaces)
	assert.Equal(t, filepath.Join(dir, "state.yaml"), root.State)
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "paths: [not, a, map]\n")

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "paths:\n  groups: \"\"\nprotectedKeys: [\"bad key\"]\n")

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "paths.groups", verrs[0].Field)
	assert.Equal(t, "protectedKeys[0]", verrs[1].Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Settings) {}},
		{name: "empty state path", mutate: func(s *Settings) { s.Paths.State = " " }, wantErr: true},
		{name: "bad bundle", mutate: func(s *Settings) { s.Workspace.DefaultBundles = []string{"../x"} }, wantErr: true},
		{name: "no passphrase env", mutate: func(s *Settings) { s.Secret.PassphraseEnv = "" }, wantErr: true},
		{name: "extra protected key", mutate: func(s *Settings) { s.ProtectedKeys = []string{"API_TOKEN"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := Default()
	s.ProtectedKeys = []string{"API_TOKEN"}
	s.INI.AllowSpaces = true

	require.NoError(t, Save(dir, s))
	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestDefaultDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(HomeEnv, dir)
		got, err := DefaultDir()
		require.NoError(t, err)
		assert.Equal(t, dir, got)
	})

	t.Run("home directory", func(t *testing.T) {
		t.Setenv(HomeEnv, "")
		original := osUserHomeDir
		defer func() { osUserHomeDir = original }()
		osUserHomeDir = func() (string, error) { return "/home/tester", nil }

		got, err := DefaultDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/tester", ".config", "shellkit"), got)
	})

	t.Run("home lookup fails", func(t *testing.T) {
		t.Setenv(HomeEnv, "")
		original := osUserHomeDir
		defer func() { osUserHomeDir = original }()
		osUserHomeDir = func() (string, error) { return "", errors.New("no home") }

		_, err := DefaultDir()
		assert.Error(t, err)
	})
}
