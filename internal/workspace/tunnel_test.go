package workspace

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/ini"
)

func TestRenderTunnelCommand_Default(t *testing.T) {
	m := newWorkspaces(t)
	_, err := m.AddWorkspace("proj")
	require.NoError(t, err)

	cfg, err := m.ResolveEffectiveConfig("proj", "db", "uat")
	require.NoError(t, err)

	cmd, err := RenderTunnelCommand(cfg, "")
	require.NoError(t, err)
	assert.Equal(t,
		"ssh -N -o ServerAliveInterval=60 -o ServerAliveCountMax=3 -o ConnectTimeout=10 -i ~/.ssh/id_rsa -p 22 -L 127.0.0.1:5433:127.0.0.1:5432 ubuntu@uat.bastion.example.com",
		cmd)
}

func TestRenderTunnelCommand_Defaults(t *testing.T) {
	cfg := EffectiveConfig{Conf: "x.conf", Section: "dev", Entries: []ini.Entry{
		{Key: "ssh_host", Value: "h"},
		{Key: "local_port", Value: "1"},
		{Key: "remote_port", Value: "2"},
	}}

	cmd, err := RenderTunnelCommand(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "ssh -N -o ServerAliveInterval=60 -o ServerAliveCountMax=3 -o ConnectTimeout=10 -p 22 -L 127.0.0.1:1:127.0.0.1:2 h", cmd)
}

func TestRenderTunnelCommand_CustomTemplate(t *testing.T) {
	cfg := EffectiveConfig{Entries: []ini.Entry{
		{Key: "ssh_host", Value: "h"},
		{Key: "local_port", Value: "1"},
		{Key: "remote_port", Value: "2"},
	}}

	cmd, err := RenderTunnelCommand(cfg, `autossh {{ .ssh_host | upper }} {{ .local_port }}->{{ .remote_port }}`)
	require.NoError(t, err)
	assert.Equal(t, "autossh H 1->2", cmd)

	_, err = RenderTunnelCommand(cfg, "{{ .ssh_host")
	assert.Error(t, err)
}

func TestRenderTunnelCommand_MissingKey(t *testing.T) {
	cfg := EffectiveConfig{Conf: "x.conf", Section: "dev", Entries: []ini.Entry{{Key: "ssh_host", Value: "h"}}}

	_, err := RenderTunnelCommand(cfg, "")
	assert.True(t, apperr.IsNotFoundKind(err, apperr.KindKey))
}

func TestRenderTunnelCommand_FromBaseOnly(t *testing.T) {
	m := newWorkspaces(t)
	_, err := m.AddWorkspace("proj")
	require.NoError(t, err)
	writeBundle(t, m, "proj", "web.conf", "[base]\nssh_host=10.0.0.5\nlocal_port=8000\nremote_port=80\n")

	cfg, err := m.ResolveEffectiveConfig("proj", "web", BaseSection)
	require.NoError(t, err)
	cmd, err := RenderTunnelCommand(cfg, `{{ .local_port }}:{{ .remote_host | default "localhost" }}:{{ .remote_port }}@{{ .ssh_host }}`)
	require.NoError(t, err)
	assert.Equal(t, "8000:localhost:80@10.0.0.5", cmd)
	assert.Equal(t, "web.conf", filepath.Base(cfg.Conf))
}
