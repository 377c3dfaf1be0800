package workspace

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
)

// DefaultTunnelTemplate renders an ssh local port forward from an
// effective bundle configuration.
const DefaultTunnelTemplate = `ssh -N` +
	` -o ServerAliveInterval={{ .server_alive_interval | default "60" }}` +
	` -o ServerAliveCountMax={{ .server_alive_count_max | default "3" }}` +
	` -o ConnectTimeout={{ .connect_timeout | default "10" }}` +
	`{{ with .ssh_private_key }} -i {{ . }}{{ end }}` +
	` -p {{ .ssh_port | default "22" }}` +
	` -L {{ .local_host | default "127.0.0.1" }}:{{ .local_port }}:{{ .remote_host | default "127.0.0.1" }}:{{ .remote_port }}` +
	` {{ with .ssh_user }}{{ . }}@{{ end }}{{ .ssh_host }}`

// TunnelRequiredKeys must be present and non-empty to render a tunnel.
var TunnelRequiredKeys = []string{"ssh_host", "local_port", "remote_port"}

// RenderTunnelCommand renders tmpl with the effective configuration as
// data and the sprig function map. An empty tmpl uses
// DefaultTunnelTemplate. The command is returned, never run.
func RenderTunnelCommand(cfg EffectiveConfig, tmpl string) (string, error) {
	if tmpl == "" {
		tmpl = DefaultTunnelTemplate
	}

	data := cfg.Map()
	for _, key := range TunnelRequiredKeys {
		if strings.TrimSpace(data[key]) == "" {
			return "", apperr.NotFound(apperr.KindKey, key, cfg.Conf+" ["+cfg.Section+"]")
		}
	}

	t, err := template.New("tunnel").
		Option("missingkey=zero").
		Funcs(sprig.TxtFuncMap()).
		Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("invalid tunnel template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render tunnel command: %w", err)
	}
	return strings.Join(strings.Fields(buf.String()), " "), nil
}
