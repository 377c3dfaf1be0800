package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/internal/ini"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const confExt = ".conf"

// EffectiveConfig is the base section of a bundle overlaid with one
// environment section. Entries keep base order; keys only present in the
// environment section follow.
type EffectiveConfig struct {
	Workspace string      `json:"workspace" yaml:"workspace"`
	Conf      string      `json:"conf" yaml:"conf"`
	Section   string      `json:"section" yaml:"section"`
	Entries   []ini.Entry `json:"entries" yaml:"entries"`
}

// Get returns the effective value of key.
func (c EffectiveConfig) Get(key string) (string, bool) {
	for _, e := range c.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Map returns the entries as a map.
func (c EffectiveConfig) Map() map[string]string {
	out := make(map[string]string, len(c.Entries))
	for _, e := range c.Entries {
		out[e.Key] = e.Value
	}
	return out
}

// Overlay returns base with every entry of env applied on top.
func Overlay(base, env []ini.Entry) []ini.Entry {
	out := make([]ini.Entry, len(base), len(base)+len(env))
	copy(out, base)

	pos := make(map[string]int, len(out))
	for i, e := range out {
		pos[e.Key] = i
	}
	for _, e := range env {
		if i, ok := pos[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		pos[e.Key] = len(out)
		out = append(out, e)
	}
	return out
}

// NormalizeConfName appends ".conf" when missing and rejects names that
// would leave the .ssh directory.
func NormalizeConfName(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", apperr.Invalid(apperr.KindFile, name, "bundle name must be a plain file name")
	}
	if !strings.HasSuffix(name, confExt) {
		name += confExt
	}
	return name, nil
}

func (m *Manager) sshDir(ws string) (string, error) {
	p, err := m.Get(ws)
	if err != nil {
		return "", err
	}
	return filepath.Join(p.Dir, SSHDirName), nil
}

// SSHConfPath returns the path of bundle conf inside workspace ws.
func (m *Manager) SSHConfPath(ws, conf string) (string, error) {
	dir, err := m.sshDir(ws)
	if err != nil {
		return "", err
	}
	name, err := NormalizeConfName(conf)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) existingConf(ws, conf string) (string, error) {
	path, err := m.SSHConfPath(ws, conf)
	if err != nil {
		return "", err
	}
	if !fsutil.Exists(path) {
		return "", apperr.NotFound(apperr.KindFile, filepath.Base(path), "")
	}
	return path, nil
}

// SSHConfs lists the bundle file names of workspace ws.
func (m *Manager) SSHConfs(ws string) ([]string, error) {
	dir, err := m.sshDir(ws)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperr.IO("list", dir, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), confExt) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// AddSSHConf creates bundle conf in workspace ws from the service template.
func (m *Manager) AddSSHConf(ws, conf string) (string, error) {
	path, err := m.SSHConfPath(ws, conf)
	if err != nil {
		return "", err
	}
	if fsutil.Exists(path) {
		return "", apperr.AlreadyExists(apperr.KindFile, filepath.Base(path), filepath.Dir(path))
	}
	if err := m.PopulateSSHConf(filepath.Dir(path), filepath.Base(path)); err != nil {
		return "", err
	}
	logging.Info(subsystem, "Added bundle %s to workspace %s", filepath.Base(path), ws)
	return path, nil
}

// RemoveSSHConf deletes bundle conf from workspace ws.
func (m *Manager) RemoveSSHConf(ws, conf string) error {
	path, err := m.existingConf(ws, conf)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return apperr.IO("remove", path, err)
	}
	logging.Info(subsystem, "Removed bundle %s from workspace %s", filepath.Base(path), ws)
	return nil
}

// Environments returns the distinct sections of a bundle other than base.
func (m *Manager) Environments(ws, conf string) ([]string, error) {
	path, err := m.existingConf(ws, conf)
	if err != nil {
		return nil, err
	}

	var envs []string
	seen := map[string]bool{BaseSection: true}
	for s := range m.editor.ListSections(path) {
		if !seen[s] {
			seen[s] = true
			envs = append(envs, s)
		}
	}
	return envs, nil
}

// ResolveEffectiveConfig merges the base section of a bundle with section.
// Keys in section win; keys missing from it fall through to base.
func (m *Manager) ResolveEffectiveConfig(ws, conf, section string) (EffectiveConfig, error) {
	path, err := m.existingConf(ws, conf)
	if err != nil {
		return EffectiveConfig{}, err
	}

	doc, err := m.editor.Load(path)
	if err != nil {
		return EffectiveConfig{}, err
	}
	if !doc.HasSection(BaseSection) {
		return EffectiveConfig{}, apperr.NotFound(apperr.KindSection, BaseSection, path)
	}
	if !doc.HasSection(section) {
		return EffectiveConfig{}, apperr.NotFound(apperr.KindSection, section, path)
	}

	entries := doc.Entries(BaseSection)
	if section != BaseSection {
		entries = Overlay(entries, doc.Entries(section))
	}
	return EffectiveConfig{
		Workspace: ws,
		Conf:      filepath.Base(path),
		Section:   section,
		Entries:   entries,
	}, nil
}

// service describes the populate defaults of one bundle name.
type service struct {
	port   int
	extras []ini.Entry
}

var services = map[string]service{
	"server.conf": {port: 8080, extras: []ini.Entry{
		{Key: "app_name", Value: "server"},
		{Key: "health_path", Value: "/health"},
	}},
	"db.conf": {port: 5432, extras: []ini.Entry{
		{Key: "db_name", Value: "postgres"},
		{Key: "db_user", Value: "postgres"},
		{Key: "db_driver", Value: "postgresql"},
	}},
	"kafka.conf": {port: 9092, extras: []ini.Entry{
		{Key: "bootstrap_servers", Value: "127.0.0.1:9092"},
		{Key: "security_protocol", Value: "PLAINTEXT"},
	}},
	"nginx.conf": {port: 80, extras: []ini.Entry{
		{Key: "server_name", Value: "localhost"},
		{Key: "ssl_enabled", Value: "false"},
	}},
	"redis.conf": {port: 6379, extras: []ini.Entry{
		{Key: "redis_db", Value: "0"},
		{Key: "redis_user", Value: "default"},
	}},
}

var genericService = service{port: 8080}

// uatPortOffset is added to the base local port in the uat section.
const uatPortOffset = 1

// PopulateSSHConf writes the template for fileName into dir: a base
// section with the connection keys and the service extras, plus dev and
// uat overrides. Unknown file names get the generic template. Existing
// keys with the same names are overwritten.
func (m *Manager) PopulateSSHConf(dir, fileName string) error {
	svc, ok := services[fileName]
	if !ok {
		svc = genericService
	}
	port := strconv.Itoa(svc.port)
	path := filepath.Join(dir, fileName)

	base := []ini.Entry{
		{Key: "ssh_host", Value: "bastion.example.com"},
		{Key: "ssh_port", Value: "22"},
		{Key: "ssh_user", Value: "ubuntu"},
		{Key: "ssh_private_key", Value: "~/.ssh/id_rsa"},
		{Key: "local_host", Value: "127.0.0.1"},
		{Key: "local_port", Value: port},
		{Key: "remote_host", Value: "127.0.0.1"},
		{Key: "remote_port", Value: port},
		{Key: "server_alive_interval", Value: "60"},
		{Key: "server_alive_count_max", Value: "3"},
		{Key: "connect_timeout", Value: "10"},
	}
	base = append(base, svc.extras...)

	dev := []ini.Entry{
		{Key: "ssh_host", Value: "dev.bastion.example.com"},
		{Key: "local_port", Value: port},
	}
	uat := []ini.Entry{
		{Key: "ssh_host", Value: "uat.bastion.example.com"},
		{Key: "local_port", Value: strconv.Itoa(svc.port + uatPortOffset)},
	}

	for _, s := range []struct {
		name    string
		entries []ini.Entry
	}{
		{BaseSection, base},
		{"dev", dev},
		{"uat", uat},
	} {
		if err := m.editor.WriteEntries(path, s.name, s.entries); err != nil {
			return err
		}
	}

	logging.Debug(subsystem, "Populated %s", path)
	return nil
}
