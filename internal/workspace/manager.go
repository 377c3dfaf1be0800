package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/internal/ini"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const subsystem = "Workspace"

const (
	// ConfFileName is the profile store inside every entry directory.
	ConfFileName = "profile.conf"
	// SSHDirName holds the SSH config bundles of a workspace.
	SSHDirName = ".ssh"
	// BaseSection is the section every bundle inherits from.
	BaseSection = "base"

	stagingPrefix = ".staging-"
)

// DefaultBundles are the SSH bundles created with a new workspace.
var DefaultBundles = []string{"server.conf", "db.conf", "kafka.conf", "nginx.conf", "redis.conf"}

// Profile is one named entry directory.
type Profile struct {
	Name     string `json:"name" yaml:"name"`
	Dir      string `json:"dir" yaml:"dir"`
	ConfPath string `json:"conf" yaml:"conf"`
	// SSHDir is set for workspaces.
	SSHDir string `json:"sshDir,omitempty" yaml:"sshDir,omitempty"`
}

// Manager owns the named directories under one root. The same type serves
// profiles and workspaces; kind only changes error messages and whether
// SSH bundles are expected.
type Manager struct {
	mu             sync.Mutex
	root           string
	kind           apperr.Kind
	editor         *ini.Editor
	defaultBundles []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithEditor sets the INI editor used for SSH bundles.
func WithEditor(e *ini.Editor) Option {
	return func(m *Manager) { m.editor = e }
}

// WithDefaultBundles overrides the bundles AddWorkspace creates.
func WithDefaultBundles(bundles []string) Option {
	return func(m *Manager) { m.defaultBundles = bundles }
}

// NewManager returns a Manager for the entries under root.
func NewManager(root string, kind apperr.Kind, opts ...Option) *Manager {
	m := &Manager{
		root:           root,
		kind:           kind,
		editor:         ini.NewEditor(ini.Options{Strict: true}),
		defaultBundles: DefaultBundles,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Root returns the directory holding the entries.
func (m *Manager) Root() string {
	return m.root
}

// Kind returns what the manager's entries are called.
func (m *Manager) Kind() apperr.Kind {
	return m.kind
}

// Editor returns the INI editor used for SSH bundles.
func (m *Manager) Editor() *ini.Editor {
	return m.editor
}

func (m *Manager) dir(name string) string {
	return filepath.Join(m.root, name)
}

func (m *Manager) profile(name string) Profile {
	p := Profile{
		Name:     name,
		Dir:      m.dir(name),
		ConfPath: filepath.Join(m.dir(name), ConfFileName),
	}
	if m.kind == apperr.KindWorkspace {
		p.SSHDir = filepath.Join(p.Dir, SSHDirName)
	}
	return p
}

// Exists reports whether name has a directory and its profile.conf.
func (m *Manager) Exists(name string) bool {
	return fsutil.Exists(filepath.Join(m.dir(name), ConfFileName))
}

// Get returns the entry called name.
func (m *Manager) Get(name string) (Profile, error) {
	if err := text.ValidateEntityName(m.kind, name); err != nil {
		return Profile{}, err
	}
	if !m.Exists(name) {
		return Profile{}, apperr.NotFound(m.kind, name, m.root)
	}
	return m.profile(name), nil
}

// List returns every entry sorted by name. Hidden directories, including
// interrupted staging directories, are skipped.
func (m *Manager) List() ([]Profile, error) {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperr.IO("list", m.root, err)
	}

	var out []Profile
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, m.profile(e.Name()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add creates the entry called name with an empty profile.conf.
//
// The directory is assembled under a hidden staging name and renamed into
// place, so a failure never leaves a half created entry. A directory that
// exists without its profile.conf is repaired instead of rejected.
func (m *Manager) Add(name string) (Profile, error) {
	return m.add(name, nil)
}

// AddWorkspace is Add plus the .ssh directory and the default bundles.
func (m *Manager) AddWorkspace(name string) (Profile, error) {
	return m.add(name, func(dir string) error {
		sshDir := filepath.Join(dir, SSHDirName)
		if err := os.MkdirAll(sshDir, fsutil.DirPerm); err != nil {
			return err
		}
		for _, bundle := range m.defaultBundles {
			if fsutil.Exists(filepath.Join(sshDir, bundle)) {
				continue
			}
			if err := m.PopulateSSHConf(sshDir, bundle); err != nil {
				return err
			}
		}
		return nil
	})
}

func (m *Manager) add(name string, prepare func(dir string) error) (Profile, error) {
	if err := text.ValidateEntityName(m.kind, name); err != nil {
		return Profile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.root, fsutil.DirPerm); err != nil {
		return Profile{}, apperr.IO("create", m.root, err)
	}

	p := m.profile(name)
	if fsutil.IsDir(p.Dir) {
		if fsutil.Exists(p.ConfPath) {
			return Profile{}, apperr.AlreadyExists(m.kind, name, m.root)
		}
		return m.repair(p, prepare)
	}

	staging, err := os.MkdirTemp(m.root, stagingPrefix+name+"-")
	if err != nil {
		return Profile{}, apperr.IO("create", m.root, err)
	}
	published := false
	defer func() {
		if !published {
			os.RemoveAll(staging)
		}
	}()

	if err := os.Chmod(staging, fsutil.DirPerm); err != nil {
		return Profile{}, apperr.IO("create", staging, err)
	}
	if err := fsutil.EnsureFile(filepath.Join(staging, ConfFileName)); err != nil {
		return Profile{}, apperr.IO("create", p.ConfPath, err)
	}
	if prepare != nil {
		if err := prepare(staging); err != nil {
			return Profile{}, fmt.Errorf("failed to prepare %s %s: %w", m.kind, name, err)
		}
	}
	if err := os.Rename(staging, p.Dir); err != nil {
		return Profile{}, apperr.IO("create", p.Dir, err)
	}
	published = true

	logging.Info(subsystem, "Created %s %s", m.kind, name)
	return p, nil
}

func (m *Manager) repair(p Profile, prepare func(dir string) error) (Profile, error) {
	logging.Warn(subsystem, "Repairing %s %s: %s missing", m.kind, p.Name, ConfFileName)
	if err := fsutil.EnsureFile(p.ConfPath); err != nil {
		return Profile{}, apperr.IO("create", p.ConfPath, err)
	}
	if prepare != nil {
		if err := prepare(p.Dir); err != nil {
			return Profile{}, fmt.Errorf("failed to repair %s %s: %w", m.kind, p.Name, err)
		}
	}
	return p, nil
}

// Clone copies the whole directory of src, including any SSH bundles, to
// a new entry called dst.
func (m *Manager) Clone(src, dst string) (Profile, error) {
	from, err := m.Get(src)
	if err != nil {
		return Profile{}, err
	}
	if err := text.ValidateEntityName(m.kind, dst); err != nil {
		return Profile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	to := m.profile(dst)
	if fsutil.Exists(to.Dir) {
		return Profile{}, apperr.AlreadyExists(m.kind, dst, m.root)
	}

	staging, err := os.MkdirTemp(m.root, stagingPrefix+dst+"-")
	if err != nil {
		return Profile{}, apperr.IO("create", m.root, err)
	}
	defer os.RemoveAll(staging)

	tree := filepath.Join(staging, dst)
	if err := fsutil.CopyDir(from.Dir, tree); err != nil {
		return Profile{}, apperr.IO("copy", from.Dir, err)
	}
	if err := os.Rename(tree, to.Dir); err != nil {
		return Profile{}, apperr.IO("create", to.Dir, err)
	}

	logging.Info(subsystem, "Cloned %s %s to %s", m.kind, src, dst)
	return to, nil
}

// Rename moves the directory of oldName to newName.
func (m *Manager) Rename(oldName, newName string) (Profile, error) {
	from, err := m.Get(oldName)
	if err != nil {
		return Profile{}, err
	}
	if err := text.ValidateEntityName(m.kind, newName); err != nil {
		return Profile{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	to := m.profile(newName)
	if fsutil.Exists(to.Dir) {
		return Profile{}, apperr.AlreadyExists(m.kind, newName, m.root)
	}
	if err := os.Rename(from.Dir, to.Dir); err != nil {
		return Profile{}, apperr.IO("rename", from.Dir, err)
	}

	logging.Info(subsystem, "Renamed %s %s to %s", m.kind, oldName, newName)
	return to, nil
}

// Remove deletes the directory of name. Confirmation is the caller's job.
func (m *Manager) Remove(name string) error {
	p, err := m.Get(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.RemoveAll(p.Dir); err != nil {
		return apperr.IO("remove", p.Dir, err)
	}
	logging.Info(subsystem, "Removed %s %s", m.kind, name)
	return nil
}
