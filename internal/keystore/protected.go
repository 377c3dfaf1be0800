package keystore

import (
	"errors"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const protectedSubsystem = "Protected"

// BuiltinProtectedKeys are always protected. They hold the encryption
// material and long lived tokens that other tooling reads by name.
var BuiltinProtectedKeys = []string{
	"SECRET_KEY",
	"SECRET_IV",
	"TELEGRAM_BOT_TOKEN",
	"TELEGRAM_CHAT_ID",
	"GEMINI_API_KEY",
}

// KeyChecker reports whether a key exists.
type KeyChecker interface {
	Exists(key string) bool
}

// ProtectedKey is one member of a ProtectedSet.
type ProtectedKey struct {
	Key     string `json:"key" yaml:"key"`
	Builtin bool   `json:"builtin" yaml:"builtin"`
}

// ProtectedSet is the union of built-in key names and a user managed file
// of newline separated names.
type ProtectedSet struct {
	mu      sync.RWMutex
	path    string
	builtin []string
}

// OpenProtected returns the set stored at path. builtin replaces
// BuiltinProtectedKeys when non-empty.
func OpenProtected(path string, builtin ...string) *ProtectedSet {
	if len(builtin) == 0 {
		builtin = BuiltinProtectedKeys
	}
	return &ProtectedSet{path: path, builtin: slices.Clone(builtin)}
}

// Path returns the backing file.
func (p *ProtectedSet) Path() string {
	return p.path
}

func (p *ProtectedSet) isBuiltin(key string) bool {
	return slices.Contains(p.builtin, key)
}

func (p *ProtectedSet) load() ([]string, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperr.IO("read", p.path, err)
	}

	var keys []string
	for _, line := range strings.Split(string(data), "\n") {
		if k := text.Trim(line); k != "" && !strings.HasPrefix(k, "#") {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (p *ProtectedSet) save(keys []string) error {
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('\n')
	}
	perm := fsutil.PreservePerm(p.path, fsutil.FilePerm)
	if err := fsutil.AtomicWriteFile(p.path, []byte(b.String()), perm); err != nil {
		return apperr.IO("write", p.path, err)
	}
	return nil
}

// IsProtected reports whether key is built in or listed in the file. A
// missing file protects only the built-ins; a file that exists but cannot
// be read is an IOError, and callers must treat the key as protected.
func (p *ProtectedSet) IsProtected(key string) (bool, error) {
	if p.isBuiltin(key) {
		return true, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	keys, err := p.load()
	if err != nil {
		return false, err
	}
	return slices.Contains(keys, key), nil
}

// Add protects key, which must exist in store. Protecting a key twice is
// not an error.
func (p *ProtectedSet) Add(store KeyChecker, key string) error {
	if err := text.ValidateEntryKey(key); err != nil {
		return err
	}
	if !store.Exists(key) {
		return apperr.NotFound(apperr.KindKey, key, "")
	}
	if p.isBuiltin(key) {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	keys, err := p.load()
	if err != nil {
		return err
	}
	if slices.Contains(keys, key) {
		return nil
	}
	if err := p.save(append(keys, key)); err != nil {
		return err
	}
	logging.Info(protectedSubsystem, "Protected key %s", key)
	return nil
}

// Remove lifts protection from key. Built-in keys cannot be unprotected.
func (p *ProtectedSet) Remove(key string) error {
	if p.isBuiltin(key) {
		return apperr.Protected(key, "unprotect")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	keys, err := p.load()
	if err != nil {
		return err
	}
	idx := slices.Index(keys, key)
	if idx < 0 {
		return apperr.NotFound(apperr.KindKey, key, p.path)
	}
	if err := p.save(slices.Delete(keys, idx, idx+1)); err != nil {
		return err
	}
	logging.Info(protectedSubsystem, "Unprotected key %s", key)
	return nil
}

// List returns the built-in keys followed by the file's keys.
func (p *ProtectedSet) List() ([]ProtectedKey, error) {
	p.mu.RLock()
	keys, err := p.load()
	p.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	out := make([]ProtectedKey, 0, len(p.builtin)+len(keys))
	for _, k := range p.builtin {
		out = append(out, ProtectedKey{Key: k, Builtin: true})
	}
	for _, k := range keys {
		if !p.isBuiltin(k) {
			out = append(out, ProtectedKey{Key: k})
		}
	}
	return out, nil
}

// Sync drops file entries whose key no longer exists in store and returns
// the dropped names. Built-in keys are never touched. The file is only
// rewritten when something was dropped.
func (p *ProtectedSet) Sync(store KeyChecker) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys, err := p.load()
	if err != nil {
		return nil, err
	}

	var kept, dropped []string
	for _, k := range keys {
		if store.Exists(k) {
			kept = append(kept, k)
		} else {
			dropped = append(dropped, k)
		}
	}
	if len(dropped) == 0 {
		return nil, nil
	}
	if err := p.save(kept); err != nil {
		return nil, err
	}
	logging.Info(protectedSubsystem, "Dropped %d stale protected key(s)", len(dropped))
	return dropped, nil
}
