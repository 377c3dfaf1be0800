package state

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

// Storage provides thread-safe access to state.yaml.
type Storage struct {
	mu   sync.RWMutex
	path string
}

// NewStorage returns a Storage backed by the file at path.
func NewStorage(path string) *Storage {
	return &Storage{path: path}
}

// Path returns the backing file.
func (s *Storage) Path() string {
	return s.path
}

// Load reads state.yaml. A missing file yields an empty Selection.
func (s *Storage) Load() (*Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadLocked()
}

func (s *Storage) loadLocked() (*Selection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Selection{}, nil
		}
		return nil, apperr.IO("read", s.path, err)
	}

	var sel Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return nil, fmt.Errorf("failed to parse state file %s: %w", s.path, err)
	}
	return &sel, nil
}

func (s *Storage) saveLocked(sel *Selection) error {
	data, err := yaml.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	return fsutil.AtomicWriteFile(s.path, data, fsutil.FilePerm)
}

// Current returns the selected name for kind, honoring the environment
// override. An empty string means nothing is selected.
func (s *Storage) Current(kind apperr.Kind) (string, error) {
	if v := os.Getenv(EnvVar(kind)); v != "" {
		return v, nil
	}
	sel, err := s.Load()
	if err != nil {
		return "", err
	}
	return sel.Current(kind), nil
}

// Resolve returns explicit when set, otherwise the current selection.
// It fails with NotFound when neither yields a name.
func (s *Storage) Resolve(kind apperr.Kind, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	name, err := s.Current(kind)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", apperr.NotFound(kind, "current "+string(kind), s.path)
	}
	return name, nil
}

// Use records name as the current selection for kind. exists guards
// against selecting something that is not there.
func (s *Storage) Use(kind apperr.Kind, name string, exists func(string) bool) error {
	if exists != nil && !exists(name) {
		return apperr.NotFound(kind, name, "")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.loadLocked()
	if err != nil {
		return err
	}
	if sel.Current(kind) == name {
		return nil
	}
	if err := sel.set(kind, name); err != nil {
		return err
	}
	if err := s.saveLocked(sel); err != nil {
		return err
	}
	logging.Info("State", "Current %s set to %s", kind, name)
	return nil
}

// Renamed follows a rename of the current selection.
func (s *Storage) Renamed(kind apperr.Kind, oldName, newName string) error {
	return s.update(kind, oldName, newName)
}

// Removed clears the selection when it names a removed entry.
func (s *Storage) Removed(kind apperr.Kind, name string) error {
	return s.update(kind, name, "")
}

func (s *Storage) update(kind apperr.Kind, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.loadLocked()
	if err != nil {
		return err
	}
	if sel.Current(kind) != from {
		return nil
	}
	if err := sel.set(kind, to); err != nil {
		return err
	}
	logging.Debug("State", "Current %s changed from %q to %q", kind, from, to)
	return s.saveLocked(sel)
}
