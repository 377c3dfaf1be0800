package group

import (
	"errors"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const subsystem = "Group"

// KeyResolver looks up the keys a group refers to.
type KeyResolver interface {
	Get(key string) (string, error)
	Exists(key string) bool
}

// Group is a named, ordered set of key store keys.
type Group struct {
	Name string   `json:"name" yaml:"name"`
	Keys []string `json:"keys" yaml:"keys"`
}

// Item is one resolved member of a group.
type Item struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// SyncReport describes what Sync changed.
type SyncReport struct {
	// Pruned maps each rewritten group to the keys dropped from it.
	Pruned map[string][]string `json:"pruned,omitempty" yaml:"pruned,omitempty"`
	// Removed lists groups deleted because none of their keys remained.
	Removed []string `json:"removed,omitempty" yaml:"removed,omitempty"`
	// Unchanged counts groups left as they were.
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// Changed reports whether Sync rewrote the file.
func (r SyncReport) Changed() bool {
	return len(r.Pruned) > 0 || len(r.Removed) > 0
}

// Store is a file of group=key1,key2,... lines.
type Store struct {
	mu       sync.RWMutex
	path     string
	resolver KeyResolver
}

// Open returns the group store at path resolving keys through resolver.
func Open(path string, resolver KeyResolver) *Store {
	return &Store{path: path, resolver: resolver}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

type line struct {
	raw   string
	group *Group
}

func parse(data []byte) []line {
	if len(data) == 0 {
		return nil
	}
	var lines []line
	for _, raw := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		lines = append(lines, parseLine(raw))
	}
	return lines
}

func parseLine(raw string) line {
	trimmed := text.Trim(raw)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return line{raw: raw}
	}
	name, list, ok := strings.Cut(trimmed, "=")
	name = text.Trim(name)
	if !ok || name == "" {
		return line{raw: raw}
	}

	g := &Group{Name: name}
	for _, k := range strings.Split(list, ",") {
		if k = text.Trim(k); k != "" {
			g.Keys = append(g.Keys, k)
		}
	}
	return line{raw: raw, group: g}
}

func format(g Group) line {
	return line{raw: g.Name + "=" + strings.Join(g.Keys, ","), group: &g}
}

func (s *Store) load() ([]line, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, apperr.IO("read", s.path, err)
	}
	return parse(data), nil
}

func (s *Store) save(lines []line) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.raw)
		b.WriteByte('\n')
	}
	perm := fsutil.PreservePerm(s.path, fsutil.FilePerm)
	if err := fsutil.AtomicWriteFile(s.path, []byte(b.String()), perm); err != nil {
		return apperr.IO("write", s.path, err)
	}
	return nil
}

func find(lines []line, name string) int {
	for i, l := range lines {
		if l.group != nil && l.group.Name == name {
			return i
		}
	}
	return -1
}

func validateKeys(keys []string) error {
	for _, k := range keys {
		if err := text.ValidateEntryKey(k); err != nil {
			return err
		}
		if strings.Contains(k, ",") {
			return apperr.Invalid(apperr.KindKey, k, "name cannot contain ','")
		}
	}
	return nil
}

// dedupe drops repeated keys, keeping the first occurrence.
func dedupe(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// Add stores name with keys, replacing the key list of an existing group.
// Every key must exist in the key store.
func (s *Store) Add(name string, keys []string) error {
	if err := text.ValidateEntryKey(name); err != nil {
		return apperr.Invalid(apperr.KindGroup, name, "group name must be a valid key name")
	}
	if len(keys) == 0 {
		return apperr.Invalid(apperr.KindGroup, name, "a group needs at least one key")
	}
	if err := validateKeys(keys); err != nil {
		return err
	}
	keys = dedupe(keys)
	for _, k := range keys {
		if !s.resolver.Exists(k) {
			return apperr.NotFound(apperr.KindKey, k, "")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load()
	if err != nil {
		return err
	}

	g := Group{Name: name, Keys: keys}
	if idx := find(lines, name); idx >= 0 {
		lines[idx] = format(g)
	} else {
		lines = append(lines, format(g))
	}
	if err := s.save(lines); err != nil {
		return err
	}
	logging.Info(subsystem, "Saved group %s with %d key(s)", name, len(keys))
	return nil
}

// Get returns the group called name.
func (s *Store) Get(name string) (Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, err := s.load()
	if err != nil {
		return Group{}, err
	}
	idx := find(lines, name)
	if idx < 0 {
		return Group{}, apperr.NotFound(apperr.KindGroup, name, s.path)
	}
	return *lines[idx].group, nil
}

// Exists reports whether a group called name exists.
func (s *Store) Exists(name string) bool {
	_, err := s.Get(name)
	return err == nil
}

// List returns every group in file order.
func (s *Store) List() ([]Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, err := s.load()
	if err != nil {
		return nil, err
	}
	var groups []Group
	for _, l := range lines {
		if l.group != nil {
			groups = append(groups, *l.group)
		}
	}
	return groups, nil
}

// Read resolves every key of the group. Keys that fail to resolve are
// collected in a *apperr.PartialFailure returned together with the items
// that did resolve.
func (s *Store) Read(name string) ([]Item, error) {
	g, err := s.Get(name)
	if err != nil {
		return nil, err
	}

	failures := &apperr.PartialFailure{Op: "read group " + name}
	items := make([]Item, 0, len(g.Keys))
	for _, k := range g.Keys {
		v, err := s.resolver.Get(k)
		if err != nil {
			failures.Add(k, err)
			continue
		}
		items = append(items, Item{Key: k, Value: v})
	}
	if failures.HasFailures() {
		logging.Warn(subsystem, "Group %s has %d unresolved key(s)", name, len(failures.Failures))
	}
	return items, failures.ErrOrNil()
}

// Remove deletes the group called name.
func (s *Store) Remove(name string) error {
	return s.edit(name, func(lines []line, idx int) ([]line, error) {
		return slices.Delete(lines, idx, idx+1), nil
	}, "Removed group %s", name)
}

// Rename changes the name of a group in place.
func (s *Store) Rename(oldName, newName string) error {
	if err := text.ValidateEntryKey(newName); err != nil {
		return apperr.Invalid(apperr.KindGroup, newName, "group name must be a valid key name")
	}
	return s.edit(oldName, func(lines []line, idx int) ([]line, error) {
		if find(lines, newName) >= 0 {
			return nil, apperr.AlreadyExists(apperr.KindGroup, newName, s.path)
		}
		g := *lines[idx].group
		g.Name = newName
		lines[idx] = format(g)
		return lines, nil
	}, "Renamed group %s to %s", oldName, newName)
}

// Clone appends a copy of src called dst.
func (s *Store) Clone(src, dst string) error {
	if err := text.ValidateEntryKey(dst); err != nil {
		return apperr.Invalid(apperr.KindGroup, dst, "group name must be a valid key name")
	}
	return s.edit(src, func(lines []line, idx int) ([]line, error) {
		if find(lines, dst) >= 0 {
			return nil, apperr.AlreadyExists(apperr.KindGroup, dst, s.path)
		}
		g := Group{Name: dst, Keys: slices.Clone(lines[idx].group.Keys)}
		return append(lines, format(g)), nil
	}, "Cloned group %s to %s", src, dst)
}

func (s *Store) edit(name string, fn func([]line, int) ([]line, error), logFmt string, args ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load()
	if err != nil {
		return err
	}
	idx := find(lines, name)
	if idx < 0 {
		return apperr.NotFound(apperr.KindGroup, name, s.path)
	}
	lines, err = fn(lines, idx)
	if err != nil {
		return err
	}
	if err := s.save(lines); err != nil {
		return err
	}
	logging.Info(subsystem, logFmt, args...)
	return nil
}

// Sync drops keys that no longer exist from every group and deletes groups
// left empty. Running it again without key store changes is a no-op; the
// file is only rewritten when something changed.
func (s *Store) Sync() (SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := SyncReport{}
	lines, err := s.load()
	if err != nil {
		return report, err
	}

	kept := make([]line, 0, len(lines))
	for _, l := range lines {
		if l.group == nil {
			kept = append(kept, l)
			continue
		}

		var live, dead []string
		for _, k := range l.group.Keys {
			if s.resolver.Exists(k) {
				live = append(live, k)
			} else {
				dead = append(dead, k)
			}
		}

		switch {
		case len(live) == 0:
			report.Removed = append(report.Removed, l.group.Name)
		case len(dead) > 0:
			if report.Pruned == nil {
				report.Pruned = make(map[string][]string)
			}
			report.Pruned[l.group.Name] = dead
			kept = append(kept, format(Group{Name: l.group.Name, Keys: live}))
		default:
			report.Unchanged++
			kept = append(kept, l)
		}
	}

	if !report.Changed() {
		return report, nil
	}
	if err := s.save(kept); err != nil {
		return report, err
	}
	logging.Info(subsystem, "Synced groups: %d pruned, %d removed", len(report.Pruned), len(report.Removed))
	return report, nil
}

// Search ranks group names against query, best match first.
func (s *Store) Search(query string) ([]Group, error) {
	groups, err := s.List()
	if err != nil || query == "" {
		return nil, err
	}

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}

	var out []Group
	for _, m := range fuzzy.Find(query, names) {
		out = append(out, groups[m.Index])
	}
	return out, nil
}
