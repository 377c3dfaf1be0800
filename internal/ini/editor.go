package ini

import (
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const subsystem = "INI"

// ErrEmptyValue is returned by Read for a key whose value is empty when
// empty values are not allowed.
var ErrEmptyValue = errors.New("value is empty")

// Options controls name validation and empty value handling.
type Options struct {
	// Strict rejects section and key names containing '[', ']' or '='.
	Strict bool
	// AllowSpaces permits whitespace in section and key names.
	AllowSpaces bool
	// AllowEmptyValues lets Read return "" and Write store "".
	AllowEmptyValues bool
}

func (o Options) rules() text.Rules {
	return text.Rules{Strict: o.Strict, AllowSpaces: o.AllowSpaces}
}

// Editor performs file level INI operations.
type Editor struct {
	opts Options
}

// NewEditor returns an Editor using opts.
func NewEditor(opts Options) *Editor {
	return &Editor{opts: opts}
}

// Options returns the editor's options.
func (e *Editor) Options() Options {
	return e.opts
}

// Load parses the file at path. A missing file is a NotFoundError.
func (e *Editor) Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.NotFound(apperr.KindFile, path, "")
		}
		return nil, apperr.IO("read", path, err)
	}
	return Parse(data), nil
}

// loadOrEmpty is Load for write-type operations: a missing file is an
// empty document.
func (e *Editor) loadOrEmpty(path string) (*Document, error) {
	doc, err := e.Load(path)
	if apperr.IsNotFoundKind(err, apperr.KindFile) {
		return &Document{}, nil
	}
	return doc, err
}

// Save writes doc to path atomically, keeping the existing file mode.
func (e *Editor) Save(path string, doc *Document) error {
	perm := fsutil.PreservePerm(path, fsutil.FilePerm)
	if err := fsutil.AtomicWriteFile(path, doc.Bytes(), perm); err != nil {
		return apperr.IO("write", path, err)
	}
	return nil
}

func (e *Editor) checkSection(section string) error {
	return text.ValidateSectionName(section, e.opts.rules())
}

func (e *Editor) checkKey(key string) error {
	return text.ValidateKeyName(key, e.opts.rules())
}

func (e *Editor) loadSection(path, section string) (*Document, error) {
	doc, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	if !doc.HasSection(section) {
		return nil, apperr.NotFound(apperr.KindSection, section, path)
	}
	return doc, nil
}

// Read returns the decoded value of key in section.
func (e *Editor) Read(path, section, key string) (string, error) {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return "", err
	}

	value, ok := doc.Get(section, key)
	if !ok {
		return "", apperr.NotFound(apperr.KindKey, key, path)
	}
	if value == "" && !e.opts.AllowEmptyValues {
		return "", fmt.Errorf("key %q in section %q: %w", key, section, ErrEmptyValue)
	}
	return value, nil
}

// GetOrDefault returns the value of key in section, or def on any failure.
func (e *Editor) GetOrDefault(path, section, key, def string) string {
	value, err := e.Read(path, section, key)
	if err != nil {
		return def
	}
	return value
}

// Entries returns the decoded entries of section.
func (e *Editor) Entries(path, section string) ([]Entry, error) {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return nil, err
	}
	return doc.Entries(section), nil
}

// ListSections yields section names in file order, duplicates included.
// The file is read again each time the sequence is ranged over; a read
// failure yields nothing.
func (e *Editor) ListSections(path string) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc, err := e.Load(path)
		if err != nil {
			logging.Debug(subsystem, "Listing sections of %s: %v", path, err)
			return
		}
		for _, name := range doc.Sections() {
			if !yield(name) {
				return
			}
		}
	}
}

// Sections returns the section names of path.
func (e *Editor) Sections(path string) ([]string, error) {
	doc, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	return doc.Sections(), nil
}

// ListKeys yields the keys of section in occurrence order. Like
// ListSections it re-reads the file on every range and yields nothing on
// failure.
func (e *Editor) ListKeys(path, section string) iter.Seq[string] {
	return func(yield func(string) bool) {
		doc, err := e.Load(path)
		if err != nil {
			logging.Debug(subsystem, "Listing keys of %s: %v", path, err)
			return
		}
		for _, key := range doc.Keys(section) {
			if !yield(key) {
				return
			}
		}
	}
}

// Keys returns the keys of section.
func (e *Editor) Keys(path, section string) ([]string, error) {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return nil, err
	}
	return doc.Keys(section), nil
}

// SectionExists reports whether path has a section header named section.
func (e *Editor) SectionExists(path, section string) bool {
	doc, err := e.Load(path)
	return err == nil && doc.HasSection(section)
}

// KeyExists reports whether key is present in section.
func (e *Editor) KeyExists(path, section, key string) bool {
	doc, err := e.Load(path)
	if err != nil {
		return false
	}
	_, ok := doc.Raw(section, key)
	return ok
}

// AddSection appends a header for section. An existing section is not an
// error. The file is created when missing.
func (e *Editor) AddSection(path, section string) error {
	if err := e.checkSection(section); err != nil {
		return err
	}

	doc, err := e.loadOrEmpty(path)
	if err != nil {
		return err
	}
	if !doc.AddSection(section) {
		return nil
	}
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, "Added section [%s] to %s", section, path)
	return nil
}

// Write sets key in section to value, creating the file and section as
// needed. An existing key is replaced in place.
func (e *Editor) Write(path, section, key, value string) error {
	if err := e.checkWrite(section, key); err != nil {
		return err
	}
	if value == "" && !e.opts.AllowEmptyValues {
		return apperr.Invalid(apperr.KindValue, key, "empty values are not allowed")
	}
	return e.mutate(path, func(doc *Document) {
		doc.Set(section, key, value)
	}, "Wrote %s.%s to %s", section, key, path)
}

// WriteEntries sets several keys of section in one rewrite.
func (e *Editor) WriteEntries(path, section string, entries []Entry) error {
	if err := e.checkSection(section); err != nil {
		return err
	}
	for _, en := range entries {
		if err := e.checkKey(en.Key); err != nil {
			return err
		}
		if en.Value == "" && !e.opts.AllowEmptyValues {
			return apperr.Invalid(apperr.KindValue, en.Key, "empty values are not allowed")
		}
	}
	return e.mutate(path, func(doc *Document) {
		doc.AddSection(section)
		for _, en := range entries {
			doc.Set(section, en.Key, en.Value)
		}
	}, "Wrote %d key(s) to [%s] in %s", len(entries), section, path)
}

func (e *Editor) checkWrite(section, key string) error {
	if err := e.checkSection(section); err != nil {
		return err
	}
	return e.checkKey(key)
}

func (e *Editor) mutate(path string, fn func(*Document), logFmt string, args ...interface{}) error {
	doc, err := e.loadOrEmpty(path)
	if err != nil {
		return err
	}
	fn(doc)
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, logFmt, args...)
	return nil
}

// RemoveSection deletes section and every line up to the next header.
func (e *Editor) RemoveSection(path, section string) error {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return err
	}
	doc.RemoveSection(section)
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, "Removed section [%s] from %s", section, path)
	return nil
}

// RemoveKey deletes key from section.
func (e *Editor) RemoveKey(path, section, key string) error {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return err
	}
	if !doc.RemoveKey(section, key) {
		return apperr.NotFound(apperr.KindKey, key, path)
	}
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, "Removed %s.%s from %s", section, key, path)
	return nil
}

// RenameSection changes the header of section from to to.
func (e *Editor) RenameSection(path, from, to string) error {
	if err := e.checkSection(to); err != nil {
		return err
	}
	doc, err := e.loadSection(path, from)
	if err != nil {
		return err
	}
	if doc.HasSection(to) {
		return apperr.AlreadyExists(apperr.KindSection, to, path)
	}
	doc.RenameSection(from, to)
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, "Renamed section [%s] to [%s] in %s", from, to, path)
	return nil
}

// CloneSection appends a copy of src named dst.
func (e *Editor) CloneSection(path, src, dst string) error {
	if err := e.checkSection(dst); err != nil {
		return err
	}
	doc, err := e.loadSection(path, src)
	if err != nil {
		return err
	}
	if doc.HasSection(dst) {
		return apperr.AlreadyExists(apperr.KindSection, dst, path)
	}
	doc.CloneSection(src, dst)
	if err := e.Save(path, doc); err != nil {
		return err
	}
	logging.Debug(subsystem, "Cloned section [%s] to [%s] in %s", src, dst, path)
	return nil
}

// SetArrayValue stores elems under key in section.
func (e *Editor) SetArrayValue(path, section, key string, elems []string) error {
	if err := e.checkWrite(section, key); err != nil {
		return err
	}
	return e.mutate(path, func(doc *Document) {
		doc.SetRaw(section, key, JoinArray(elems))
	}, "Wrote %d element(s) to %s.%s in %s", len(elems), section, key, path)
}

// GetArrayValue returns the elements stored under key in section.
func (e *Editor) GetArrayValue(path, section, key string) ([]string, error) {
	doc, err := e.loadSection(path, section)
	if err != nil {
		return nil, err
	}
	raw, ok := doc.Raw(section, key)
	if !ok {
		return nil, apperr.NotFound(apperr.KindKey, key, path)
	}
	elems, err := SplitArray(raw)
	if err != nil {
		return nil, fmt.Errorf("key %q in section %q: %w", key, section, err)
	}
	return elems, nil
}

// targets returns the (section, entries) pairs that ExposeEnv and
// DestroyEnv operate on.
func (e *Editor) targets(path, section string) (map[string][]Entry, []string, error) {
	doc, err := e.Load(path)
	if err != nil {
		return nil, nil, err
	}

	sections := []string{section}
	if section == "" {
		sections = uniq(doc.Sections())
	} else if !doc.HasSection(section) {
		return nil, nil, apperr.NotFound(apperr.KindSection, section, path)
	}

	out := make(map[string][]Entry, len(sections))
	for _, s := range sections {
		out[s] = doc.Entries(s)
	}
	return out, sections, nil
}

// ExposeEnv binds every key of section, or of every section when section
// is empty, to the variable named by DeriveVarName. It returns the names
// bound, in file order. A nil env means the process environment.
func (e *Editor) ExposeEnv(path, prefix, section string, env Environ) ([]string, error) {
	if env == nil {
		env = ProcessEnv{}
	}
	bySection, order, err := e.targets(path, section)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, s := range order {
		for _, en := range bySection[s] {
			name := DeriveVarName(prefix, s, en.Key)
			if err := env.Setenv(name, en.Value); err != nil {
				return names, fmt.Errorf("failed to set %s: %w", name, err)
			}
			names = append(names, name)
		}
	}
	logging.Debug(subsystem, "Exposed %d variable(s) from %s", len(names), path)
	return names, nil
}

// DestroyEnv unsets the variables ExposeEnv would bind for the same
// arguments and returns their names.
func (e *Editor) DestroyEnv(path, prefix, section string, env Environ) ([]string, error) {
	if env == nil {
		env = ProcessEnv{}
	}
	bySection, order, err := e.targets(path, section)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, s := range order {
		for _, en := range bySection[s] {
			name := DeriveVarName(prefix, s, en.Key)
			if err := env.Unsetenv(name); err != nil {
				return names, fmt.Errorf("failed to unset %s: %w", name, err)
			}
			names = append(names, name)
		}
	}
	logging.Debug(subsystem, "Destroyed %d variable(s) from %s", len(names), path)
	return names, nil
}

func uniq(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
