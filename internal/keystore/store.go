package keystore

import (
	"sync"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/secret"
	"github.com/pnguyen215/shell-sub002/internal/text"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const subsystem = "KeyStore"

// Entry is one key of the store as it sits on disk.
type Entry struct {
	Key string `json:"key" yaml:"key"`
	// Encoded is the Base64 text after '='.
	Encoded string `json:"encoded" yaml:"encoded"`
	// Comment is the '#' line directly above the entry, without the marker.
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// Value decodes the entry.
func (e Entry) Value() (string, error) {
	return Decode(e.Encoded)
}

// Store is a flat key=base64(value) file.
type Store struct {
	mu         sync.RWMutex
	path       string
	protection *ProtectedSet
	cipher     secret.Cipher
}

// Option configures a Store.
type Option func(*Store)

// WithProtection makes Remove, Rename and Update refuse keys in set.
func WithProtection(set *ProtectedSet) Option {
	return func(s *Store) { s.protection = set }
}

// WithCipher enables AddSecret and transparent decryption in Get.
func WithCipher(c secret.Cipher) Option {
	return func(s *Store) { s.cipher = c }
}

// Open returns a Store backed by path. The file is created on the first
// write; until then the store is empty.
func Open(path string, opts ...Option) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Protection returns the protected set consulted by the store, if any.
func (s *Store) Protection() *ProtectedSet {
	return s.protection
}

func (s *Store) checkProtected(key, op string) error {
	if s.protection == nil {
		return nil
	}
	protected, err := s.protection.IsProtected(key)
	if err != nil {
		logging.Warn(subsystem, "Refused to %s key %s: protected keys unreadable: %v", op, key, err)
		return err
	}
	if protected {
		logging.Warn(subsystem, "Refused to %s protected key %s", op, key)
		return apperr.Protected(key, op)
	}
	return nil
}

// Add appends key with value. An existing key is an AlreadyExistsError.
func (s *Store) Add(key, value string) error {
	return s.add(key, Encode(value), "")
}

// AddWithComment is Add with a '# comment' line written above the entry.
func (s *Store) AddWithComment(key, value, comment string) error {
	return s.add(key, Encode(value), comment)
}

// AddSecret encrypts value with the store's cipher before encoding it.
func (s *Store) AddSecret(key, value string) error {
	if s.cipher == nil {
		return apperr.Invalid(apperr.KindValue, key, "no cipher configured for secret values")
	}
	sealed, err := s.cipher.EncryptString(value)
	if err != nil {
		return err
	}
	return s.add(key, Encode(sealed), "")
}

func (s *Store) add(key, encoded, comment string) error {
	if err := text.ValidateEntryKey(key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return err
	}
	if f.index(key) >= 0 {
		return apperr.AlreadyExists(apperr.KindKey, key, s.path)
	}

	f.appendEntry(key, encoded, text.Trim(comment))
	if err := writeEntryFile(s.path, f); err != nil {
		return err
	}
	logging.Info(subsystem, "Added key %s to %s", key, s.path)
	return nil
}

// GetRaw returns the decoded value of key without decrypting it.
func (s *Store) GetRaw(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return "", err
	}
	idx := f.index(key)
	if idx < 0 {
		return "", apperr.NotFound(apperr.KindKey, key, s.path)
	}
	return Decode(f.records[idx].value)
}

// Get returns the decoded value of key. Encrypted values are decrypted when
// the store has a cipher and returned as stored otherwise.
func (s *Store) Get(key string) (string, error) {
	value, err := s.GetRaw(key)
	if err != nil {
		return "", err
	}
	if s.cipher != nil && secret.IsEncrypted(value) {
		return s.cipher.DecryptString(value)
	}
	return value, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := readEntryFile(s.path)
	return err == nil && f.index(key) >= 0
}

// Keys returns every key in file order.
func (s *Store) Keys() ([]string, error) {
	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return keys, nil
}

// Entries returns every entry in file order.
func (s *Store) Entries() ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return nil, err
	}
	return f.entries(), nil
}

// Remove deletes key and its comment line.
func (s *Store) Remove(key string) error {
	if err := s.checkProtected(key, "remove"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return err
	}
	if !f.remove(key) {
		return apperr.NotFound(apperr.KindKey, key, s.path)
	}
	if err := writeEntryFile(s.path, f); err != nil {
		return err
	}
	logging.Info(subsystem, "Removed key %s from %s", key, s.path)
	return nil
}

// Rename changes the name of oldKey in place, keeping its value and comment.
func (s *Store) Rename(oldKey, newKey string) error {
	if err := s.checkProtected(oldKey, "rename"); err != nil {
		return err
	}
	if err := text.ValidateEntryKey(newKey); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return err
	}
	idx := f.index(oldKey)
	if idx < 0 {
		return apperr.NotFound(apperr.KindKey, oldKey, s.path)
	}
	if oldKey == newKey {
		return nil
	}
	if f.index(newKey) >= 0 {
		return apperr.AlreadyExists(apperr.KindKey, newKey, s.path)
	}

	for i, r := range f.records {
		if r.kind == recordEntry && r.key == oldKey {
			f.records[i] = entryRecord(newKey, r.value)
		}
	}
	if err := writeEntryFile(s.path, f); err != nil {
		return err
	}
	logging.Info(subsystem, "Renamed key %s to %s in %s", oldKey, newKey, s.path)
	return nil
}

// Update replaces the value of an existing key in place. A key holding an
// encrypted value stays encrypted, which needs the store's cipher.
func (s *Store) Update(key, value string) error {
	if err := s.checkProtected(key, "update"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := readEntryFile(s.path)
	if err != nil {
		return err
	}
	idx := f.index(key)
	if idx < 0 {
		return apperr.NotFound(apperr.KindKey, key, s.path)
	}

	if current, err := Decode(f.records[idx].value); err == nil && secret.IsEncrypted(current) {
		if s.cipher == nil {
			return apperr.Invalid(apperr.KindValue, key, "value is encrypted; a passphrase is needed to replace it")
		}
		if value, err = s.cipher.EncryptString(value); err != nil {
			return err
		}
	}

	f.records[idx] = entryRecord(key, Encode(value))
	if err := writeEntryFile(s.path, f); err != nil {
		return err
	}
	logging.Info(subsystem, "Updated key %s in %s", key, s.path)
	return nil
}

// Set adds key or updates it when present. Protection applies to updates.
func (s *Store) Set(key, value string) error {
	if s.Exists(key) {
		return s.Update(key, value)
	}
	return s.Add(key, value)
}
