package workspace

import (
	"github.com/pnguyen215/shell-sub002/internal/keystore"
)

// Conf returns the key store backed by the profile.conf of name. Profile
// stores have no protected keys.
func (m *Manager) Conf(name string) (*keystore.Store, error) {
	p, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	return keystore.Open(p.ConfPath), nil
}

// AddProfileConf adds key to the store of profile name.
func (m *Manager) AddProfileConf(name, key, value string) error {
	conf, err := m.Conf(name)
	if err != nil {
		return err
	}
	return conf.Add(key, value)
}

// GetProfileConfValue returns the decoded value of key in profile name.
func (m *Manager) GetProfileConfValue(name, key string) (string, error) {
	conf, err := m.Conf(name)
	if err != nil {
		return "", err
	}
	return conf.Get(key)
}

// RemoveProfileConfKey removes key from profile name.
func (m *Manager) RemoveProfileConfKey(name, key string) error {
	conf, err := m.Conf(name)
	if err != nil {
		return err
	}
	return conf.Remove(key)
}

// RenameProfileConfKey renames oldKey to newKey in profile name.
func (m *Manager) RenameProfileConfKey(name, oldKey, newKey string) error {
	conf, err := m.Conf(name)
	if err != nil {
		return err
	}
	return conf.Rename(oldKey, newKey)
}

// UpdateProfileConfValue replaces the value of key in profile name.
func (m *Manager) UpdateProfileConfValue(name, key, value string) error {
	conf, err := m.Conf(name)
	if err != nil {
		return err
	}
	return conf.Update(key, value)
}

// ListProfileConfKeys returns the keys of profile name in file order.
func (m *Manager) ListProfileConfKeys(name string) ([]string, error) {
	conf, err := m.Conf(name)
	if err != nil {
		return nil, err
	}
	return conf.Keys()
}
