package secret

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const (
	// DefaultPassphraseEnv is the environment variable checked first.
	DefaultPassphraseEnv = "SHELLKIT_PASSPHRASE"
	// DefaultKeyringService is the OS keyring service name.
	DefaultKeyringService = "shellkit"
	// DefaultKeyringUser is the OS keyring account name.
	DefaultKeyringUser = "passphrase"
)

// ErrNoPassphrase is returned when no source has a passphrase.
var ErrNoPassphrase = errors.New("no passphrase configured")

// PassphraseSource looks up the passphrase used to build a Cipher.
type PassphraseSource interface {
	Passphrase() (string, error)
}

// EnvSource reads the passphrase from an environment variable.
type EnvSource struct {
	Var string
}

// Passphrase returns the variable's value or ErrNoPassphrase when unset or empty.
func (s EnvSource) Passphrase() (string, error) {
	if v := os.Getenv(s.Var); v != "" {
		return v, nil
	}
	return "", ErrNoPassphrase
}

// KeyringSource reads the passphrase from the OS keyring.
type KeyringSource struct {
	Service string
	User    string
}

// Passphrase returns the stored secret or ErrNoPassphrase when no entry exists.
func (s KeyringSource) Passphrase() (string, error) {
	v, err := keyring.Get(s.Service, s.User)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoPassphrase
		}
		return "", fmt.Errorf("failed to read keyring %s/%s: %w", s.Service, s.User, err)
	}
	return v, nil
}

// Store saves passphrase in the OS keyring.
func (s KeyringSource) Store(passphrase string) error {
	if passphrase == "" {
		return ErrEmptyPassphrase
	}
	if err := keyring.Set(s.Service, s.User, passphrase); err != nil {
		return fmt.Errorf("failed to write keyring %s/%s: %w", s.Service, s.User, err)
	}
	logging.Info(subsystem, "Stored passphrase in keyring service %s", s.Service)
	return nil
}

// Delete removes the stored passphrase. A missing entry is not an error.
func (s KeyringSource) Delete() error {
	err := keyring.Delete(s.Service, s.User)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete keyring %s/%s: %w", s.Service, s.User, err)
	}
	return nil
}

// Chain tries each source in order and returns the first passphrase found.
type Chain []PassphraseSource

func (c Chain) Passphrase() (string, error) {
	for _, src := range c {
		p, err := src.Passphrase()
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNoPassphrase) {
			logging.Debug(subsystem, "Passphrase source failed: %v", err)
		}
	}
	return "", ErrNoPassphrase
}

// NewCipherFrom builds a PassphraseCipher from the first passphrase src yields.
func NewCipherFrom(src PassphraseSource) (*PassphraseCipher, error) {
	p, err := src.Passphrase()
	if err != nil {
		return nil, err
	}
	return NewPassphraseCipher(p)
}
