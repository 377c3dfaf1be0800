package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/pnguyen215/shell-sub002/internal/fsutil"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

const (
	// HomeEnv overrides the default configuration directory.
	HomeEnv = "SHELLKIT_HOME"

	userConfigDir  = ".config/shellkit"
	configFileName = "config.yaml"
)

// osUserHomeDir is a package variable so tests can redirect the home
// directory.
var osUserHomeDir = os.UserHomeDir

// DefaultDir returns the configuration directory used when none is given:
// $SHELLKIT_HOME if set, otherwise ~/.config/shellkit.
func DefaultDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return filepath.Abs(dir)
	}
	home, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user home directory: %w", err)
	}
	return filepath.Join(home, userConfigDir), nil
}

// FilePath returns the location of config.yaml inside dir.
func FilePath(dir string) string {
	return filepath.Join(dir, configFileName)
}

// Load reads config.yaml from dir on top of Default. A missing file yields
// the defaults.
func Load(dir string) (Settings, error) {
	configFilePath := FilePath(dir)
	settings := Default()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("Config", "No config.yaml found at %s, using defaults", configFilePath)
			return settings, nil
		}
		logging.Info("Config", "Error loading config.yaml from %s: %s", configFilePath, err)
		return Settings{}, err
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid config %s: %w", configFilePath, err)
	}
	logging.Info("Config", "Loaded configuration from %s", configFilePath)
	return settings, nil
}

// Save writes settings to config.yaml inside dir.
func Save(dir string, settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	return fsutil.AtomicWriteFile(FilePath(dir), data, fsutil.FilePerm)
}

// Root resolves every path against dir.
func (s Settings) Root(dir string) (Root, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Root{}, fmt.Errorf("failed to resolve config dir %s: %w", dir, err)
	}
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(abs, p)
	}
	return Root{
		Dir:           abs,
		KeyStore:      resolve(s.Paths.KeyStore),
		ProtectedKeys: resolve(s.Paths.ProtectedKeys),
		Groups:        resolve(s.Paths.Groups),
		Profiles:      resolve(s.Paths.Profiles),
		Workspaces:    resolve(s.Paths.Workspaces),
		State:         resolve(s.Paths.State),
	}, nil
}
