// Package config provides configuration management for shellkit.
//
// Configuration is loaded from a single directory. The default directory is
// ~/.config/shellkit; SHELLKIT_HOME or the --config-dir flag override it.
//
// # Configuration Directory
//
// The directory holds config.yaml plus the data files shellkit manages:
//
//	~/.config/shellkit/
//	├── config.yaml        settings (optional)
//	├── keys.conf          key/value store
//	├── protected.conf     protected key list
//	├── groups.conf        group store
//	├── state.yaml         current profile and workspace
//	├── profiles/<name>/profile.conf
//	└── workspaces/<name>/{profile.conf,.ssh/*.conf}
//
// # Settings
//
// A missing config.yaml is not an error; Load returns Default. Relative
// paths in the paths block are resolved against the configuration
// directory by Root, which is the only place file locations are computed.
// Stores receive the resolved paths from their callers and never consult
// globals.
//
//	paths:
//	  keyStore: keys.conf
//	  workspaces: /srv/shared/workspaces
//	ini:
//	  strict: true
//	protectedKeys: [DB_PASSWORD]
//	workspace:
//	  defaultBundles: [db.conf, redis.conf]
//	secret:
//	  passphraseEnv: SHELLKIT_PASSPHRASE
package config
