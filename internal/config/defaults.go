package config

import (
	"github.com/pnguyen215/shell-sub002/internal/secret"
	"github.com/pnguyen215/shell-sub002/internal/workspace"
)

// Default returns the settings used when config.yaml is absent.
func Default() Settings {
	return Settings{
		Paths: PathSettings{
			KeyStore:      "keys.conf",
			ProtectedKeys: "protected.conf",
			Groups:        "groups.conf",
			Profiles:      "profiles",
			Workspaces:    "workspaces",
			State:         "state.yaml",
		},
		INI: INISettings{
			Strict: true,
		},
		Workspace: WorkspaceSettings{
			DefaultBundles: append([]string(nil), workspace.DefaultBundles...),
		},
		Secret: SecretSettings{
			PassphraseEnv:  secret.DefaultPassphraseEnv,
			KeyringService: secret.DefaultKeyringService,
			KeyringUser:    secret.DefaultKeyringUser,
		},
	}
}
