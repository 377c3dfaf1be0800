package config

// Settings is the content of config.yaml.
type Settings struct {
	Paths         PathSettings      `yaml:"paths" json:"paths"`
	INI           INISettings       `yaml:"ini" json:"ini"`
	ProtectedKeys []string          `yaml:"protectedKeys,omitempty" json:"protectedKeys,omitempty"`
	Workspace     WorkspaceSettings `yaml:"workspace" json:"workspace"`
	Secret        SecretSettings    `yaml:"secret" json:"secret"`
}

// PathSettings locates the data files. Relative entries are resolved
// against the configuration directory.
type PathSettings struct {
	KeyStore      string `yaml:"keyStore" json:"keyStore"`
	ProtectedKeys string `yaml:"protectedKeys" json:"protectedKeys"`
	Groups        string `yaml:"groups" json:"groups"`
	Profiles      string `yaml:"profiles" json:"profiles"`
	Workspaces    string `yaml:"workspaces" json:"workspaces"`
	State         string `yaml:"state" json:"state"`
}

// INISettings configures the INI editor used by the ini commands and by
// workspace bundles.
type INISettings struct {
	Strict           bool `yaml:"strict" json:"strict"`
	AllowSpaces      bool `yaml:"allowSpaces" json:"allowSpaces"`
	AllowEmptyValues bool `yaml:"allowEmptyValues" json:"allowEmptyValues"`
}

// WorkspaceSettings configures workspace creation and tunnel rendering.
type WorkspaceSettings struct {
	DefaultBundles []string `yaml:"defaultBundles,omitempty" json:"defaultBundles,omitempty"`
	// TunnelTemplate replaces the built-in ssh command template when set.
	TunnelTemplate string `yaml:"tunnelTemplate,omitempty" json:"tunnelTemplate,omitempty"`
}

// SecretSettings names where the passphrase is looked up.
type SecretSettings struct {
	PassphraseEnv  string `yaml:"passphraseEnv" json:"passphraseEnv"`
	KeyringService string `yaml:"keyringService" json:"keyringService"`
	KeyringUser    string `yaml:"keyringUser" json:"keyringUser"`
}

// Root is the resolved, absolute view of Settings for one configuration
// directory.
type Root struct {
	Dir           string
	KeyStore      string
	ProtectedKeys string
	Groups        string
	Profiles      string
	Workspaces    string
	State         string
}
