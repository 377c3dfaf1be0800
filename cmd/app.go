package cmd

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/config"
	"github.com/pnguyen215/shell-sub002/internal/group"
	"github.com/pnguyen215/shell-sub002/internal/ini"
	"github.com/pnguyen215/shell-sub002/internal/keystore"
	"github.com/pnguyen215/shell-sub002/internal/secret"
	"github.com/pnguyen215/shell-sub002/internal/state"
	"github.com/pnguyen215/shell-sub002/internal/workspace"
)

// app holds everything a command needs, built from the configuration
// directory for one invocation.
type app struct {
	dir        string
	settings   config.Settings
	root       config.Root
	editor     *ini.Editor
	protected  *keystore.ProtectedSet
	keys       *keystore.Store
	groups     *group.Store
	profiles   *workspace.Manager
	workspaces *workspace.Manager
	state      *state.Storage

	printer  *cli.Printer
	msg      *cli.Messenger
	prompter *cli.Prompter
}

// newApp loads settings and opens the stores. Stores touch the disk only
// when used.
func newApp(cmd *cobra.Command) (*app, error) {
	format, err := cli.ParseOutputFormat(rootOutputFormat)
	if err != nil {
		return nil, err
	}

	dir := rootConfigDir
	if dir == "" {
		if dir, err = config.DefaultDir(); err != nil {
			return nil, err
		}
	}
	settings, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	root, err := settings.Root(dir)
	if err != nil {
		return nil, err
	}

	editor := ini.NewEditor(ini.Options{
		Strict:           settings.INI.Strict,
		AllowSpaces:      settings.INI.AllowSpaces,
		AllowEmptyValues: settings.INI.AllowEmptyValues,
	})
	builtin := append(slices.Clone(keystore.BuiltinProtectedKeys), settings.ProtectedKeys...)
	protected := keystore.OpenProtected(root.ProtectedKeys, builtin...)
	keys := keystore.Open(root.KeyStore, keystore.WithProtection(protected))

	printer := cli.NewPrinter(cmd.OutOrStdout(), format, rootNoHeaders)
	return &app{
		dir:       root.Dir,
		settings:  settings,
		root:      root,
		editor:    editor,
		protected: protected,
		keys:      keys,
		groups:    group.Open(root.Groups, keys),
		profiles:  workspace.NewManager(root.Profiles, apperr.KindProfile),
		workspaces: workspace.NewManager(root.Workspaces, apperr.KindWorkspace,
			workspace.WithEditor(editor),
			workspace.WithDefaultBundles(settings.Workspace.DefaultBundles)),
		state:    state.NewStorage(root.State),
		printer:  printer,
		msg:      cli.NewMessenger(cmd.ErrOrStderr(), rootQuiet || printer.Structured()),
		prompter: cli.NewPrompter(cmd.InOrStdin(), cmd.ErrOrStderr()),
	}, nil
}

// confirm asks question unless --yes was given.
func (a *app) confirm(question string) (bool, error) {
	if rootAssumeYes {
		return true, nil
	}
	return a.prompter.Confirm(question)
}

// passphraseSource is the lookup order for the encryption passphrase:
// environment, then OS keyring.
func (a *app) passphraseSource() secret.Chain {
	return secret.Chain{
		secret.EnvSource{Var: a.settings.Secret.PassphraseEnv},
		a.keyring(),
	}
}

func (a *app) keyring() secret.KeyringSource {
	return secret.KeyringSource{
		Service: a.settings.Secret.KeyringService,
		User:    a.settings.Secret.KeyringUser,
	}
}

// cipher builds a cipher from the configured passphrase sources, asking
// on the terminal as a last resort.
func (a *app) cipher() (*secret.PassphraseCipher, error) {
	c, err := secret.NewCipherFrom(a.passphraseSource())
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, secret.ErrNoPassphrase) || !a.prompter.Interactive() {
		return nil, fmt.Errorf("%w: set %s or run 'shellkit secret store-passphrase'", err, a.settings.Secret.PassphraseEnv)
	}
	p, err := a.prompter.ReadSecret("Passphrase: ")
	if err != nil {
		return nil, err
	}
	return secret.NewPassphraseCipher(p)
}

// secretKeys is the key store with decryption enabled.
func (a *app) secretKeys() (*keystore.Store, error) {
	c, err := a.cipher()
	if err != nil {
		return nil, err
	}
	return keystore.Open(a.root.KeyStore, keystore.WithProtection(a.protected), keystore.WithCipher(c)), nil
}

// keysFor returns the store to change key with: secretKeys when key
// currently holds an encrypted value, the plain store otherwise.
func (a *app) keysFor(key string) (*keystore.Store, error) {
	raw, err := a.keys.GetRaw(key)
	if err != nil || !secret.IsEncrypted(raw) {
		return a.keys, nil
	}
	return a.secretKeys()
}

// manager returns the profile or workspace manager for kind.
func (a *app) manager(kind apperr.Kind) *workspace.Manager {
	if kind == apperr.KindWorkspace {
		return a.workspaces
	}
	return a.profiles
}

// valueArg returns args[i] when present, otherwise reads the value from
// the prompt without echo.
func (a *app) valueArg(args []string, i int, prompt string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return a.prompter.ReadSecret(prompt)
}
