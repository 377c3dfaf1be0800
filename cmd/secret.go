package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/secret"
)

// secretCmd represents the secret command group
var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Encrypt and decrypt values and files",
	Long: `Encrypt and decrypt values and files with AES-256-GCM.

The key is derived from a passphrase looked up in this order:
  1. the environment variable named by secret.passphraseEnv
     (default SHELLKIT_PASSPHRASE)
  2. the OS keyring, see 'shellkit secret store-passphrase'
  3. a prompt, when running in a terminal

Encrypted values are printed as ENC: followed by Base64 text.

Examples:
  shellkit secret store-passphrase
  shellkit secret encrypt "s3cr3t"
  shellkit secret decrypt ENC:q1Zk...
  shellkit secret encrypt-file .env .env.enc
  shellkit secret decrypt-file .env.enc .env`,
}

var secretEncryptCmd = &cobra.Command{
	Use:   "encrypt [value]",
	Short: "Encrypt a value",
	Long:  `Encrypt a value. When the value is omitted it is read without echo.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.cipher()
		if err != nil {
			return err
		}
		value, err := a.valueArg(args, 0, "Value: ")
		if err != nil {
			return err
		}
		out, err := c.EncryptString(value)
		if err != nil {
			return err
		}
		return a.printer.PrintValue("ciphertext", out)
	},
}

var secretDecryptCmd = &cobra.Command{
	Use:   "decrypt <ciphertext>",
	Short: "Decrypt a value produced by encrypt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.cipher()
		if err != nil {
			return err
		}
		out, err := c.DecryptString(args[0])
		if err != nil {
			return err
		}
		return a.printer.PrintValue("value", out)
	},
}

var secretEncryptFileCmd = &cobra.Command{
	Use:   "encrypt-file <source> <destination>",
	Short: "Encrypt a file",
	Long:  `Encrypt a file. The destination is written with mode 0600.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.cipher()
		if err != nil {
			return err
		}
		stop := a.msg.Spin("Encrypting " + args[0])
		err = secret.EncryptFile(c, args[0], args[1])
		stop()
		if err != nil {
			return err
		}
		a.msg.Success("Encrypted %s to %s", args[0], args[1])
		return nil
	},
}

var secretDecryptFileCmd = &cobra.Command{
	Use:   "decrypt-file <source> <destination>",
	Short: "Decrypt a file produced by encrypt-file",
	Long:  `Decrypt a file. The destination is written with mode 0600.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		c, err := a.cipher()
		if err != nil {
			return err
		}
		stop := a.msg.Spin("Decrypting " + args[0])
		err = secret.DecryptFile(c, args[0], args[1])
		stop()
		if err != nil {
			return err
		}
		a.msg.Success("Decrypted %s to %s", args[0], args[1])
		return nil
	},
}

var secretStorePassphraseCmd = &cobra.Command{
	Use:   "store-passphrase",
	Short: "Save the passphrase in the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		p, err := a.prompter.ReadNewSecret("Passphrase: ")
		if err != nil {
			return err
		}
		if err := a.keyring().Store(p); err != nil {
			return err
		}
		a.msg.Success("Passphrase stored in the OS keyring")
		return nil
	},
}

var secretForgetPassphraseCmd = &cobra.Command{
	Use:   "forget-passphrase",
	Short: "Remove the passphrase from the OS keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.keyring().Delete(); err != nil {
			return err
		}
		a.msg.Success("Passphrase removed from the OS keyring")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
	secretCmd.AddCommand(secretEncryptCmd)
	secretCmd.AddCommand(secretDecryptCmd)
	secretCmd.AddCommand(secretEncryptFileCmd)
	secretCmd.AddCommand(secretDecryptFileCmd)
	secretCmd.AddCommand(secretStorePassphraseCmd)
	secretCmd.AddCommand(secretForgetPassphraseCmd)
}
