package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/keystore"
)

// kvProtectCmd represents the kv protect command group
var kvProtectCmd = &cobra.Command{
	Use:   "protect",
	Short: "Manage protected keys",
	Long: `Manage the keys that kv rm, rename and update refuse to touch.

Built-in keys (SECRET_KEY, SECRET_IV, TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID,
GEMINI_API_KEY, plus protectedKeys from config.yaml) are always protected.

Examples:
  shellkit kv protect add DB_PASSWORD
  shellkit kv protect list
  shellkit kv protect rm DB_PASSWORD
  shellkit kv protect sync   # drop entries for keys that no longer exist`,
}

var kvProtectAddCmd = &cobra.Command{
	Use:               "add <key>",
	Short:             "Protect an existing key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.protected.Add(a.keys, args[0]); err != nil {
			return err
		}
		a.msg.Success("Key %q is protected", args[0])
		return nil
	},
}

var kvProtectRemoveCmd = &cobra.Command{
	Use:     "rm <key>",
	Aliases: []string{"remove"},
	Short:   "Lift protection from a key",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.protected.Remove(args[0]); err != nil {
			return err
		}
		a.msg.Success("Key %q is no longer protected", args[0])
		return nil
	},
}

var kvProtectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List protected keys",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		keys, err := a.protected.List()
		if err != nil {
			return err
		}
		if keys == nil {
			keys = []keystore.ProtectedKey{}
		}
		t := cli.Table{Headers: []string{"Key", "Builtin", "Present"}, Data: keys}
		for _, k := range keys {
			t.Rows = append(t.Rows, []string{k.Key, yesNo(k.Builtin), yesNo(a.keys.Exists(k.Key))})
		}
		return a.printer.PrintTable(t)
	},
}

var kvProtectSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drop protected entries for keys that no longer exist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		dropped, err := a.protected.Sync(a.keys)
		if err != nil {
			return err
		}
		if a.printer.Structured() {
			if dropped == nil {
				dropped = []string{}
			}
			return a.printer.PrintData(map[string][]string{"dropped": dropped})
		}
		if len(dropped) == 0 {
			a.msg.Info("Protected keys are in sync.")
			return nil
		}
		for _, k := range dropped {
			a.msg.Success("Dropped %q", k)
		}
		return nil
	},
}

func init() {
	kvCmd.AddCommand(kvProtectCmd)
	kvProtectCmd.AddCommand(kvProtectAddCmd)
	kvProtectCmd.AddCommand(kvProtectRemoveCmd)
	kvProtectCmd.AddCommand(kvProtectListCmd)
	kvProtectCmd.AddCommand(kvProtectSyncCmd)
}
