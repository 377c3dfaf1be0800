package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	pkgstrings "github.com/pnguyen215/shell-sub002/pkg/strings"
)

// newConfCmd builds the conf subcommands that edit the profile.conf of
// the selected profile or workspace.
func newConfCmd(kind apperr.Kind, flags *entryFlags) *cobra.Command {
	noun := string(kind)
	var showValues bool

	conf := &cobra.Command{
		Use:   "conf",
		Short: fmt.Sprintf("Edit the profile.conf of a %s", noun),
		Long: fmt.Sprintf(`Edit the profile.conf key store of a %[1]s. Values are stored Base64
encoded like the main key/value store; %[1]s stores have no protected keys.

Examples:
  shellkit %[1]s conf add TOKEN abc123
  shellkit %[1]s conf get TOKEN --name other
  shellkit %[1]s conf list --show-values`, noun),
	}

	// run resolves the target entry before calling fn.
	run := func(fn func(a *app, name string, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name, err := a.target(kind, flags)
			if err != nil {
				return err
			}
			return fn(a, name, args)
		}
	}

	add := &cobra.Command{
		Use:   "add <key> [value]",
		Short: "Add a key",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run(func(a *app, name string, args []string) error {
			value, err := a.valueArg(args, 1, "Value: ")
			if err != nil {
				return err
			}
			if err := a.manager(kind).AddProfileConf(name, args[0], value); err != nil {
				return err
			}
			a.msg.Success("Key %q added to %s %q", args[0], noun, name)
			return nil
		}),
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Print a key's value",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(a *app, name string, args []string) error {
			v, err := a.manager(kind).GetProfileConfValue(name, args[0])
			if err != nil {
				return err
			}
			return a.printer.PrintValue("value", v)
		}),
	}

	remove := &cobra.Command{
		Use:     "rm <key>",
		Aliases: []string{"remove"},
		Short:   "Remove a key",
		Args:    cobra.ExactArgs(1),
		RunE: run(func(a *app, name string, args []string) error {
			if err := a.manager(kind).RemoveProfileConfKey(name, args[0]); err != nil {
				return err
			}
			a.msg.Success("Key %q removed from %s %q", args[0], noun, name)
			return nil
		}),
	}

	rename := &cobra.Command{
		Use:   "rename <old-key> <new-key>",
		Short: "Rename a key in place",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(a *app, name string, args []string) error {
			if err := a.manager(kind).RenameProfileConfKey(name, args[0], args[1]); err != nil {
				return err
			}
			a.msg.Success("Key %q renamed to %q", args[0], args[1])
			return nil
		}),
	}

	update := &cobra.Command{
		Use:   "update <key> [value]",
		Short: "Replace a key's value",
		Args:  cobra.RangeArgs(1, 2),
		RunE: run(func(a *app, name string, args []string) error {
			value, err := a.valueArg(args, 1, "New value: ")
			if err != nil {
				return err
			}
			if err := a.manager(kind).UpdateProfileConfValue(name, args[0], value); err != nil {
				return err
			}
			a.msg.Success("Key %q updated", args[0])
			return nil
		}),
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List keys",
		Args:    cobra.NoArgs,
		RunE: run(func(a *app, name string, args []string) error {
			store, err := a.manager(kind).Conf(name)
			if err != nil {
				return err
			}
			entries, err := store.Entries()
			if err != nil {
				return err
			}

			type row struct {
				Key   string `json:"key" yaml:"key"`
				Value string `json:"value,omitempty" yaml:"value,omitempty"`
			}
			data := make([]row, 0, len(entries))
			t := cli.Table{Headers: []string{"Key", "Value"}}
			for _, e := range entries {
				v, err := e.Value()
				if err != nil {
					v = "<invalid base64>"
				}
				display := pkgstrings.Mask(v)
				r := row{Key: e.Key}
				if showValues {
					display = v
					r.Value = v
				}
				data = append(data, r)
				t.Rows = append(t.Rows, []string{e.Key, display})
			}
			t.Data = data
			return a.printer.PrintTable(t)
		}),
	}
	list.Flags().BoolVar(&showValues, "show-values", false, "Show decoded values instead of masks")

	conf.AddCommand(add, get, remove, rename, update, list)
	return conf
}
