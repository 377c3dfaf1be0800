package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/workspace"
)

// profileCmd represents the profile command group
var profileCmd = newEntryCmd(apperr.KindProfile, `Manage profiles.

A profile is a named directory holding a profile.conf key store. One
profile can be selected as current; conf subcommands act on it unless
--name is given.

Examples:
  shellkit profile add dev --use
  shellkit profile list
  shellkit profile conf add API_URL https://dev.example.com
  shellkit profile conf list
  shellkit profile clone dev staging
  shellkit profile use staging
  shellkit profile rename staging stage
  shellkit profile rm stage`)

func init() {
	rootCmd.AddCommand(profileCmd)
}

// entryFlags are the flags shared by the profile and workspace command
// trees.
type entryFlags struct {
	use     bool
	name    string
	confirm bool
}

// newEntryCmd builds the add, clone, rename, rm, list, use, current and
// conf subcommands for kind.
func newEntryCmd(kind apperr.Kind, long string) *cobra.Command {
	flags := &entryFlags{}
	noun := string(kind)

	root := &cobra.Command{
		Use:   noun,
		Short: fmt.Sprintf("Manage %ss", noun),
		Long:  long,
	}
	complete := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return entryNames(cmd, kind), cobra.ShellCompDirectiveNoFileComp
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: fmt.Sprintf("Create a %s", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			m := a.manager(kind)
			var p workspace.Profile
			if kind == apperr.KindWorkspace {
				p, err = m.AddWorkspace(args[0])
			} else {
				p, err = m.Add(args[0])
			}
			if err != nil {
				return err
			}
			a.msg.Success("%s %q created at %s", capitalize(noun), p.Name, p.Dir)
			if flags.use {
				if err := a.state.Use(kind, p.Name, m.Exists); err != nil {
					return err
				}
				a.msg.Success("Switched to %s %q", noun, p.Name)
			}
			return nil
		},
	}
	add.Flags().BoolVar(&flags.use, "use", false, fmt.Sprintf("Select the new %s as current", noun))

	clone := &cobra.Command{
		Use:               "clone <source> <destination>",
		Short:             fmt.Sprintf("Copy a %s under a new name", noun),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.manager(kind).Clone(args[0], args[1]); err != nil {
				return err
			}
			a.msg.Success("%s %q cloned to %q", capitalize(noun), args[0], args[1])
			return nil
		},
	}

	rename := &cobra.Command{
		Use:               "rename <old-name> <new-name>",
		Short:             fmt.Sprintf("Rename a %s", noun),
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if _, err := a.manager(kind).Rename(args[0], args[1]); err != nil {
				return err
			}
			if err := a.state.Renamed(kind, args[0], args[1]); err != nil {
				return err
			}
			a.msg.Success("%s %q renamed to %q", capitalize(noun), args[0], args[1])
			return nil
		},
	}

	remove := &cobra.Command{
		Use:               "rm <name>",
		Aliases:           []string{"remove", "delete"},
		Short:             fmt.Sprintf("Delete a %s and everything in it", noun),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			m := a.manager(kind)
			name := args[0]
			if flags.confirm && m.Exists(name) {
				ok, err := a.confirm(fmt.Sprintf("Delete %s %q and all of its files?", noun, name))
				if err != nil {
					return err
				}
				if !ok {
					a.msg.Info("Aborted.")
					return nil
				}
			}
			if err := m.Remove(name); err != nil {
				return err
			}
			if err := a.state.Removed(kind, name); err != nil {
				return err
			}
			a.msg.Success("%s %q deleted", capitalize(noun), name)
			return nil
		},
	}
	remove.Flags().BoolVar(&flags.confirm, "confirm", true, "Ask before deleting")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %ss", noun),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			entries, err := a.manager(kind).List()
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []workspace.Profile{}
			}
			current, err := a.state.Current(kind)
			if err != nil {
				return err
			}
			t := cli.Table{Headers: []string{"Current", "Name", "Path"}, Data: entries}
			for _, p := range entries {
				mark := ""
				if p.Name == current {
					mark = "*"
				}
				t.Rows = append(t.Rows, []string{mark, p.Name, p.Dir})
			}
			return a.printer.PrintTable(t)
		},
	}

	use := &cobra.Command{
		Use:               "use <name>",
		Aliases:           []string{"switch"},
		Short:             fmt.Sprintf("Select the current %s", noun),
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: complete,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			if err := a.state.Use(kind, args[0], a.manager(kind).Exists); err != nil {
				return err
			}
			a.msg.Success("Switched to %s %q", noun, args[0])
			return nil
		},
	}

	current := &cobra.Command{
		Use:   "current",
		Short: fmt.Sprintf("Print the current %s", noun),
		Long: fmt.Sprintf(`Print the name of the current %s. Prints nothing when none is
selected, which is useful for scripting.`, noun),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			name, err := a.state.Current(kind)
			if err != nil {
				return err
			}
			if name == "" && !a.printer.Structured() {
				return nil
			}
			return a.printer.PrintValue(noun, name)
		},
	}

	root.AddCommand(add, clone, rename, remove, list, use, current, newConfCmd(kind, flags))
	root.PersistentFlags().StringVarP(&flags.name, "name", "n", "", fmt.Sprintf("%s to act on (default: current)", capitalize(noun)))
	return root
}

// entryNames returns profile or workspace names for shell completion
func entryNames(cmd *cobra.Command, kind apperr.Kind) []string {
	a, err := newApp(cmd)
	if err != nil {
		return nil
	}
	entries, err := a.manager(kind).List()
	if err != nil {
		return nil
	}
	names := make([]string, len(entries))
	for i, p := range entries {
		names[i] = p.Name
	}
	return names
}

// target resolves --name or the current selection.
func (a *app) target(kind apperr.Kind, flags *entryFlags) (string, error) {
	return a.state.Resolve(kind, flags.name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
