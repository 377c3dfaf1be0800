package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/group"
	"github.com/pnguyen215/shell-sub002/internal/ini"
	pkgstrings "github.com/pnguyen215/shell-sub002/pkg/strings"
)

var (
	groupGetExport  bool
	groupGetMask    bool
	groupRemoveConf bool
)

// groupCmd represents the group command group
var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage named groups of keys",
	Long: `Manage named groups of key/value store keys.

A group is an ordered list of existing keys that can be read together,
for example to export them into a shell.

Examples:
  shellkit group add db DB_HOST DB_PORT DB_USER
  shellkit group get db
  eval "$(shellkit group get db --export)"
  shellkit group list
  shellkit group clone db db-replica
  shellkit group rename db-replica replica
  shellkit group sync     # drop keys that no longer exist
  shellkit group rm replica`,
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name> <key>...",
	Short: "Create or replace a group",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.groups.Add(args[0], args[1:]); err != nil {
			return err
		}
		a.msg.Success("Group %q saved", args[0])
		return nil
	},
}

var groupGetCmd = &cobra.Command{
	Use:               "get <name>",
	Aliases:           []string{"read"},
	Short:             "Print the keys and values of a group",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeGroups,
	RunE:              runGroupGet,
}

var groupListCmd = &cobra.Command{
	Use:     "list [query]",
	Aliases: []string{"ls"},
	Short:   "List groups, optionally fuzzy filtered",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGroupList,
}

var groupRemoveCmd = &cobra.Command{
	Use:               "rm <name>",
	Aliases:           []string{"remove", "delete"},
	Short:             "Remove a group",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeGroups,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if groupRemoveConf && a.groups.Exists(args[0]) {
			ok, err := a.confirm(fmt.Sprintf("Remove group %q?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				a.msg.Info("Aborted.")
				return nil
			}
		}
		if err := a.groups.Remove(args[0]); err != nil {
			return err
		}
		a.msg.Success("Group %q removed", args[0])
		return nil
	},
}

var groupRenameCmd = &cobra.Command{
	Use:               "rename <old-name> <new-name>",
	Short:             "Rename a group",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeGroups,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.groups.Rename(args[0], args[1]); err != nil {
			return err
		}
		a.msg.Success("Group %q renamed to %q", args[0], args[1])
		return nil
	},
}

var groupCloneCmd = &cobra.Command{
	Use:               "clone <source> <destination>",
	Short:             "Copy a group under a new name",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeGroups,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.groups.Clone(args[0], args[1]); err != nil {
			return err
		}
		a.msg.Success("Group %q cloned to %q", args[0], args[1])
		return nil
	},
}

var groupSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Drop missing keys from groups and delete empty groups",
	Args:  cobra.NoArgs,
	RunE:  runGroupSync,
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.AddCommand(groupAddCmd)
	groupCmd.AddCommand(groupGetCmd)
	groupCmd.AddCommand(groupListCmd)
	groupCmd.AddCommand(groupRemoveCmd)
	groupCmd.AddCommand(groupRenameCmd)
	groupCmd.AddCommand(groupCloneCmd)
	groupCmd.AddCommand(groupSyncCmd)

	groupGetCmd.Flags().BoolVar(&groupGetExport, "export", false, "Print shell export statements; names are upper-cased with non-alphanumerics as '_'")
	groupGetCmd.Flags().BoolVar(&groupGetMask, "mask", false, "Mask values in table output")
	groupRemoveCmd.Flags().BoolVar(&groupRemoveConf, "confirm", true, "Ask before removing")
}

// completeGroups provides shell completion for group names
func completeGroups(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	groups, _ := a.groups.List()
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func runGroupGet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	// Unresolved keys are reported after the items that did resolve.
	items, readErr := a.groups.Read(args[0])
	if items == nil && readErr != nil {
		return readErr
	}

	if groupGetExport {
		for _, it := range items {
			fmt.Fprintf(a.printer.Writer(), "export %s=%s\n", ini.DeriveVarName("", "", it.Key), shellescape.Quote(it.Value))
		}
		return readErr
	}

	t := cli.Table{Headers: []string{"Key", "Value"}, Data: items}
	for _, it := range items {
		v := it.Value
		if groupGetMask {
			v = pkgstrings.Mask(v)
		}
		t.Rows = append(t.Rows, []string{it.Key, v})
	}
	if err := a.printer.PrintTable(t); err != nil {
		return err
	}
	return readErr
}

func runGroupList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var groups []group.Group
	if len(args) == 1 {
		groups, err = a.groups.Search(args[0])
	} else {
		groups, err = a.groups.List()
	}
	if err != nil {
		return err
	}
	if groups == nil {
		groups = []group.Group{}
	}

	t := cli.Table{Headers: []string{"Name", "Keys"}, Data: groups}
	for _, g := range groups {
		t.Rows = append(t.Rows, []string{g.Name, strings.Join(g.Keys, ",")})
	}
	return a.printer.PrintTable(t)
}

func runGroupSync(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	report, err := a.groups.Sync()
	if err != nil {
		return err
	}
	if a.printer.Structured() {
		return a.printer.PrintData(report)
	}
	if !report.Changed() {
		a.msg.Info("Groups are in sync (%d unchanged).", report.Unchanged)
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(report.Pruned)) {
		a.msg.Success("Group %q: dropped %s", name, strings.Join(report.Pruned[name], ", "))
	}
	for _, name := range report.Removed {
		a.msg.Success("Group %q removed, none of its keys remain", name)
	}
	return nil
}
