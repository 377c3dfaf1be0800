package cmd

import (
	"fmt"
	"slices"
	"strconv"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/ini"
	"github.com/pnguyen215/shell-sub002/internal/text"
)

var (
	iniReadDefault string
	iniKeysFilter  string
	iniEnvPrefix   string
	iniEnvSection  string
)

// iniCmd represents the ini command group
var iniCmd = &cobra.Command{
	Use:   "ini",
	Short: "Read and edit INI files",
	Long: `Read and edit INI files in place.

Comments, blank lines and the order of untouched lines are preserved.
Writes go to a temporary file that replaces the original, so a failed
write leaves the file as it was.

Section and key names are checked according to the ini block of
config.yaml (strict by default).

Examples:
  shellkit ini write app.ini server port 8080
  shellkit ini read app.ini server port
  shellkit ini sections app.ini
  shellkit ini keys app.ini server
  shellkit ini set-array app.ini server hosts a.example.com "b, c"
  shellkit ini get-array app.ini server hosts
  eval "$(shellkit ini env app.ini --prefix APP)"
  shellkit ini validate app.ini`,
}

var iniReadCmd = &cobra.Command{
	Use:   "read <file> <section> <key>",
	Short: "Print a value",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("default") {
			return a.printer.PrintValue("value", a.editor.GetOrDefault(args[0], args[1], args[2], iniReadDefault))
		}
		v, err := a.editor.Read(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return a.printer.PrintValue("value", v)
	},
}

var iniWriteCmd = &cobra.Command{
	Use:   "write <file> <section> <key> <value>",
	Short: "Set a value, creating the file and section as needed",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.Write(args[0], args[1], args[2], args[3]); err != nil {
			return err
		}
		a.msg.Success("Wrote %s.%s", args[1], args[2])
		return nil
	},
}

var iniSectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "List section names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		sections, err := a.editor.Sections(args[0])
		if err != nil {
			return err
		}
		return a.printer.PrintLines(sections)
	},
}

var iniKeysCmd = &cobra.Command{
	Use:   "keys <file> <section>",
	Short: "List the keys of a section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		keys, err := a.editor.Keys(args[0], args[1])
		if err != nil {
			return err
		}
		filter := text.LiteralMatcher(iniKeysFilter)
		keys = slices.DeleteFunc(keys, func(k string) bool { return !filter.MatchString(k) })
		return a.printer.PrintLines(keys)
	},
}

var iniEntriesCmd = &cobra.Command{
	Use:     "entries <file> <section>",
	Aliases: []string{"show"},
	Short:   "Show the keys and values of a section",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		entries, err := a.editor.Entries(args[0], args[1])
		if err != nil {
			return err
		}
		return a.printer.PrintTable(entriesTable(entries))
	},
}

var iniAddSectionCmd = &cobra.Command{
	Use:   "add-section <file> <section>",
	Short: "Add an empty section",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.AddSection(args[0], args[1]); err != nil {
			return err
		}
		a.msg.Success("Section %q present", args[1])
		return nil
	},
}

var iniRemoveSectionCmd = &cobra.Command{
	Use:   "rm-section <file> <section>",
	Short: "Remove a section and its keys",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.RemoveSection(args[0], args[1]); err != nil {
			return err
		}
		a.msg.Success("Section %q removed", args[1])
		return nil
	},
}

var iniRemoveKeyCmd = &cobra.Command{
	Use:   "rm-key <file> <section> <key>",
	Short: "Remove a key from a section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.RemoveKey(args[0], args[1], args[2]); err != nil {
			return err
		}
		a.msg.Success("Key %s.%s removed", args[1], args[2])
		return nil
	},
}

var iniRenameSectionCmd = &cobra.Command{
	Use:   "rename-section <file> <old-section> <new-section>",
	Short: "Rename a section",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.RenameSection(args[0], args[1], args[2]); err != nil {
			return err
		}
		a.msg.Success("Section %q renamed to %q", args[1], args[2])
		return nil
	},
}

var iniCloneSectionCmd = &cobra.Command{
	Use:   "clone-section <file> <source> <destination>",
	Short: "Copy a section under a new name",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.CloneSection(args[0], args[1], args[2]); err != nil {
			return err
		}
		a.msg.Success("Section %q cloned to %q", args[1], args[2])
		return nil
	},
}

var iniSetArrayCmd = &cobra.Command{
	Use:   "set-array <file> <section> <key> [element]...",
	Short: "Store a list of values under one key",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if err := a.editor.SetArrayValue(args[0], args[1], args[2], args[3:]); err != nil {
			return err
		}
		a.msg.Success("Wrote %d element(s) to %s.%s", len(args)-3, args[1], args[2])
		return nil
	},
}

var iniGetArrayCmd = &cobra.Command{
	Use:   "get-array <file> <section> <key>",
	Short: "Print a list value, one element per line",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		elems, err := a.editor.GetArrayValue(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return a.printer.PrintLines(elems)
	},
}

var iniEnvCmd = &cobra.Command{
	Use:   "env <file>",
	Short: "Print export statements for the file's keys",
	Long: `Print one export statement per key. Variable names are
[PREFIX_][SECTION_]KEY in upper case with other characters replaced by '_'.
Use with eval to load them into the current shell.`,
	Args: cobra.ExactArgs(1),
	RunE: runINIEnv,
}

var iniUnenvCmd = &cobra.Command{
	Use:   "unenv <file>",
	Short: "Print unset statements for the variables env would export",
	Args:  cobra.ExactArgs(1),
	RunE:  runINIUnenv,
}

var iniValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a file for malformed lines, bad names and duplicate keys",
	Args:  cobra.ExactArgs(1),
	RunE:  runINIValidate,
}

func init() {
	rootCmd.AddCommand(iniCmd)
	iniCmd.AddCommand(iniReadCmd)
	iniCmd.AddCommand(iniWriteCmd)
	iniCmd.AddCommand(iniSectionsCmd)
	iniCmd.AddCommand(iniKeysCmd)
	iniCmd.AddCommand(iniEntriesCmd)
	iniCmd.AddCommand(iniAddSectionCmd)
	iniCmd.AddCommand(iniRemoveSectionCmd)
	iniCmd.AddCommand(iniRemoveKeyCmd)
	iniCmd.AddCommand(iniRenameSectionCmd)
	iniCmd.AddCommand(iniCloneSectionCmd)
	iniCmd.AddCommand(iniSetArrayCmd)
	iniCmd.AddCommand(iniGetArrayCmd)
	iniCmd.AddCommand(iniEnvCmd)
	iniCmd.AddCommand(iniUnenvCmd)
	iniCmd.AddCommand(iniValidateCmd)

	iniKeysCmd.Flags().StringVar(&iniKeysFilter, "filter", "", "Only keys containing this text")
	iniReadCmd.Flags().StringVar(&iniReadDefault, "default", "", "Value printed when the section or key is missing")
	for _, c := range []*cobra.Command{iniEnvCmd, iniUnenvCmd} {
		c.Flags().StringVar(&iniEnvPrefix, "prefix", "", "Prefix for variable names")
		c.Flags().StringVar(&iniEnvSection, "section", "", "Only this section (default: every section)")
	}
}

func entriesTable(entries []ini.Entry) cli.Table {
	if entries == nil {
		entries = []ini.Entry{}
	}
	t := cli.Table{Headers: []string{"Key", "Value"}, Data: entries}
	for _, e := range entries {
		t.Rows = append(t.Rows, []string{e.Key, e.Value})
	}
	return t
}

func runINIEnv(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	env := ini.MapEnv{}
	names, err := a.editor.ExposeEnv(args[0], iniEnvPrefix, iniEnvSection, env)
	if err != nil {
		return err
	}
	if a.printer.Structured() {
		return a.printer.PrintData(map[string]string(env))
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		fmt.Fprintf(a.printer.Writer(), "export %s=%s\n", n, shellescape.Quote(env[n]))
	}
	return nil
}

func runINIUnenv(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	names, err := a.editor.DestroyEnv(args[0], iniEnvPrefix, iniEnvSection, ini.MapEnv{})
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(names))
	var unique []string
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	if a.printer.Structured() {
		return a.printer.PrintLines(unique)
	}
	for _, n := range unique {
		fmt.Fprintf(a.printer.Writer(), "unset %s\n", n)
	}
	return nil
}

func runINIValidate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	problems, err := a.editor.Validate(args[0])
	if err != nil {
		return err
	}
	if problems == nil {
		problems = []ini.Problem{}
	}

	t := cli.Table{Headers: []string{"Line", "Section", "Problem"}, Data: problems}
	for _, p := range problems {
		t.Rows = append(t.Rows, []string{strconv.Itoa(p.Line), p.Section, p.Message})
	}

	if len(problems) == 0 {
		if a.printer.Structured() {
			return a.printer.PrintData(problems)
		}
		a.msg.Success("%s is valid", args[0])
		return nil
	}
	if err := a.printer.PrintTable(t); err != nil {
		return err
	}
	return invalidFile(args[0], len(problems))
}

func invalidFile(path string, problems int) error {
	return apperr.Invalid(apperr.KindFile, path, fmt.Sprintf("%d problem(s) found", problems))
}
