package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/keystore"
	"github.com/pnguyen215/shell-sub002/internal/secret"
	"github.com/pnguyen215/shell-sub002/internal/text"
	pkgstrings "github.com/pnguyen215/shell-sub002/pkg/strings"
)

var (
	kvAddComment    string
	kvGetRaw        bool
	kvListValues    bool
	kvListFilter    string
	kvSearchLimit   int
	kvDeleteConfirm bool
)

// kvCmd represents the kv command group
var kvCmd = &cobra.Command{
	Use:   "kv",
	Short: "Manage the key/value store",
	Long: `Manage the key/value store.

Values are stored Base64 encoded, one KEY=value per line. Keys listed as
protected cannot be removed, renamed or updated.

Examples:
  shellkit kv add API_URL https://api.example.com
  shellkit kv add DB_PASSWORD            # prompts without echo
  shellkit kv add-secret GITHUB_TOKEN    # encrypted with the passphrase
  shellkit kv get API_URL
  shellkit kv list
  shellkit kv search api
  shellkit kv rename API_URL API_BASE_URL
  shellkit kv update API_BASE_URL https://v2.example.com
  shellkit kv rm API_BASE_URL`,
}

var kvAddCmd = &cobra.Command{
	Use:   "add <key> [value]",
	Short: "Add a key",
	Long: `Add a new key. When the value is omitted it is read from the terminal
without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runKVAdd,
}

var kvAddSecretCmd = &cobra.Command{
	Use:   "add-secret <key> [value]",
	Short: "Add a key whose value is encrypted",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runKVAddSecret,
}

var kvGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a key's value",
	Long: `Print the decoded value of a key. Encrypted values are decrypted with the
configured passphrase. --raw prints them as stored, without decrypting.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKeys,
	RunE:              runKVGet,
}

var kvListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List keys",
	Long: `List keys in file order. Values are masked unless --show-values is given.
Encrypted values are never decrypted by list.`,
	Args: cobra.NoArgs,
	RunE: runKVList,
}

var kvRemoveCmd = &cobra.Command{
	Use:               "rm <key>",
	Aliases:           []string{"remove", "delete"},
	Short:             "Remove a key",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKeys,
	RunE:              runKVRemove,
}

var kvRenameCmd = &cobra.Command{
	Use:               "rename <old-key> <new-key>",
	Short:             "Rename a key in place",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeKeys,
	RunE:              runKVRename,
}

var kvUpdateCmd = &cobra.Command{
	Use:               "update <key> [value]",
	Short:             "Replace a key's value in place",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeKeys,
	RunE:              runKVUpdate,
}

var kvSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Add a key or replace its value",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runKVSet,
}

var kvSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search key names",
	Args:  cobra.ExactArgs(1),
	RunE:  runKVSearch,
}

func init() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvAddCmd)
	kvCmd.AddCommand(kvAddSecretCmd)
	kvCmd.AddCommand(kvGetCmd)
	kvCmd.AddCommand(kvListCmd)
	kvCmd.AddCommand(kvRemoveCmd)
	kvCmd.AddCommand(kvRenameCmd)
	kvCmd.AddCommand(kvUpdateCmd)
	kvCmd.AddCommand(kvSetCmd)
	kvCmd.AddCommand(kvSearchCmd)

	kvAddCmd.Flags().StringVar(&kvAddComment, "comment", "", "Comment line written above the entry")
	kvGetCmd.Flags().BoolVar(&kvGetRaw, "raw", false, "Print encrypted values without decrypting them")
	kvListCmd.Flags().BoolVar(&kvListValues, "show-values", false, "Show decoded values instead of masks")
	kvListCmd.Flags().StringVar(&kvListFilter, "filter", "", "Only keys containing this text")
	kvSearchCmd.Flags().IntVar(&kvSearchLimit, "limit", 10, "Maximum number of matches")
	kvRemoveCmd.Flags().BoolVar(&kvDeleteConfirm, "confirm", true, "Ask before removing")
}

// completeKeys provides shell completion for key names
func completeKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	keys, _ := a.keys.Keys()
	return keys, cobra.ShellCompDirectiveNoFileComp
}

func runKVAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	value, err := a.valueArg(args, 1, "Value: ")
	if err != nil {
		return err
	}
	if err := a.keys.AddWithComment(args[0], value, kvAddComment); err != nil {
		return err
	}
	a.msg.Success("Key %q added", args[0])
	return nil
}

func runKVAddSecret(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	store, err := a.secretKeys()
	if err != nil {
		return err
	}
	value, err := a.valueArg(args, 1, "Secret value: ")
	if err != nil {
		return err
	}
	if err := store.AddSecret(args[0], value); err != nil {
		return err
	}
	a.msg.Success("Encrypted key %q added", args[0])
	return nil
}

func runKVGet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	key := args[0]

	if kvGetRaw {
		raw, err := a.keys.GetRaw(key)
		if err != nil {
			return err
		}
		return a.printer.PrintValue("value", raw)
	}

	value, err := a.keys.Get(key)
	if err != nil {
		return err
	}
	if secret.IsEncrypted(value) {
		store, err := a.secretKeys()
		if err != nil {
			return err
		}
		if value, err = store.Get(key); err != nil {
			return err
		}
	}
	return a.printer.PrintValue("value", value)
}

type kvListRow struct {
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	Encrypted bool   `json:"encrypted" yaml:"encrypted"`
	Protected bool   `json:"protected" yaml:"protected"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

func runKVList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	entries, err := a.keys.Entries()
	if err != nil {
		return err
	}

	t := cli.Table{Headers: []string{"Key", "Value", "Protected", "Comment"}}
	data := make([]kvListRow, 0, len(entries))
	filter := text.LiteralMatcher(kvListFilter)
	for _, e := range entries {
		if !filter.MatchString(e.Key) {
			continue
		}
		protected, err := a.protected.IsProtected(e.Key)
		if err != nil {
			return err
		}
		value, err := e.Value()
		if err != nil {
			value = "<invalid base64>"
		}
		r := kvListRow{
			Key:       e.Key,
			Encrypted: secret.IsEncrypted(value),
			Protected: protected,
			Comment:   e.Comment,
		}
		display := pkgstrings.Mask(value)
		if kvListValues {
			r.Value = value
			display = value
		}
		if r.Encrypted {
			display = "<encrypted>"
		}
		data = append(data, r)
		t.Rows = append(t.Rows, []string{e.Key, display, yesNo(r.Protected), e.Comment})
	}
	t.Data = data
	return a.printer.PrintTable(t)
}

func runKVRemove(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	key := args[0]
	protected, err := a.protected.IsProtected(key)
	if err != nil {
		return err
	}
	// Missing and protected keys fail without a prompt.
	if !a.keys.Exists(key) || protected {
		return a.keys.Remove(key)
	}
	if kvDeleteConfirm {
		ok, err := a.confirm(fmt.Sprintf("Remove key %q?", key))
		if err != nil {
			return err
		}
		if !ok {
			a.msg.Info("Aborted.")
			return nil
		}
	}
	if err := a.keys.Remove(key); err != nil {
		return err
	}
	a.msg.Success("Key %q removed", key)
	return nil
}

func runKVRename(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.keys.Rename(args[0], args[1]); err != nil {
		return err
	}
	a.msg.Success("Key %q renamed to %q", args[0], args[1])
	return nil
}

func runKVUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	value, err := a.valueArg(args, 1, "New value: ")
	if err != nil {
		return err
	}
	keys, err := a.keysFor(args[0])
	if err != nil {
		return err
	}
	if err := keys.Update(args[0], value); err != nil {
		return err
	}
	a.msg.Success("Key %q updated", args[0])
	return nil
}

func runKVSet(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	value, err := a.valueArg(args, 1, "Value: ")
	if err != nil {
		return err
	}
	keys, err := a.keysFor(args[0])
	if err != nil {
		return err
	}
	if err := keys.Set(args[0], value); err != nil {
		return err
	}
	a.msg.Success("Key %q set", args[0])
	return nil
}

func runKVSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	results, err := a.keys.Search(args[0])
	if err != nil {
		return err
	}
	if kvSearchLimit > 0 && len(results) > kvSearchLimit {
		results = results[:kvSearchLimit]
	}
	if results == nil {
		results = []keystore.SearchResult{}
	}

	t := cli.Table{Headers: []string{"Key", "Score"}, Data: results}
	for _, r := range results {
		t.Rows = append(t.Rows, []string{r.Key, strconv.Itoa(r.Score)})
	}
	return a.printer.PrintTable(t)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
