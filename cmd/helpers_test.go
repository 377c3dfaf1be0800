package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

// testEnv runs rootCmd against a temporary configuration directory.
type testEnv struct {
	t   *testing.T
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("SHELLKIT_HOME", "")
	t.Setenv("SHELLKIT_PROFILE", "")
	t.Setenv("SHELLKIT_WORKSPACE", "")
	t.Setenv("SHELLKIT_PASSPHRASE", "")
	t.Cleanup(logging.Reset)
	return &testEnv{t: t, dir: t.TempDir()}
}

// run executes args with empty stdin.
func (e *testEnv) run(args ...string) (string, string, error) {
	return e.runWithInput("", args...)
}

// runWithInput executes args with stdin set to input and returns stdout
// and stderr.
func (e *testEnv) runWithInput(input string, args ...string) (string, string, error) {
	e.t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append([]string{"--config-dir=" + e.dir}, args...))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun executes args and fails the test on error.
func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, stderr, err := e.run(args...)
	if err != nil {
		e.t.Fatalf("%s: %v\nstderr: %s", strings.Join(args, " "), err, stderr)
	}
	return out
}

// tableRows splits plain table output into rows of fields.
func tableRows(out string) [][]string {
	var rows [][]string
	for _, l := range strings.Split(strings.TrimSpace(out), "\n") {
		if l != "" {
			rows = append(rows, strings.Fields(l))
		}
	}
	return rows
}

// resetFlags restores every flag of c and its subcommands to its default
// so package level flag variables do not leak between runs.
func resetFlags(c *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(c.Flags())
	reset(c.PersistentFlags())
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
