package cmd

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeNotFound indicates a missing file, section, key, profile, workspace or group.
	ExitCodeNotFound = 2
	// ExitCodeAlreadyExists indicates the target of a create or rename is taken.
	ExitCodeAlreadyExists = 3
	// ExitCodeValidation indicates an invalid name, value or configuration.
	ExitCodeValidation = 4
	// ExitCodeProtected indicates an attempt to change a protected key.
	ExitCodeProtected = 5
	// ExitCodePartialFailure indicates some items of a batch failed.
	ExitCodePartialFailure = 6
)

var (
	rootConfigDir    string
	rootLogLevel     string
	rootOutputFormat string
	rootNoHeaders    bool
	rootQuiet        bool
	rootAssumeYes    bool
)

// rootCmd represents the base command for the shellkit application.
var rootCmd = &cobra.Command{
	Use:   "shellkit",
	Short: "Manage shell configuration, secrets and workspaces",
	Long: `shellkit keeps the configuration a shell environment depends on in plain
files under one directory:

  - a key/value store of Base64 encoded values, with protected keys
  - named groups of keys
  - INI files, with environment variable export
  - profiles and workspaces, each with its own profile.conf
  - SSH tunnel bundles per workspace and environment

The configuration directory defaults to ~/.config/shellkit and can be
changed with --config-dir or SHELLKIT_HOME.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(rootLogLevel)
		if err != nil {
			return apperr.Invalid("log-level", rootLogLevel, err.Error())
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
		return nil
	},
}

// versionTemplate is shared by --version and the version command.
const versionTemplate = `{{printf "shellkit version %s\n" .Version}}`

// versionInfo is the structured output of the version command.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

// versionCmd prints the version without loading config.yaml, so it works
// against a broken configuration directory.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shellkit version",
	Long: `Print the shellkit version. With -o json or -o yaml the Go version and
platform are included.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(rootOutputFormat)
		if err != nil {
			return err
		}
		p := cli.NewPrinter(cmd.OutOrStdout(), format, rootNoHeaders)
		if !p.Structured() {
			_, err := fmt.Fprintf(p.Writer(), "shellkit version %s\n", cmd.Root().Version)
			return err
		}
		return p.PrintData(versionInfo{
			Version:   cmd.Root().Version,
			GoVersion: runtime.Version(),
			Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		})
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), cli.FormatError(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeSuccess
	case errors.Is(err, apperr.ErrPartialFailure):
		return ExitCodePartialFailure
	case errors.Is(err, apperr.ErrProtectedKey):
		return ExitCodeProtected
	case errors.Is(err, apperr.ErrValidation):
		return ExitCodeValidation
	case errors.Is(err, apperr.ErrAlreadyExists):
		return ExitCodeAlreadyExists
	case errors.Is(err, apperr.ErrNotFound):
		return ExitCodeNotFound
	}
	return ExitCodeError
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&rootConfigDir, "config-dir", "", "Configuration directory (env: SHELLKIT_HOME, default ~/.config/shellkit)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "warn", "Log level written to stderr (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&rootOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&rootNoHeaders, "no-headers", false, "Suppress header row in table output")
	rootCmd.PersistentFlags().BoolVarP(&rootQuiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&rootAssumeYes, "yes", "y", false, "Answer yes to confirmation prompts")
}
