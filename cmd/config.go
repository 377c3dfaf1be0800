package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/config"
)

var configInitForce bool

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialise config.yaml",
	Long: `Inspect and initialise the config.yaml of the configuration directory.

Examples:
  shellkit config path
  shellkit config show
  shellkit config show -o json
  shellkit config init`,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the location of config.yaml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.printer.PrintValue("path", config.FilePath(a.dir))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings in effect: config.yaml on top of the defaults. Prints
YAML unless -o json is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if a.printer.Structured() {
			return a.printer.PrintData(a.settings)
		}
		data, err := yaml.Marshal(&a.settings)
		if err != nil {
			return fmt.Errorf("failed to marshal settings: %w", err)
		}
		_, err = a.printer.Writer().Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config.yaml holding the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		path := config.FilePath(a.dir)
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return apperr.AlreadyExists(apperr.KindFile, "config.yaml", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := config.Save(a.dir, config.Default()); err != nil {
			return err
		}
		a.msg.Success("Wrote %s", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config.yaml")
}
