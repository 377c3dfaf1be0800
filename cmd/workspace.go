package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	"github.com/pnguyen215/shell-sub002/internal/cli"
	"github.com/pnguyen215/shell-sub002/internal/workspace"
)

var (
	wsWatchBounce  time.Duration
	wsTunnelFormat string
)

// workspaceCmd represents the workspace command group
var workspaceCmd = newEntryCmd(apperr.KindWorkspace, `Manage workspaces.

A workspace is a profile with a .ssh directory of service bundles. Each
bundle is an INI file with a [base] section of connection settings and
one section per environment that overrides some of them. New workspaces
get the bundles listed under workspace.defaultBundles in config.yaml.

Examples:
  shellkit workspace add payments --use
  shellkit workspace ssh list
  shellkit workspace ssh envs db
  shellkit workspace ssh show db uat
  shellkit workspace ssh tunnel db uat
  eval "$(shellkit workspace ssh tunnel db dev)" &
  shellkit workspace watch`)

var workspaceSSHCmd = &cobra.Command{
	Use:   "ssh",
	Short: "Manage the SSH bundles of a workspace",
}

var workspaceSSHListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List bundles",
	Args:    cobra.NoArgs,
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		confs, err := a.workspaces.SSHConfs(ws)
		if err != nil {
			return err
		}
		return a.printer.PrintLines(confs)
	}),
}

var workspaceSSHAddCmd = &cobra.Command{
	Use:   "add <bundle>",
	Short: "Create a bundle from the service template",
	Long: `Create a bundle. Known service names (server, db, kafka, nginx, redis) get
their ports and extra keys; other names get a generic template.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		path, err := a.workspaces.AddSSHConf(ws, args[0])
		if err != nil {
			return err
		}
		a.msg.Success("Bundle created at %s", path)
		return nil
	}),
}

var workspaceSSHRemoveCmd = &cobra.Command{
	Use:     "rm <bundle>",
	Aliases: []string{"remove"},
	Short:   "Delete a bundle",
	Args:    cobra.ExactArgs(1),
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		if err := a.workspaces.RemoveSSHConf(ws, args[0]); err != nil {
			return err
		}
		a.msg.Success("Bundle %q removed", args[0])
		return nil
	}),
}

var workspaceSSHEnvsCmd = &cobra.Command{
	Use:   "envs <bundle>",
	Short: "List the environments of a bundle",
	Args:  cobra.ExactArgs(1),
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		envs, err := a.workspaces.Environments(ws, args[0])
		if err != nil {
			return err
		}
		return a.printer.PrintLines(envs)
	}),
}

var workspaceSSHShowCmd = &cobra.Command{
	Use:   "show <bundle> <environment>",
	Short: "Show the effective settings of an environment",
	Long: `Show the base section of a bundle overlaid with one environment section.
Use "base" as the environment to see the defaults alone.`,
	Args: cobra.ExactArgs(2),
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		cfg, err := a.workspaces.ResolveEffectiveConfig(ws, args[0], args[1])
		if err != nil {
			return err
		}
		if a.printer.Structured() {
			return a.printer.PrintData(cfg)
		}
		return a.printer.PrintTable(entriesTable(cfg.Entries))
	}),
}

var workspaceSSHTunnelCmd = &cobra.Command{
	Use:   "tunnel <bundle> <environment>",
	Short: "Print the ssh command that opens the tunnel",
	Long: `Print the ssh port forwarding command for an environment. The command is
printed, not run. workspace.tunnelTemplate in config.yaml replaces the
built-in template; it is a Go template with sprig functions over the
effective keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runWorkspace(func(a *app, ws string, args []string) error {
		cfg, err := a.workspaces.ResolveEffectiveConfig(ws, args[0], args[1])
		if err != nil {
			return err
		}
		tmpl := a.settings.Workspace.TunnelTemplate
		if wsTunnelFormat != "" {
			tmpl = wsTunnelFormat
		}
		command, err := workspace.RenderTunnelCommand(cfg, tmpl)
		if err != nil {
			return err
		}
		return a.printer.PrintValue("command", command)
	}),
}

var workspaceWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report changes to a workspace's configuration files",
	Long: `Watch profile.conf and the SSH bundles of a workspace and print one line
per settled change until interrupted. With -o json each change is printed
as one JSON object per line.`,
	Args: cobra.NoArgs,
	RunE: runWorkspace(runWorkspaceWatch),
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceSSHCmd)
	workspaceCmd.AddCommand(workspaceWatchCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHListCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHAddCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHRemoveCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHEnvsCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHShowCmd)
	workspaceSSHCmd.AddCommand(workspaceSSHTunnelCmd)

	workspaceSSHTunnelCmd.Flags().StringVar(&wsTunnelFormat, "template", "", "Go template overriding the tunnel command")
	workspaceWatchCmd.Flags().DurationVar(&wsWatchBounce, "debounce", 300*time.Millisecond, "Quiet period before a change is reported")
}

// runWorkspace resolves the workspace named by --name, or the current one,
// before calling fn.
func runWorkspace(fn func(a *app, ws string, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		ws, err := a.state.Resolve(apperr.KindWorkspace, name)
		if err != nil {
			return err
		}
		return fn(a, ws, args)
	}
}

func runWorkspaceWatch(a *app, ws string, args []string) error {
	w, err := a.workspaces.NewWatcher(ws, wsWatchBounce)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	changes := make(chan workspace.ChangeEvent, 16)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, changes) }()

	a.msg.Info("Watching workspace %q, press Ctrl+C to stop.", ws)
	out := a.printer.Writer()
	enc := json.NewEncoder(out)
	for {
		select {
		case ev := <-changes:
			if a.printer.Format() == cli.OutputFormatJSON {
				if err := enc.Encode(ev); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintf(out, "%s  %-8s %s\n", ev.Time.Format(time.RFC3339), ev.Op, filepath.Join(filepath.Base(filepath.Dir(ev.Path)), ev.File))
		case err := <-done:
			return err
		}
	}
}
