package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pankaj-dahiya-devops/flightctl/internal/config"
	"github.com/pankaj-dahiya-devops/flightctl/internal/engine"
	"github.com/pankaj-dahiya-devops/flightctl/internal/output"
	kube "github.com/pankaj-dahiya-devops/flightctl/internal/providers/kubernetes"
	"github.com/pankaj-dahiya-devops/flightctl/internal/version"
)

func newRootCmd() *cobra.Command {
	return newRootCmdWithApp(newApp())
}

func newRootCmdWithApp(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "flightctl",
		Short: "Provision kubeconfig contexts for deployment releases",
		Long: `flightctl makes sure a working kubeconfig context exists for a release.

Each release in the configuration file maps to a context, and each context
to an auth profile and a cluster. Missing user, cluster and context entries
are created on demand; entries that already exist are left untouched.

Configuration is looked up in this order:
  1. --config / FLIGHTCTL_CONFIG
  2. ./flightctl.yaml
  3. $XDG_CONFIG_HOME/flightctl/config.yaml
  4. ~/.config/flightctl/config.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	a.bindFlags(root)

	root.AddCommand(newPrepareCmd(a))
	root.AddCommand(newReleasesCmd(a))
	root.AddCommand(newDoctorCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func newPrepareCmd(a *app) *cobra.Command {
	var (
		dryRun bool
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "prepare RELEASE...",
		Short: "Ensure kubeconfig contexts exist for the given releases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			eng, err := a.newEngine(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if dryRun {
				for _, release := range args {
					plan, err := eng.Plan(cmd.Context(), release)
					if err != nil {
						return err
					}
					printPlan(cmd.OutOrStdout(), plan)
				}
				return nil
			}

			if err := eng.PrepareAll(cmd.Context(), args); err != nil {
				return err
			}
			if !verify {
				return nil
			}

			provider := a.newKubeProvider(a.kubeconfig())
			for _, name := range args {
				release, err := cfg.FindRelease(name)
				if err != nil {
					return err
				}
				info, err := kube.VerifyContext(cmd.Context(), provider, release.Context)
				if err != nil {
					return fmt.Errorf("verify release %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Verified context %s (%s)\n", info.ContextName, info.Server)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the entries that would be created without writing or calling AWS")
	cmd.Flags().BoolVar(&verify, "verify", false, "Reach the API server through each prepared context")
	return cmd
}

// printPlan writes a human-readable dry-run report for plan to w.
func printPlan(w io.Writer, plan *engine.Plan) {
	if plan.UpToDate() {
		fmt.Fprintf(w, "%s: context %s is up to date\n", plan.Release, plan.Context)
		return
	}
	for _, a := range plan.Actions {
		fmt.Fprintf(w, "%s: would create %s %s\n", plan.Release, a.Kind, a.Name)
	}
}

func newReleasesCmd(a *app) *cobra.Command {
	var (
		status  bool
		colored bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List configured releases and what they resolve to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			var store kube.ContextStore
			if status {
				if store, err = a.store(); err != nil {
					return err
				}
			}
			rows := releaseRows(cmd.Context(), cfg, store)

			if format == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			output.RenderReleases(cmd.OutOrStdout(), rows, output.TableOptions{
				Colored:       colored,
				IncludeStatus: status,
			})
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Check whether each release's context is present in the kubeconfig")
	cmd.Flags().BoolVar(&colored, "color", false, "Colour the status column")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

// releaseRows resolves every release in cfg. When store is non-nil the
// context presence is reported in Status.
func releaseRows(ctx context.Context, cfg *config.Config, store kube.ContextStore) []output.ReleaseRow {
	var rows []output.ReleaseRow
	for _, name := range cfg.ReleaseNames() {
		release := cfg.Releases[name]
		row := output.ReleaseRow{Release: release.Name, Context: release.Context}
		if kctx, err := cfg.FindContext(release); err == nil {
			row.Auth = kctx.Auth
			row.Cluster = kctx.Cluster
			row.Namespace = kctx.Namespace
		}
		if store != nil {
			exists, err := store.ContextExists(ctx, release.Context)
			switch {
			case err != nil:
				row.Status = output.StatusUnknown
			case exists:
				row.Status = output.StatusReady
			default:
				row.Status = output.StatusMissing
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}
