package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewUpdatesCmd creates the updates command
func NewUpdatesCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Count installed package versions with an available update",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d updates available\n", a.repo.CountUpdates())
			return nil
		},
	}
}

// NewReloadCmd creates the reload command
func NewReloadCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Load all repositories and detect installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d packages, %d versions, %d licenses, %d installed\n",
				len(a.repo.Packages()), len(a.repo.Versions()), len(a.repo.Licenses()), len(a.repo.InstalledVersions()))
			return nil
		},
	}
}

// NewDetectCmd creates the detect command
func NewDetectCmd(o *globalOptions) *cobra.Command {
	var dirs []string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect installed package versions",
		Long: `Loads the repositories and reconciles the installation status of every
package version with this machine. Additional directories given with --dir
are searched for the detection files declared in the feeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(dirs) > 0 {
				o.extraScanDirs = dirs
			}
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			printVersions(cmd.OutOrStdout(), a, a.repo.InstalledVersions())
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&dirs, "dir", "d", nil, "Directory to search for installations")

	return cmd
}
