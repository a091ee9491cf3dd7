package cli

import (
	"fmt"

	"github.com/ralt/wpm/internal/graph"
	"github.com/ralt/wpm/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewInstallCmd creates the install command
func NewInstallCmd(o *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "install <package> [version]",
		Short: "Install a package version and its missing dependencies",
		Long: `Installs the given version of a package, or the newest one if no
version is given. Missing dependencies are installed first.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			ver := ""
			if len(args) == 2 {
				ver = args[1]
			}
			target, err := a.findVersion(args[0], ver)
			if err != nil {
				return err
			}
			if target.Installed() {
				logrus.Infof("%s is already installed in %s", target, target.Path)
				return nil
			}

			ops, err := planInstall(a.repo, target)
			if err != nil {
				return err
			}
			for _, op := range ops {
				fmt.Fprintln(cmd.OutOrStdout(), op)
			}
			if dryRun {
				return nil
			}

			return a.repo.Process(newJob(cmd.Context()), ops)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Only show what would be installed")

	return cmd
}

// NewUninstallCmd creates the uninstall command
func NewUninstallCmd(o *globalOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "uninstall <package> <version>",
		Short: "Remove an installed package version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			target, err := a.findVersion(args[0], args[1])
			if err != nil {
				return err
			}

			g := graph.BuildInstalled(a.repo)
			if id, ok := g.FindKey(target.Key()); ok {
				if dependents := g.Dependents(id); len(dependents) > 0 {
					for _, d := range dependents {
						logrus.Warnf("%s depends on %s", d, target)
					}
					if !force {
						return models.Errorf(models.ErrInstall, target.Package,
							"%s is required by %d installed package versions, use --force to remove it anyway",
							target, len(dependents))
					}
				}
			}

			return a.repo.Process(newJob(cmd.Context()), []models.InstallOperation{
				{Version: target, Install: false},
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even if other installed packages depend on it")

	return cmd
}
