package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. version is the engine version, it
// is used to register the running program as an installed package.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{engineVersion: version}

	rootCmd := &cobra.Command{
		Use:     "wpm",
		Short:   "Install and manage software packages from repository feeds",
		Version: version,
		Long: `wpm reads package repository feeds, detects which package versions
are installed on this machine and installs or removes them.

Feeds are XML documents listing packages, package versions and licenses.
They can be compressed (gzip, zstd, xz) and signed with OpenPGP.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Settings file (.yaml or .toml)")

	rootCmd.AddCommand(
		NewListCmd(opts),
		NewInfoCmd(opts),
		NewInstallCmd(opts),
		NewUninstallCmd(opts),
		NewUpdatesCmd(opts),
		NewDetectCmd(opts),
		NewReloadCmd(opts),
		NewGraphCmd(opts),
		NewSourcesCmd(opts),
		NewExportCmd(opts),
		NewGenerateCmd(),
		NewSignCmd(),
	)

	return rootCmd
}
