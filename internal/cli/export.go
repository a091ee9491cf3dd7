package cli

import (
	"fmt"

	"github.com/ralt/wpm/internal/feed"
	"github.com/ralt/wpm/internal/generator"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/signer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the export command
func NewExportCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all loaded packages, versions and licenses to one feed",
		Long: `Loads the repositories and writes their merged content to a single
feed file. A .gz, .zst or .xz extension compresses the output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			j := newJob(cmd.Context())
			sources, err := a.repo.GetSources()
			if err != nil {
				return err
			}
			if err := a.repo.Load(j, sources); err != nil {
				return err
			}

			return generator.WriteFeed(args[0], &models.Feed{
				Packages: a.repo.Packages(),
				Versions: a.repo.Versions(),
				Licenses: a.repo.Licenses(),
			}, nil)
		},
	}
}

// NewSignCmd creates the sign command
func NewSignCmd() *cobra.Command {
	var keyPath, passphrase string

	cmd := &cobra.Command{
		Use:   "sign <feed>...",
		Short: "Create detached OpenPGP signatures of feed files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := signer.NewGPGSigner(keyPath, passphrase)
			if err != nil {
				return &models.EngineError{
					Type: models.ErrSignature,
					Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
				}
			}

			for _, path := range args {
				sigPath, err := signer.SignFile(s, path, feed.SignatureSuffix)
				if err != nil {
					return err
				}
				logrus.Infof("Signed %s: %s", path, sigPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyPath, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVarP(&passphrase, "gpg-passphrase", "p", "", "GPG key passphrase")
	cmd.MarkFlagRequired("gpg-key")

	return cmd
}
