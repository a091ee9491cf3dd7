package cli

import (
	"fmt"

	"github.com/ralt/wpm/internal/generator"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/signer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var config generator.Config
	var keyPath, passphrase string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a repository feed from a directory of packages",
		Long: `Scans the input directory for files named <package>-<version>.<ext>
and writes a feed describing them. .zip files are unpacked on installation,
other files are copied as they are.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(); err != nil {
				return err
			}

			var s signer.Signer
			if keyPath != "" {
				gpg, err := signer.NewGPGSigner(keyPath, passphrase)
				if err != nil {
					return &models.EngineError{
						Type: models.ErrSignature,
						Err:  fmt.Errorf("failed to initialize GPG signer: %w", err),
					}
				}
				s = gpg
			}

			logrus.Info("Starting feed generation...")
			logrus.Debugf("Configuration: %+v", config)

			f, err := generator.New(s).Generate(cmd.Context(), &config)
			if err != nil {
				return err
			}

			logrus.Info("Feed generation completed successfully")
			fmt.Fprintf(cmd.OutOrStdout(), "%d packages, %d versions\n", len(f.Packages), len(f.Versions))
			return nil
		},
	}

	cmd.Flags().StringVarP(&config.InputDir, "input-dir", "i", ".", "Input directory to scan")
	cmd.Flags().StringVarP(&config.Output, "output", "o", "./repository.xml", "Output feed file")
	cmd.Flags().StringVar(&config.BaseURL, "base-url", "", "Base URL of the package files")
	cmd.Flags().BoolVar(&config.Incremental, "incremental", false, "Keep the declarations of an existing output feed")

	cmd.Flags().StringVarP(&keyPath, "gpg-key", "k", "", "Path to GPG private key")
	cmd.Flags().StringVarP(&passphrase, "gpg-passphrase", "p", "", "GPG key passphrase")

	return cmd
}
