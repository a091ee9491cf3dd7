package cli

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewSourcesCmd creates the sources command and its subcommands
func NewSourcesCmd(o *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage the list of repository feeds",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List repository feeds in the order they are loaded",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := newApp(o)
				if err != nil {
					return err
				}
				urls, err := a.repo.GetSources()
				if err != nil {
					return err
				}
				for _, u := range urls {
					fmt.Fprintln(cmd.OutOrStdout(), u)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <url>...",
			Short: "Append repository feeds",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editSources(o, func(urls []string) []string {
					for _, u := range args {
						if slices.Contains(urls, u) {
							logrus.Warnf("%s is already configured", u)
							continue
						}
						urls = append(urls, u)
					}
					return urls
				})
			},
		},
		&cobra.Command{
			Use:   "remove <url>...",
			Short: "Remove repository feeds",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return editSources(o, func(urls []string) []string {
					return slices.DeleteFunc(urls, func(u string) bool {
						return slices.Contains(args, u)
					})
				})
			},
		},
	)

	return cmd
}

func editSources(o *globalOptions, edit func([]string) []string) error {
	a, err := newApp(o)
	if err != nil {
		return err
	}
	urls, err := a.repo.GetSources()
	if err != nil {
		return err
	}
	if err := a.repo.SetSources(edit(urls)); err != nil {
		return err
	}
	logrus.Infof("Saved %s", a.settingsPath)
	return nil
}
