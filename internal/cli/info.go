package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewInfoCmd creates the info command
func NewInfoCmd(o *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <package>",
		Short: "Show a package and its versions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			id := args[0]
			versions := a.repo.PackageVersions(id)
			p := a.repo.FindPackage(id)
			if p == nil && len(versions) == 0 {
				return fmt.Errorf("package %s not found", id)
			}

			w := cmd.OutOrStdout()
			if p != nil {
				fmt.Fprintf(w, "%s (%s)\n", p.Title, p.ID)
				if p.Description != "" {
					fmt.Fprintf(w, "  %s\n", p.Description)
				}
				if p.URL != "" {
					fmt.Fprintf(w, "  Home page: %s\n", p.URL)
				}
				if l := a.repo.FindLicense(p.License); l != nil {
					fmt.Fprintf(w, "  License: %s\n", l.Title)
				} else if p.License != "" {
					fmt.Fprintf(w, "  License: %s\n", p.License)
				}
				if len(p.Categories) > 0 {
					fmt.Fprintf(w, "  Categories: %s\n", strings.Join(p.Categories, ", "))
				}
			}

			for _, pv := range versions {
				fmt.Fprintf(w, "\n  %s %s\n", pv.Version.Canonical(), status(pv))
				if pv.URL != "" {
					fmt.Fprintf(w, "    Download: %s (%s)\n", pv.URL, pv.Type)
				}
				for _, d := range pv.Dependencies {
					fmt.Fprintf(w, "    Depends on: %s\n", d)
				}
			}
			return nil
		},
	}
}
