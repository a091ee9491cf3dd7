package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ralt/wpm/internal/models"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd(o *globalOptions) *cobra.Command {
	var installedOnly, updatesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List package versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			var versions []*models.PackageVersion
			switch {
			case updatesOnly:
				versions = a.repo.Updatable()
			case installedOnly:
				versions = a.repo.InstalledVersions()
			default:
				versions = a.repo.Versions()
			}
			printVersions(cmd.OutOrStdout(), a, versions)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&installedOnly, "installed", "i", false, "Only list installed versions")
	cmd.Flags().BoolVarP(&updatesOnly, "updates", "u", false, "Only list installed versions with an update")

	return cmd
}

func printVersions(w io.Writer, a *app, versions []*models.PackageVersion) {
	sorted := append([]*models.PackageVersion(nil), versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Package != sorted[j].Package {
			return sorted[i].Package < sorted[j].Package
		}
		return sorted[j].Version.Less(sorted[i].Version)
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tVERSION\tTITLE\tSTATUS")
	for _, pv := range sorted {
		title := pv.Package
		if p := a.repo.FindPackage(pv.Package); p != nil {
			title = p.Title
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pv.Package, pv.Version.Canonical(), title, status(pv))
	}
	tw.Flush()
}

func status(pv *models.PackageVersion) string {
	switch {
	case pv.External:
		return "installed (external) " + pv.Path
	case pv.Installed():
		return "installed " + pv.Path
	default:
		return ""
	}
}
