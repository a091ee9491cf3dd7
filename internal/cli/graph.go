package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ralt/wpm/internal/graph"
	"github.com/spf13/cobra"
)

// NewGraphCmd creates the graph command
func NewGraphCmd(o *globalOptions) *cobra.Command {
	var dot bool

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Show the dependencies between installed package versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(o)
			if err != nil {
				return err
			}
			if err := a.reload(cmd.Context()); err != nil {
				return err
			}

			g := graph.BuildInstalled(a.repo)
			if dot {
				_, err := io.WriteString(cmd.OutOrStdout(), g.ToDOT())
				return err
			}
			printTree(cmd.OutOrStdout(), g)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dot, "dot", false, "Write the graph in Graphviz DOT format")

	return cmd
}

// printTree writes every installed version with its resolved dependencies
func printTree(w io.Writer, g *graph.InstalledGraph) {
	for _, id := range g.Successors(g.Root) {
		fmt.Fprintln(w, g.Payload(id))
		for _, dep := range g.Successors(id) {
			if dep == g.Unresolved {
				fmt.Fprintf(w, "%s(missing dependency)\n", strings.Repeat(" ", 2))
				continue
			}
			fmt.Fprintf(w, "%s%s\n", strings.Repeat(" ", 2), g.Payload(dep))
		}
	}
}
