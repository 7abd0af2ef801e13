package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout/compound"
)

// dotCommand prints the Graphviz document of the compound engine. Useful
// for reproducing compound layouts with the dot tool directly.
func (c *CLI) dotCommand() *cobra.Command {
	var flags optionFlags

	cmd := &cobra.Command{
		Use:   "dot [graph.json|graph.yaml]",
		Short: "Print the DOT document used by the compound engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			g.Normalize()
			if err := g.Validate(); err != nil {
				return err
			}
			_, err = fmt.Fprint(os.Stdout, compound.ToDOT(g, opts.WithDefaults()))
			return err
		},
	}
	flags.register(cmd)

	return cmd
}
