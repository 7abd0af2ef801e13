package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestlayout/pkg/graph"
	"github.com/matzehuels/nestlayout/pkg/layout"
	"github.com/matzehuels/nestlayout/pkg/layout/layered"
)

// inspectCommand runs the layered engine and shows how every container was
// laid out: the topology it was classified as, the configuration that won
// the search and its score, and how the container was sized.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		plain bool
		flags optionFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [graph.json|graph.yaml]",
		Short: "Browse per-container layout diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.resolve()
			if err != nil {
				return err
			}
			if opts.Algorithm == layout.AlgorithmCompound {
				return fmt.Errorf("inspect reports on the layered engine; drop --algorithm compound")
			}
			g, err := graph.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			g.Normalize()
			if err := g.Validate(); err != nil {
				return err
			}

			prog := newProgress(c.Logger)
			res, reports, err := layered.New(c.Logger).Run(cmd.Context(), g, opts)
			if err != nil {
				return err
			}
			prog.done("Laid out containers", "containers", len(reports), "fallbacks", res.Stats.FallbacksUsed)

			if plain {
				fmt.Fprintln(stdout, reportTable(reports, -1))
				printStats(res.Stats, len(res.Edges))
				return nil
			}
			_, err = tea.NewProgram(NewReportListModel(reports), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print a table instead of the interactive view")
	flags.register(cmd)

	return cmd
}
