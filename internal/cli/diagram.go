package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtrail/pkg/flow"
)

// diagramCommand prints the diagram sessions start from.
func (c *CLI) diagramCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Print the starting diagram as JSON",
		Long: `Print the diagram that demo and replay start from as JSON.

Without --diagram this is the built-in three-node diagram. The output can be
edited and passed back with --diagram.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.loadDiagram()
			if err != nil {
				return err
			}
			if output == "" {
				return flow.WriteState(state, cmd.OutOrStdout())
			}
			return writeDiagram(state, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func writeDiagram(state flow.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := flow.WriteState(state, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printSuccess("Wrote diagram (%d nodes, %d edges)", len(state.Nodes), len(state.Edges))
	printFile(path)
	return nil
}
