package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/pipeline"
)

// layoutCommand creates the layout command for exporting computed lanes
// and edges.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string
	f := &graphFlags{}

	cmd := &cobra.Command{
		Use:   "layout [path]",
		Short: "Write the computed graph layout as JSON",
		Long: `Write the computed graph layout as JSON: the lane of every commit and the
edges of every row. Nothing is rendered.

The output goes to stdout unless --output is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), c.options(cmd, f, repoArg(args)), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&f.input, "input", "", "read commit records from a JSON file instead of git")
	cmd.Flags().StringSliceVar(&f.revisions, "rev", nil, "limit the history to what these revisions reach")
	cmd.Flags().BoolVar(&f.noStashes, "no-stashes", false, "leave stash entries out")
	cmd.Flags().StringVar(&f.order, "order", "", "commit order: chrono, topo")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string) error {
	runner := pipeline.NewRunner(nil, c.Logger, c.hooks())
	res, err := runner.Layout(ctx, opts)
	if err != nil {
		return err
	}

	if output == "" {
		return graph.WriteLayout(res.Graph, os.Stdout)
	}
	if err := graph.WriteLayoutFile(res.Graph, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(res.Stats.Commits, res.Stats.Lanes, res.Stats.Signatures)
	printNewline()
	printNextStep("Render", appName+" snapshot --input <records.json>")
	return nil
}
