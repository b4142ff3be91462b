package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lgio "github.com/matzehuels/lanegraph/pkg/io"
	"github.com/matzehuels/lanegraph/pkg/pipeline"
)

// exportCommand creates the export command, which saves the history as
// commit records that --input can read back.
func (c *CLI) exportCommand() *cobra.Command {
	var output string
	f := &graphFlags{}

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Save the history as JSON commit records",
		Long: `Save the history of a repository as JSON commit records. Every command
accepts the result with --input, so a history can be captured once and drawn
anywhere.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), c.options(cmd, f, repoArg(args)), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&f.input, "input", "", "read commit records from a JSON file instead of git")
	cmd.Flags().StringSliceVar(&f.revisions, "rev", nil, "limit the history to what these revisions reach")
	cmd.Flags().BoolVar(&f.noStashes, "no-stashes", false, "leave stash entries out")
	cmd.Flags().StringVar(&f.order, "order", "", "commit order: chrono, topo")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts pipeline.Options, output string) error {
	runner := pipeline.NewRunner(nil, c.Logger, c.hooks())
	commits, err := runner.LoadCommits(ctx, opts)
	if err != nil {
		return err
	}

	if output == "" {
		return lgio.WriteJSON(commits, os.Stdout)
	}
	if err := lgio.ExportJSON(commits, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printSuccess("Exported %d commits", len(commits))
	printFile(output)
	return nil
}
