package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lanegraph/pkg/graphimage"
	"github.com/matzehuels/lanegraph/pkg/pipeline"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// snapshotCommand creates the snapshot command, which writes the whole
// graph column as one PNG.
func (c *CLI) snapshotCommand() *cobra.Command {
	var (
		output string
		width  int
	)
	f := &graphFlags{}

	cmd := &cobra.Command{
		Use:   "snapshot [path]",
		Short: "Write the graph as a single PNG image",
		Long: `Write the graph as a single PNG image: every row image stacked top to
bottom, exactly as they are drawn in the terminal.

The terminal is not consulted, so --graph-width auto means double width.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(cmd, f, repoArg(args))
			return c.runSnapshot(cmd.Context(), opts, f, output, width)
		},
	}

	f.register(cmd, false)
	cmd.Flags().StringVarP(&output, "output", "o", "graph.png", "output file")
	cmd.Flags().IntVar(&width, "scale-width", 0, "scale the image to this width in pixels")

	return cmd
}

func (c *CLI) runSnapshot(ctx context.Context, opts pipeline.Options, f *graphFlags, output string, width int) error {
	runner, err := c.newRunner(ctx, f)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering graph...")
	spinner.Start()

	res, err := runner.Build(ctx, opts)
	if err != nil {
		spinner.StopWithError("Snapshot failed")
		return err
	}
	img, err := res.Manager.Snapshot(ctx)
	if err != nil {
		spinner.StopWithError("Snapshot failed")
		return err
	}
	spinner.Stop()

	if width > 0 {
		img = graphimage.Scale(img, width)
	}
	if err := os.WriteFile(output, render.EncodePNG(img), 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done("Rendered snapshot")

	printSuccess("Snapshot complete")
	printFile(output)
	printStats(res.Stats.Commits, res.Stats.Lanes, res.Stats.Signatures)
	printKeyValue("Size", fmt.Sprintf("%dx%d px", img.Bounds().Dx(), img.Bounds().Dy()))
	return nil
}
