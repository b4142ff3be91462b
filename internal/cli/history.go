package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lanegraph/pkg/config"
	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/pipeline"
	"github.com/matzehuels/lanegraph/pkg/protocol"
)

// sgrReset restores the default colors. Kitty rows leave the foreground
// set to the encoded image id.
const sgrReset = "\x1b[0m"

// logCommand creates the log command, which prints the graph next to the
// commit list.
func (c *CLI) logCommand() *cobra.Command {
	var (
		watch bool
		limit int
	)
	f := &graphFlags{}

	cmd := &cobra.Command{
		Use:   "log [path]",
		Short: "Print the commit graph with inline images",
		Long: `Print the commit graph of a repository, one row per commit, with the graph
drawn as inline terminal images next to the hash, date, author and subject.

Rows are rendered on demand and cached on disk, so repeated runs only draw
rows whose shape has not been seen before.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLog(cmd, repoArg(args), f, watch, limit)
		},
	}

	f.register(cmd, true)
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "redraw when the history changes")
	cmd.Flags().IntVarP(&limit, "max-count", "n", 0, "print at most this many commits")

	return cmd
}

func (c *CLI) runLog(cmd *cobra.Command, repo string, f *graphFlags, watch bool, limit int) error {
	ctx := cmd.Context()

	s := openSession()
	defer s.Close()

	proto, err := s.protocol(f.protocol, c.Config.Graph.Protocol)
	if err != nil {
		return err
	}
	c.Logger.Debug("terminal", "protocol", proto.Name(), "cols", s.cols, "rows", s.rows, "cell", fmt.Sprintf("%dx%d", s.cellW, s.cellH))

	runner, err := c.newRunner(ctx, f)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(cmd, f, repo)
	opts.Protocol = proto
	opts.Cols, opts.Rows = s.cols, s.rows
	opts.CellPixelWidth, opts.CellPixelHeight = s.cellW, s.cellH

	if watch && limit == 0 && s.rows > 1 {
		limit = s.rows - 1
	}

	if !watch {
		res, err := c.build(ctx, runner, opts, s.interactive)
		if err != nil {
			return err
		}
		return printLog(ctx, os.Stdout, res, c.Config.List, s.cols, limit)
	}

	paths, err := watchPaths(ctx, opts)
	if err != nil {
		return err
	}
	screen := &logScreen{w: os.Stdout, proto: proto, rows: s.rows}
	clearScreen(os.Stdout, proto, s.rows)
	draw := func() error {
		res, err := c.build(ctx, runner, opts, s.interactive)
		if err != nil {
			return err
		}
		return screen.show(ctx, res, c.Config.List, s.cols, limit)
	}
	if err := draw(); err != nil {
		return err
	}
	return c.watch(ctx, paths, draw)
}

// logScreen is the terminal of a watching log. It holds the images of one
// Manager generation at a time.
type logScreen struct {
	w     io.Writer
	proto protocol.Protocol
	rows  int
	shown string
}

// show prints res, clearing the images of the previous generation first.
// A generation already on screen is not printed again.
func (s *logScreen) show(ctx context.Context, res *pipeline.Result, lc config.ListConfig, cols, limit int) error {
	gen := res.Manager.Generation()
	if gen == s.shown {
		return nil
	}
	if s.shown != "" {
		clearScreen(s.w, s.proto, s.rows)
	}
	s.shown = gen
	return printLog(ctx, s.w, res, lc, cols, limit)
}

// build runs the pipeline, with a spinner while rows are preloaded.
func (c *CLI) build(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, interactive bool) (*pipeline.Result, error) {
	var spinner *Spinner
	if opts.Preload && interactive {
		spinner = newSpinnerWithContext(ctx, "Rendering graph...")
		spinner.Start()
	}
	res, err := runner.Build(ctx, opts)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// printLog writes one line per commit: the row image followed by the
// commit columns fitted into the cols-wide terminal. Zero cols disables
// fitting and a positive limit stops after that many rows.
func printLog(ctx context.Context, w io.Writer, res *pipeline.Result, lc config.ListConfig, cols, limit int) error {
	m := res.Manager
	n := res.Graph.Len()
	if limit > 0 {
		n = min(n, limit)
	}
	avail := 0
	if cols > 0 {
		avail = max(cols-m.CellWidth()-1, 1)
	}

	bw := bufio.NewWriter(w)
	for row := range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		commit := res.Graph.Commits[row]
		img, err := m.Load(ctx, commit.Hash)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "%s%s %s\n", img, sgrReset, styleColumns(commitColumns(commit, lc, avail)))
	}
	return bw.Flush()
}

// columns are the text fields of one commit line. Empty fields are left
// out.
type columns struct {
	hash, date, name, subject string
}

// commitColumns formats c for a line of avail columns. Author and date
// are dropped, in that order, when the subject would get fewer than
// SubjectMinWidth columns. Zero avail disables fitting.
func commitColumns(c *dag.Commit, lc config.ListConfig, avail int) columns {
	when := c.Author.When
	if when.IsZero() {
		when = c.Committer.When
	}
	if lc.DateLocal {
		when = when.Local()
	}

	out := columns{hash: c.ShortHash(), subject: c.Subject}
	if !when.IsZero() && lc.DateWidth > 0 {
		out.date = fit(when.Format(lc.DateFormat), lc.DateWidth)
	}
	if c.Author.Name != "" && lc.NameWidth > 0 {
		out.name = fit(c.Author.Name, lc.NameWidth)
	}
	if avail <= 0 {
		return out
	}

	rest := avail - runewidth.StringWidth(out.hash) - 1
	meta := func() int {
		n := 0
		if out.name != "" {
			n += lc.NameWidth + 1
		}
		if out.date != "" {
			n += lc.DateWidth + 1
		}
		return n
	}
	if out.name != "" && rest-meta() < lc.SubjectMinWidth {
		out.name = ""
	}
	if out.date != "" && rest-meta() < lc.SubjectMinWidth {
		out.date = ""
	}
	rest -= meta()
	out.subject = runewidth.Truncate(out.subject, max(rest, 0), "…")
	return out
}

// fit truncates or pads s to exactly width columns.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

func styleColumns(cols columns) string {
	parts := []string{StyleHighlight.Render(cols.hash)}
	if cols.date != "" {
		parts = append(parts, StyleDim.Render(cols.date))
	}
	if cols.name != "" {
		parts = append(parts, StyleValue.Render(cols.name))
	}
	parts = append(parts, cols.subject)
	return strings.Join(parts, " ")
}

// clearScreen clears the terminal and the image placements of the first
// rows lines.
func clearScreen(w io.Writer, p protocol.Protocol, rows int) {
	for y := range rows {
		p.ClearLine(w, y)
	}
	fmt.Fprint(w, "\x1b[H\x1b[2J")
}
