package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/lanegraph/pkg/pipeline"
)

// graphFlags holds the flags shared by every command that builds a graph.
type graphFlags struct {
	input     string
	revisions []string
	noStashes bool
	order     string
	style     string
	width     string
	protocol  string
	preload   bool
	noCache   bool
	redis     string
}

// register adds the flags to cmd. Empty values fall back to the config.
func (f *graphFlags) register(cmd *cobra.Command, withProtocol bool) {
	fs := cmd.Flags()
	fs.StringVar(&f.input, "input", "", "read commit records from a JSON file instead of git")
	fs.StringSliceVar(&f.revisions, "rev", nil, "limit the history to what these revisions reach")
	fs.BoolVar(&f.noStashes, "no-stashes", false, "leave stash entries out")
	fs.StringVar(&f.order, "order", "", "commit order: chrono, topo")
	fs.StringVar(&f.style, "style", "", "edge style: rounded, angular")
	fs.StringVar(&f.width, "graph-width", "", "lane width: auto, double, single")
	fs.BoolVar(&f.preload, "preload", false, "render every row before printing")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the row image cache")
	fs.StringVar(&f.redis, "redis", "", "share the row image cache through redis at this address")
	if withProtocol {
		fs.StringVar(&f.protocol, "protocol", "", "image protocol: auto, iterm, kitty")
	}
}

// options converts the flags to pipeline options. The config's preload
// setting applies unless --preload was given.
func (c *CLI) options(cmd *cobra.Command, f *graphFlags, repo string) pipeline.Options {
	preload := c.Config.Graph.Preload
	if cmd.Flags().Changed("preload") {
		preload = f.preload
	}
	cfg := c.Config
	return pipeline.Options{
		RepoPath:  repo,
		Input:     f.input,
		Revisions: f.revisions,
		NoStashes: f.noStashes,
		Order:     f.order,
		Style:     f.style,
		CellWidth: f.width,
		Config:    &cfg,
		NoCache:   f.noCache,
		Preload:   preload,
		Logger:    c.Logger,
	}
}

// repoArg returns the repository path argument, defaulting to ".".
func repoArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
