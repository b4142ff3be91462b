// Package pipeline turns a repository or a commit records file into a
// ready-to-display graph.
//
// The pipeline consists of three stages:
//
//  1. Load: read commits from git or from a JSON records file
//  2. Layout: assign lanes and build the edges of every row
//  3. Images: create a [graphimage.Manager] for the chosen geometry
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger, hooks)
//	result, err := runner.Build(ctx, pipeline.Options{
//	    RepoPath: ".",
//	    Protocol: proto,
//	    Cols:     cols,
//	    Rows:     rows,
//	})
//	if err != nil {
//	    return err
//	}
//	s, err := result.Manager.Load(ctx, result.Graph.Commits[0].Hash)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lanegraph/pkg/config"
	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/graphimage"
	"github.com/matzehuels/lanegraph/pkg/protocol"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// Options contains all configuration of a pipeline run.
type Options struct {
	// RepoPath is the repository to read. Ignored when Input is set.
	RepoPath string

	// Input is a JSON commit records file read instead of the repository.
	Input string

	// Revisions limits the history read from git.
	Revisions []string

	// NoStashes leaves stash entries out of the history.
	NoStashes bool

	// Order, Style and CellWidth override the configured values when set.
	Order     string
	Style     string
	CellWidth string

	// Config supplies colors, geometry overrides and the defaults of the
	// fields above. Nil means [config.Default].
	Config *config.Config

	// Protocol encodes the row images; nil means iTerm2.
	Protocol protocol.Protocol

	// Cols and Rows are the terminal size in characters. Zero skips the
	// fit check, and auto width then picks double.
	Cols, Rows int

	// CellPixelWidth and CellPixelHeight are the pixel size of one
	// character cell. When known, single width geometry is scaled to it.
	CellPixelWidth, CellPixelHeight int

	// NoCache disables the row image cache for this run.
	NoCache bool

	// Preload renders every row before Build returns.
	Preload bool
	Workers int

	Logger *log.Logger

	order     dag.Order
	style     render.Style
	cellWidth render.CellWidth
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	DAG       *dag.DAG
	Graph     *graph.Graph
	Manager   *graphimage.Manager
	Params    render.Params
	CellWidth render.CellWidth
	Style     render.Style
	Stats     Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Commits    int
	Lanes      int
	Signatures int
	LoadTime   time.Duration
	LayoutTime time.Duration
	ImageTime  time.Duration
}

// ValidateAndSetDefaults checks the options and fills in defaults from the
// configuration. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	if o.Input != "" {
		if err := errors.ValidatePath(o.Input); err != nil {
			return err
		}
	} else {
		if o.RepoPath == "" {
			o.RepoPath = "."
		}
		if err := errors.ValidatePath(o.RepoPath); err != nil {
			return err
		}
	}
	for _, rev := range o.Revisions {
		if err := errors.ValidateRevision(rev); err != nil {
			return err
		}
	}

	var err error
	if o.order, err = dag.ParseOrder(orDefault(o.Order, o.Config.Graph.Order)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrder, err, "order")
	}
	if o.style, err = render.ParseStyle(orDefault(o.Style, o.Config.Graph.Style)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidStyle, err, "style")
	}
	if o.cellWidth, err = render.ParseCellWidth(orDefault(o.CellWidth, o.Config.Graph.Width)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidWidth, err, "graph width")
	}
	if o.Cols < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "terminal size %dx%d", o.Cols, o.Rows)
	}

	if o.Protocol == nil {
		o.Protocol = protocol.ITerm2{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParsedOrder returns the order after [Options.ValidateAndSetDefaults].
func (o *Options) ParsedOrder() dag.Order { return o.order }

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
