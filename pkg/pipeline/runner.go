package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lanegraph/pkg/cache"
	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/graphimage"
	lgio "github.com/matzehuels/lanegraph/pkg/io"
	"github.com/matzehuels/lanegraph/pkg/observability"
	"github.com/matzehuels/lanegraph/pkg/render"
	"github.com/matzehuels/lanegraph/pkg/source/gitlog"
	"github.com/matzehuels/lanegraph/pkg/terminal"
)

// Runner builds graphs with a shared row image cache.
//
// The Runner is stateless except for the cache, logger and hooks. It does
// not store results, so a watcher can call Build again for every refresh.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
	Hooks  observability.Hooks
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger uses the default logger.
func NewRunner(c cache.Cache, logger *log.Logger, hooks observability.Hooks) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
		Hooks:  hooks.Normalize(),
	}
}

// LoadCommits reads the history in display order, from opts.Input when set
// and from the repository otherwise.
func (r *Runner) LoadCommits(ctx context.Context, opts Options) ([]*dag.Commit, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Input != "" {
		commits, err := lgio.ImportJSON(opts.Input)
		if err != nil {
			return nil, err
		}
		return dag.Sort(commits, opts.order), nil
	}
	return gitlog.Load(ctx, opts.RepoPath, gitlog.Options{
		Order:     opts.order,
		Revisions: opts.Revisions,
		NoStashes: opts.NoStashes,
	})
}

// Layout reads the history and computes its graph without creating images.
func (r *Runner) Layout(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{Style: opts.style}

	loadStart := time.Now()
	commits, err := r.LoadCommits(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	d, err := dag.New(commits)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "history")
	}
	result.DAG = d
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Commits = d.Len()

	r.Logger.Debug("loaded history",
		"commits", d.Len(),
		"order", opts.order,
		"duration", result.Stats.LoadTime)

	layoutStart := time.Now()
	g := graph.Build(d)
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Lanes = g.CellCount()
	result.Stats.Signatures = len(g.Signatures())
	r.Hooks.Render.OnLayoutComplete(ctx, g.Len(), g.CellCount(), result.Stats.LayoutTime)

	r.Logger.Debug("computed layout",
		"lanes", g.CellCount(),
		"signatures", result.Stats.Signatures,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// Build runs the complete load → layout → images pipeline.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result, err := r.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}
	g := result.Graph

	width := opts.cellWidth
	if opts.Cols > 0 {
		if width, err = terminal.DecideCellWidth(g.MaxLane, opts.Cols, opts.Rows, opts.cellWidth); err != nil {
			return nil, err
		}
	} else if width == render.CellWidthAuto {
		width = render.CellWidthDouble
	}
	result.CellWidth = width

	params, err := r.Params(opts, width)
	if err != nil {
		return nil, err
	}
	result.Params = params

	var backend cache.Cache
	if !opts.NoCache {
		backend = r.Cache
	}

	imageStart := time.Now()
	m, err := graphimage.New(ctx, g, graphimage.Options{
		Params:    params,
		Style:     opts.style,
		CellWidth: width,
		Protocol:  opts.Protocol,
		Cache:     backend,
		Preload:   opts.Preload,
		Workers:   opts.Workers,
		Logger:    opts.Logger,
		Hooks:     r.Hooks,
	})
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	result.Manager = m
	result.Stats.ImageTime = time.Since(imageStart)

	r.Logger.Debug("prepared images",
		"width", width,
		"style", opts.style,
		"protocol", opts.Protocol.Name(),
		"preload", opts.Preload,
		"duration", result.Stats.ImageTime)

	return result, nil
}

// Params returns the geometry for width w: the configured colors and
// overrides, with single width lanes scaled to the character cell when its
// pixel size is known.
func (r *Runner) Params(opts Options, w render.CellWidth) (render.Params, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Params{}, err
	}
	p, err := opts.Config.Params(w)
	if err != nil {
		return p, err
	}
	if w != render.CellWidthSingle || opts.CellPixelWidth <= 0 || opts.CellPixelHeight <= 0 {
		return p, nil
	}

	scaled := terminal.SingleParamsForCell(opts.CellPixelWidth, opts.CellPixelHeight)
	p.Width = scaled.Width
	if opts.Config.Graph.LineWidth == 0 {
		p.LineWidth = scaled.LineWidth
	}
	if opts.Config.Graph.InnerRadius == 0 {
		p.InnerRadius = scaled.InnerRadius
	}
	if opts.Config.Graph.OuterRadius == 0 {
		p.OuterRadius = scaled.OuterRadius
	}
	if err := p.Validate(); err != nil {
		r.Logger.Warn("cell scaled geometry is invalid, using defaults", "error", err)
		return opts.Config.Params(w)
	}
	return p, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
