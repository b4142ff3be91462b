// Package graphimage turns a computed [graph.Graph] into encoded terminal
// images, one per commit row.
//
// A [Manager] owns one rendering configuration. Rows sharing a signature
// share one image, which is rendered at most once per Manager and at most
// once per configuration while the row cache holds it.
//
// # Eager and Lazy Loading
//
// With Options.Preload set, [New] renders every distinct signature in
// parallel before returning. Otherwise rows are rendered on demand by
// [Manager.Load], typically for the rows that are about to be displayed.
//
// A refresh of the history or a change of settings builds a new Manager;
// an existing Manager never changes configuration.
package graphimage

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lanegraph/pkg/cache"
	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/observability"
	"github.com/matzehuels/lanegraph/pkg/protocol"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// Options configures a [Manager].
type Options struct {
	Params    render.Params
	Style     render.Style
	CellWidth render.CellWidth
	Protocol  protocol.Protocol

	// Cache stores encoded PNG rows across runs; nil disables it.
	Cache cache.Cache

	// Preload renders every row in New.
	Preload bool

	// Workers bounds the parallel renders of Preload; 0 means GOMAXPROCS.
	Workers int

	Logger *log.Logger
	Hooks  observability.Hooks
}

// Manager holds the encoded images of one graph under one configuration.
// It is safe for concurrent use.
type Manager struct {
	graph      *graph.Graph
	opts       Options
	renderer   *render.Renderer
	rows       *cache.RowCache
	generation string

	mu       sync.Mutex
	bySig    map[string]string
	byCommit map[string]string
}

// New creates a Manager for g. With Options.Preload it renders every row
// before returning; a cancelled ctx aborts the preload.
func New(ctx context.Context, g *graph.Graph, opts Options) (*Manager, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInternal, "graph is nil")
	}
	if opts.Protocol == nil {
		return nil, errors.New(errors.ErrCodeInvalidProtocol, "no image protocol")
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "graph geometry")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.Hooks = opts.Hooks.Normalize()

	m := &Manager{
		graph:    g,
		opts:     opts,
		renderer: render.NewRenderer(opts.Params),
		rows: cache.NewRowCache(opts.Cache, cache.NewDirKey(opts.Params, opts.Style), cache.RowCacheOptions{
			Logger: opts.Logger,
			Hooks:  opts.Hooks.Cache,
		}),
		generation: uuid.NewString(),
		bySig:      make(map[string]string),
		byCommit:   make(map[string]string, g.Len()),
	}

	if opts.Preload {
		if err := m.preload(ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// preload renders every distinct signature, one task per signature.
func (m *Manager) preload(ctx context.Context) error {
	start := time.Now()
	sigs := m.graph.Signatures()
	encoded := make([]string, len(sigs))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(m.opts.Workers)
	for i, sig := range sigs {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			encoded[i] = m.encode(gctx, sig)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	for i, sig := range sigs {
		m.bySig[sig.Key()] = encoded[i]
	}
	for _, c := range m.graph.Commits {
		sig, _ := m.graph.Signature(c.Hash)
		m.byCommit[c.Hash] = m.bySig[sig.Key()]
	}
	m.mu.Unlock()

	m.opts.Logger.Debug("preloaded graph images", "rows", m.graph.Len(), "signatures", len(sigs), "workers", m.opts.Workers)
	m.opts.Hooks.Render.OnManagerReady(ctx, m.graph.Len(), len(sigs), time.Since(start))
	return nil
}

// Load returns the encoded image of a commit, rendering its row if no row
// with the same signature has been rendered yet.
func (m *Manager) Load(ctx context.Context, hash string) (string, error) {
	m.mu.Lock()
	if s, ok := m.byCommit[hash]; ok {
		m.mu.Unlock()
		return s, nil
	}
	sig, ok := m.graph.Signature(hash)
	if !ok {
		m.mu.Unlock()
		return "", errors.New(errors.ErrCodeInvalidInput, "commit %s is not in the graph", hash)
	}
	key := sig.Key()
	if s, ok := m.bySig[key]; ok {
		m.byCommit[hash] = s
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	// Rendering happens outside the lock. Two concurrent loads of the same
	// signature may both render; the first stored result wins.
	s := m.encode(ctx, sig)

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.bySig[key]; ok {
		s = prev
	} else {
		m.bySig[key] = s
	}
	m.byCommit[hash] = s
	return s, nil
}

// LoadRange loads the rows [from, to) of the graph.
func (m *Manager) LoadRange(ctx context.Context, from, to int) error {
	from, to = max(from, 0), min(to, m.graph.Len())
	for row := from; row < to; row++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := m.Load(ctx, m.graph.Commits[row].Hash); err != nil {
			return fmt.Errorf("row %d: %w", row, err)
		}
	}
	return nil
}

// encode renders or fetches a row and encodes it for the terminal.
func (m *Manager) encode(ctx context.Context, sig graph.RowSignature) string {
	return m.opts.Protocol.Encode(m.row(ctx, sig).Bytes, m.CellWidth())
}

// row renders or fetches the PNG of a row.
func (m *Manager) row(ctx context.Context, sig graph.RowSignature) render.RowImage {
	start := time.Now()
	cells := m.graph.CellCount()
	img, hit := m.rows.Load(ctx, sig, cells, func() render.RowImage {
		return m.renderer.Render(sig, cells, m.opts.Style)
	})
	m.opts.Hooks.Render.OnRowRendered(ctx, sig.Lane, hit, time.Since(start))
	return img
}

// EncodedImage returns the image of a commit if it has been loaded.
func (m *Manager) EncodedImage(hash string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byCommit[hash]
	return s, ok
}

// CellWidth returns the number of terminal columns the graph column takes.
func (m *Manager) CellWidth() int {
	return m.graph.CellCount() * m.opts.CellWidth.Columns()
}

// Graph returns the graph the images belong to.
func (m *Manager) Graph() *graph.Graph { return m.graph }

// Params returns the geometry rows are drawn with.
func (m *Manager) Params() render.Params { return m.opts.Params }

// Protocol returns the encoder of the images.
func (m *Manager) Protocol() protocol.Protocol { return m.opts.Protocol }

// Generation identifies this Manager. Images of different generations
// must not be mixed on screen.
func (m *Manager) Generation() string { return m.generation }
