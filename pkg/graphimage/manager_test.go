package graphimage

import (
	"context"
	"fmt"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/lanegraph/pkg/cache"
	"github.com/matzehuels/lanegraph/pkg/dag"
	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/observability"
	"github.com/matzehuels/lanegraph/pkg/render"
)

// countingProtocol records how often rows are encoded.
type countingProtocol struct {
	mu    sync.Mutex
	calls int
}

func (p *countingProtocol) Encode(png []byte, cellWidth int) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return fmt.Sprintf("img#%d[%d bytes, %d cols]", p.calls, len(png), cellWidth)
}

func (p *countingProtocol) ClearLine(io.Writer, int) {}
func (p *countingProtocol) Name() string             { return "counting" }

func (p *countingProtocol) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type recordingHooks struct {
	observability.NoopRenderHooks
	mu                 sync.Mutex
	rendered, cached   int
	readyRows, readyNs int
}

func (h *recordingHooks) OnRowRendered(_ context.Context, _ int, cached bool, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rendered++
	if cached {
		h.cached++
	}
}

func (h *recordingHooks) OnManagerReady(_ context.Context, rows, signatures int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.readyRows, h.readyNs = rows, signatures
}

// chain builds d -> c -> b -> a, which has three distinct row signatures.
func chain(t *testing.T) *graph.Graph {
	t.Helper()
	d, err := dag.New([]*dag.Commit{
		{Hash: "d", Parents: []string{"c"}},
		{Hash: "c", Parents: []string{"b"}},
		{Hash: "b", Parents: []string{"a"}},
		{Hash: "a"},
	})
	require.NoError(t, err)
	return graph.Build(d)
}

func options(p *countingProtocol) Options {
	return Options{
		Params:    render.DoubleParams(),
		Style:     render.StyleRounded,
		CellWidth: render.CellWidthDouble,
		Protocol:  p,
	}
}

func TestPreload(t *testing.T) {
	g := chain(t)
	proto := &countingProtocol{}
	hooks := &recordingHooks{}
	opts := options(proto)
	opts.Preload = true
	opts.Workers = 2
	opts.Hooks = observability.Hooks{Render: hooks}

	m, err := New(context.Background(), g, opts)
	require.NoError(t, err)

	assert.Equal(t, 3, proto.count())
	assert.Equal(t, 4, hooks.readyRows)
	assert.Equal(t, 3, hooks.readyNs)

	for _, c := range g.Commits {
		_, ok := m.EncodedImage(c.Hash)
		assert.True(t, ok, c.Hash)
	}
	mid1, _ := m.EncodedImage("c")
	mid2, _ := m.EncodedImage("b")
	assert.Equal(t, mid1, mid2, "rows with equal signatures share an image")

	// Loading after preload renders nothing.
	_, err = m.Load(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 3, proto.count())
}

func TestLazyLoad(t *testing.T) {
	g := chain(t)
	proto := &countingProtocol{}
	m, err := New(context.Background(), g, options(proto))
	require.NoError(t, err)
	assert.Zero(t, proto.count())

	_, ok := m.EncodedImage("c")
	assert.False(t, ok)

	s1, err := m.Load(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, 1, proto.count())

	s2, err := m.Load(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, proto.count(), "same signature reuses the image")

	_, err = m.Load(context.Background(), "c")
	require.NoError(t, err)
	assert.Equal(t, 1, proto.count())

	_, ok = m.EncodedImage("d")
	assert.False(t, ok, "unloaded rows have no image")

	require.NoError(t, m.LoadRange(context.Background(), -1, 10))
	assert.Equal(t, 3, proto.count())
}

func TestLoadConcurrent(t *testing.T) {
	g := chain(t)
	m, err := New(context.Background(), g, options(&countingProtocol{}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = m.Load(context.Background(), "b")
		}()
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestLoadUnknownCommit(t *testing.T) {
	m, err := New(context.Background(), chain(t), options(&countingProtocol{}))
	require.NoError(t, err)

	_, err = m.Load(context.Background(), "zzz")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "got %v", err)
}

func TestCellWidth(t *testing.T) {
	g := chain(t)
	m, err := New(context.Background(), g, options(&countingProtocol{}))
	require.NoError(t, err)
	assert.Equal(t, 2*g.CellCount(), m.CellWidth())

	opts := options(&countingProtocol{})
	opts.CellWidth = render.CellWidthSingle
	opts.Params = render.SingleParams()
	m, err = New(context.Background(), g, opts)
	require.NoError(t, err)
	assert.Equal(t, g.CellCount(), m.CellWidth())
}

func TestNewValidation(t *testing.T) {
	g := chain(t)

	_, err := New(context.Background(), g, Options{Params: render.DoubleParams()})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidProtocol))

	opts := options(&countingProtocol{})
	opts.Params.LineWidth = 0
	_, err = New(context.Background(), g, opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestPreloadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := options(&countingProtocol{})
	opts.Preload = true
	_, err := New(ctx, chain(t), opts)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSharedCache(t *testing.T) {
	g := chain(t)
	backend, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	first := &recordingHooks{}
	opts := options(&countingProtocol{})
	opts.Cache = backend
	opts.Preload = true
	opts.Hooks = observability.Hooks{Render: first}
	m1, err := New(context.Background(), g, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, first.rendered)
	assert.Zero(t, first.cached)

	second := &recordingHooks{}
	opts.Hooks = observability.Hooks{Render: second}
	m2, err := New(context.Background(), g, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, second.cached, "second manager reads every row from the cache")
	assert.NotEqual(t, m1.Generation(), m2.Generation())

	// A different style lives in a different cache directory.
	third := &recordingHooks{}
	opts.Style = render.StyleAngular
	opts.Hooks = observability.Hooks{Render: third}
	_, err = New(context.Background(), g, opts)
	require.NoError(t, err)
	assert.Zero(t, third.cached)
}

func TestSnapshot(t *testing.T) {
	g := chain(t)
	m, err := New(context.Background(), g, options(&countingProtocol{}))
	require.NoError(t, err)

	img, err := m.Snapshot(context.Background())
	require.NoError(t, err)

	p := render.DoubleParams()
	assert.Equal(t, image.Rect(0, 0, g.CellCount()*p.Width, g.Len()*p.Height), img.Bounds())

	// Node centers of every row carry the lane color.
	for row := range g.Len() {
		got := img.NRGBAAt(p.Width/2, row*p.Height+p.Height/2)
		assert.Equal(t, p.EdgeColor(0), got, "row %d", row)
	}
	// The top row has no line above its node.
	assert.Zero(t, img.NRGBAAt(p.Width/2, 0).A)
	// Middle rows do.
	assert.NotZero(t, img.NRGBAAt(p.Width/2, p.Height).A)
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 40))
	out := Scale(src, 50)
	assert.Equal(t, image.Rect(0, 0, 50, 20), out.Bounds())

	same := Scale(src, 0)
	assert.Equal(t, src.Bounds(), same.Bounds())
}
