package cache

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lanegraph/pkg/graph"
	"github.com/matzehuels/lanegraph/pkg/observability"
	"github.com/matzehuels/lanegraph/pkg/render"
)

const rowKeyType = "row"

// RowCacheOptions configures a [RowCache].
type RowCacheOptions struct {
	Logger *log.Logger
	Hooks  observability.CacheHooks
}

// RowCache is the read-through cache of row images for one configuration.
type RowCache struct {
	cache  *ScopedCache
	dir    DirKey
	logger *log.Logger
	hooks  observability.CacheHooks
}

// NewRowCache scopes backend to the directory of dir. A nil backend caches
// nothing.
func NewRowCache(backend Cache, dir DirKey, opts RowCacheOptions) *RowCache {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.NoopCacheHooks{}
	}
	return &RowCache{
		cache:  NewScopedCache(backend, dir.Hash()+"/"),
		dir:    dir,
		logger: opts.Logger,
		hooks:  opts.Hooks,
	}
}

// Dir returns the directory key.
func (rc *RowCache) Dir() DirKey { return rc.dir }

// Get looks up a row. It returns ErrCacheMiss when the row is absent and
// ErrCorrupt when the stored bytes are not a PNG; corrupt entries are
// removed.
func (rc *RowCache) Get(ctx context.Context, sig graph.RowSignature, cellCount int) (render.RowImage, error) {
	key := NewFileKey(sig, cellCount).Hash()
	data, ok, err := rc.cache.Get(ctx, key)
	if err != nil {
		return render.RowImage{}, err
	}
	if !ok {
		return render.RowImage{}, ErrCacheMiss
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		_ = rc.cache.Delete(ctx, key)
		return render.RowImage{}, fmt.Errorf("%w %s: %v", ErrCorrupt, key, err)
	}
	return render.RowImage{Bytes: data, CellCount: cellCount}, nil
}

// Load returns the cached image of a row, or renders it with draw and
// writes it back. The boolean reports a cache hit. Backend failures never
// fail the load: they are logged and the row is rendered fresh.
func (rc *RowCache) Load(ctx context.Context, sig graph.RowSignature, cellCount int, draw func() render.RowImage) (render.RowImage, bool) {
	img, err := rc.Get(ctx, sig, cellCount)
	if err == nil {
		rc.hooks.OnCacheHit(ctx, rowKeyType)
		return img, true
	}
	if err != ErrCacheMiss {
		rc.logger.Warn("cache read failed", "lane", sig.Lane, "err", err)
	}
	rc.hooks.OnCacheMiss(ctx, rowKeyType)

	img = draw()
	key := NewFileKey(sig, cellCount).Hash()
	if err := rc.cache.Set(ctx, key, img.Bytes, 0); err != nil {
		rc.logger.Warn("cache write failed", "lane", sig.Lane, "err", err)
		return img, false
	}
	rc.hooks.OnCacheSet(ctx, rowKeyType, len(img.Bytes))
	return img, false
}
