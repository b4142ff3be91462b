// Package observability provides hooks for render and cache instrumentation.
//
// Hooks are plain interfaces with no-op defaults. They are passed to the
// components that emit events through their options, never registered
// globally, so two graphs rendered in one process can report to different
// sinks.
//
// # Usage
//
//	hooks := observability.Hooks{
//	    Render: observability.NewLogHooks(logger),
//	    Cache:  observability.NewLogHooks(logger),
//	}
//	m, err := graphimage.New(ctx, g, graphimage.Options{Hooks: hooks, ...})
//
// Components call [Hooks.Normalize] once so they can emit without nil checks:
//
//	h := opts.Hooks.Normalize()
//	h.Render.OnRowRendered(ctx, sig.Lane, false, time.Since(start))
package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from layout and row rendering.
type RenderHooks interface {
	// OnLayoutComplete fires after positions and edges are computed.
	OnLayoutComplete(ctx context.Context, commits, lanes int, duration time.Duration)

	// OnRowRendered fires once per row signature that was produced,
	// either rasterized or read from the cache.
	OnRowRendered(ctx context.Context, lane int, cached bool, duration time.Duration)

	// OnManagerReady fires when an image manager has finished its eager
	// pass (or immediately for lazy managers).
	OnManagerReady(ctx context.Context, rows, signatures int, duration time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnLayoutComplete(context.Context, int, int, time.Duration) {}
func (NoopRenderHooks) OnRowRendered(context.Context, int, bool, time.Duration)   {}
func (NoopRenderHooks) OnManagerReady(context.Context, int, int, time.Duration)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Hook Bundle
// =============================================================================

// Hooks bundles the hooks a component may emit to. Nil members are no-ops.
type Hooks struct {
	Render RenderHooks
	Cache  CacheHooks
}

// Normalize returns h with nil members replaced by no-op implementations.
func (h Hooks) Normalize() Hooks {
	if h.Render == nil {
		h.Render = NoopRenderHooks{}
	}
	if h.Cache == nil {
		h.Cache = NoopCacheHooks{}
	}
	return h
}

// =============================================================================
// Logging Implementation
// =============================================================================

// LogHooks writes every event to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, commits, lanes int, d time.Duration) {
	h.logger.Debug("layout complete", "commits", commits, "lanes", lanes, "duration", d)
}

func (h *LogHooks) OnRowRendered(_ context.Context, lane int, cached bool, d time.Duration) {
	h.logger.Debug("row rendered", "lane", lane, "cached", cached, "duration", d)
}

func (h *LogHooks) OnManagerReady(_ context.Context, rows, signatures int, d time.Duration) {
	h.logger.Debug("images ready", "rows", rows, "signatures", signatures, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ RenderHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
)
