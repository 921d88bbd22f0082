package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diagramkit/diagramkit/pkg/cache"
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/observability"
	"github.com/diagramkit/diagramkit/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options, as long as they pass distinct diagrams.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
// The diagram's bounds are updated in place.
func (r *Runner) Execute(ctx context.Context, d *model.Diagram, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)

	result := &Result{
		Diagram:   d,
		Artifacts: make(map[string][]byte),
	}
	result.Stats.ElementCount = d.Index().Len()

	if data, err := d.Marshal(); err == nil {
		result.DiagramHash = cache.Hash(data)
	}

	// Stage 1: Layout
	layoutStart := time.Now()
	layoutHit, err := r.LayoutWithCacheInfo(ctx, d, result.DiagramHash, &opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	logger.Info("computed layout",
		"elements", result.Stats.ElementCount,
		"passes", result.Stats.Passes,
		"committed", result.Stats.Committed,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, d, &opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout computes and commits bounds for the diagram without caching
// metadata. It is the cache-free entry point for callers that manage
// their own keys.
func (r *Runner) Layout(ctx context.Context, d *model.Diagram, opts Options) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	var stats Stats
	_, err := r.LayoutWithCacheInfo(ctx, d, "", &opts, &stats)
	return err
}

// LayoutWithCacheInfo computes bounds with caching and reports whether
// the result came from the cache. An empty diagramHash disables caching
// for the call.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, d *model.Diagram, diagramHash string, opts *Options, stats *Stats) (bool, error) {
	cacheKey := ""
	if diagramHash != "" {
		cacheKey = r.Keyer.LayoutKey(diagramHash, opts.layoutKeyOpts())
	}

	// Try cache first
	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if applied, err := applyCachedBounds(d, data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				stats.Committed = applied
				return true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	data := layout.NewBoundsData()
	stats.Passes = LayoutTree(ctx, d.Root, *opts.Layout, data)
	stats.Committed = data.Commit()
	observability.Layout().OnCommit(ctx, stats.Committed)

	// Cache the result
	if cacheKey != "" {
		if encoded, err := marshalBounds(d.Root); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, encoded, cache.TTLLayout)
			observability.Cache().OnCacheSet(ctx, "layout", len(encoded))
		}
	}
	return false, nil
}

// RenderWithCacheInfo renders all requested formats with per-format
// caching. The hit flag reports whether every artifact came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *model.Diagram, opts *Options) (map[string][]byte, bool, error) {
	laidOut, err := d.Marshal()
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(laidOut)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		cacheKey := r.Keyer.RenderKey(layoutHash, cache.RenderKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "render")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "render")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := render.Formats(ctx, d, missing, opts.svgOptions()...)
	if err != nil {
		return nil, false, err
	}

	// Cache each freshly rendered format
	for format, data := range rendered {
		artifacts[format] = data
		cacheKey := r.Keyer.RenderKey(layoutHash, cache.RenderKeyOpts{Format: format})
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLRender)
		observability.Cache().OnCacheSet(ctx, "render", len(data))
	}
	return artifacts, false, nil
}

// Close releases the runner's cache resources.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

// =============================================================================
// Cached bounds encoding
// =============================================================================

// marshalBounds serializes element bounds as an id → bounds table.
func marshalBounds(root *model.Element) ([]byte, error) {
	table := make(map[string]geometry.Bounds)
	root.Walk(func(e *model.Element) bool {
		if e.Bounds != nil {
			table[e.ID] = *e.Bounds
		}
		return true
	})
	return json.Marshal(table)
}

// applyCachedBounds writes a cached id → bounds table into the tree and
// returns how many elements were updated.
func applyCachedBounds(d *model.Diagram, data []byte) (int, error) {
	var table map[string]geometry.Bounds
	if err := json.Unmarshal(data, &table); err != nil {
		return 0, err
	}

	applied := 0
	d.Root.Walk(func(e *model.Element) bool {
		if b, ok := table[e.ID]; ok {
			copied := b
			e.Bounds = &copied
			applied++
		}
		return true
	})
	return applied, nil
}
