package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqtree/pkg/cache"
	seqio "github.com/matzehuels/seqtree/pkg/io"
	"github.com/matzehuels/seqtree/pkg/observability"
	"github.com/matzehuels/seqtree/pkg/scene"
	"github.com/matzehuels/seqtree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute runs the complete layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, sheet *scene.Sheet, state tree.CollapseState, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Layout
	layoutStart := time.Now()
	root, err := r.Layout(ctx, sheet, state, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Tree = root
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.ObjectCount = sheet.Len()
	result.Stats.RowCount = tree.Count(root)
	result.Stats.Height = root.SubtreeHeight

	r.Logger.Info("built row tree",
		"sheet", sheet.Address().SheetID,
		"rows", result.Stats.RowCount,
		"height", result.Stats.Height,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.render(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.TreeHash = hash
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout builds the row tree and reports it to the pipeline hooks.
// Layout is never cached.
func (r *Runner) Layout(ctx context.Context, sheet *scene.Sheet, state tree.CollapseState, opts Options) (*tree.SheetRow, error) {
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	var sheetID string
	var objects int
	if sheet != nil {
		sheetID = sheet.Address().SheetID
		objects = sheet.Len()
	}

	start := time.Now()
	hooks.OnLayoutStart(ctx, sheetID, objects)
	root, err := Layout(sheet, state, opts)
	rows := 0
	if root != nil {
		rows = tree.Count(root)
	}
	hooks.OnLayoutComplete(ctx, sheetID, rows, time.Since(start), err)
	return root, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, root *tree.SheetRow, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	artifacts, _, hit, err := r.render(ctx, root, opts)
	return artifacts, hit, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, root *tree.SheetRow, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, root, opts)
	return artifacts, err
}

func (r *Runner) render(ctx context.Context, root *tree.SheetRow, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}
	hooks := observability.Pipeline()
	cacheHooks := observability.Cache()

	// Compute cache key from the tree itself
	treeData, err := seqio.MarshalTree(root)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize tree for cache key: %w", err)
	}
	treeHash := cache.Hash(treeData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err != nil || !hit {
				cacheHooks.OnCacheMiss(ctx, "artifact:"+format)
				break
			}
			cacheHooks.OnCacheHit(ctx, "artifact:"+format)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, treeHash, true, nil
		}
	}

	// Render all formats
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	rendered, err := Render(root, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(treeHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact:"+format, len(data))
	}

	return rendered, treeHash, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
