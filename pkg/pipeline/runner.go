package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dhebbeker/doxygen/pkg/cache"
	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
	"github.com/dhebbeker/doxygen/pkg/observability"
	"github.com/dhebbeker/doxygen/pkg/render"
)

// renderFunc converts DOT into a format. Tests replace it to avoid Graphviz.
type renderFunc func(ctx context.Context, dot []byte, format string) ([]byte, error)

// Runner encapsulates pipeline execution with caching.
//
// The Runner keeps no per-run state, so multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	render renderFunc
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
		render: render.Render,
	}
}

// Execute computes the graph of dir and renders every requested format.
func (r *Runner) Execute(ctx context.Context, p *Project, dir *dirtree.Dir, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Dir:       dir,
		Artifacts: make(map[string][]byte, len(opts.Formats)),
	}

	graphStart := time.Now()
	g := r.Graph(ctx, p, dir, opts.Graph)
	result.Graph = g
	result.Stats.GraphTime = time.Since(graphStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	renderStart := time.Now()
	allHit, images := true, 0
	for _, format := range opts.Formats {
		data, hit, err := r.RenderWithCacheInfo(ctx, dir.Path(), g.DOT, format, opts.Refresh)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		if format != render.FormatDOT {
			images++
			allHit = allHit && hit
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = images > 0 && allHit

	r.Logger.Debug("rendered graph",
		"dir", dir.Path(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"formats", opts.Formats,
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.GraphTime+result.Stats.RenderTime)

	return result, nil
}

// Graph computes the dependency graph of dir using the project's relations.
func (r *Runner) Graph(ctx context.Context, p *Project, dir *dirtree.Dir, opts dotdir.Options) *dotdir.Graph {
	hooks := observability.Pipeline()
	hooks.OnGraphStart(ctx, dir.Path())
	start := time.Now()

	g := dotdir.Generate(dir, opts, p.Relations)

	hooks.OnGraphComplete(ctx, dir.Path(), len(g.Nodes), len(g.Edges), time.Since(start), nil)
	return g
}

// RenderWithCacheInfo converts dot into format and reports whether the result
// came from cache. DOT output is returned as is. Cache failures are logged and
// treated as misses.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, dir string, dot []byte, format string, refresh bool) ([]byte, bool, error) {
	if format == render.FormatDOT {
		return dot, false, nil
	}

	cacheHooks := observability.Cache()
	key := r.Keyer.ArtifactKey(cache.Hash(dot), cache.ArtifactKeyOpts{Format: format})

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "dir", dir, "err", err)
		case hit:
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
	}
	cacheHooks.OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, dir, format)
	start := time.Now()
	data, err := r.render(ctx, dot, format)
	hooks.OnRenderComplete(ctx, dir, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
		r.Logger.Warn("cache write failed", "dir", dir, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, dir string, dot []byte, format string) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, dir, dot, format, false)
	return data, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
