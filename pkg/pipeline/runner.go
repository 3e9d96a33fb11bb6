package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/liegraph/pkg/adjacency"
	"github.com/matzehuels/liegraph/pkg/cache"
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/observability"
	"github.com/matzehuels/liegraph/pkg/render/dot"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

// Runner executes the pipeline with artifact caching.
//
// A Runner holds no per-run state; concurrent Execute calls on one Runner
// are safe as long as the cache is.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil
// logger uses log.Default().
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Execute reconciles snap and renders every requested format.
func (r *Runner) Execute(ctx context.Context, snap *snapshot.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	start := time.Now()
	topo, err := r.Reconcile(ctx, snap)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}
	result.Topology = topo
	result.Stats.Stats = topo.Stats()
	result.Stats.ReconcileTime = time.Since(start)

	opts.Logger.Info("reconciled snapshot",
		"nodes", result.Stats.Nodes,
		"edges", result.Stats.Edges,
		"one_sided", result.Stats.OneSided,
		"duration", result.Stats.ReconcileTime)

	start = time.Now()
	out, err := r.render(ctx, topo, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.DOT = out.dot
	result.Artifacts = out.artifacts
	result.CacheInfo = out.cacheInfo
	result.Stats.RenderTime = time.Since(start)

	opts.Logger.Info("rendered outputs",
		"formats", FormatList(opts.Formats),
		"cached", result.CacheInfo.RenderHit(),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Reconcile processes and reconciles snap without rendering.
func (r *Runner) Reconcile(ctx context.Context, snap *snapshot.Snapshot) (*adjacency.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, lgerrors.New(lgerrors.ErrCodeInvalidSnapshot, "no snapshot")
	}

	hooks := observability.Pipeline()
	hooks.OnReconcileStart(ctx, len(snap.Nodes))
	start := time.Now()

	topo, err := adjacency.Build(snap)

	edges := 0
	if err == nil {
		edges = topo.EdgeCount()
	}
	hooks.OnReconcileComplete(ctx, edges, time.Since(start), err)
	if err != nil {
		r.Logger.Debug("reconcile failed", "code", lgerrors.GetCode(err), "err", err)
		return nil, err
	}
	return topo, nil
}

// Render renders topo in every requested format.
func (r *Runner) Render(ctx context.Context, topo *adjacency.Topology, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	out, err := r.render(ctx, topo, opts)
	if err != nil {
		return nil, err
	}
	return out.artifacts, nil
}

type rendered struct {
	dot       string
	artifacts map[string][]byte
	cacheInfo CacheInfo
}

func (r *Runner) render(ctx context.Context, topo *adjacency.Topology, opts Options) (*rendered, error) {
	hooks := observability.Pipeline()

	hooks.OnRenderStart(ctx, FormatDOT)
	start := time.Now()
	text, err := dot.ToDOT(topo, opts.renderOpts)
	hooks.OnRenderComplete(ctx, FormatDOT, len(text), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	out := &rendered{dot: text, artifacts: make(map[string][]byte, len(opts.Formats))}
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		switch format {
		case FormatDOT:
			data = []byte(text)
		case FormatJSON:
			data, err = r.renderJSON(ctx, topo)
		case FormatSVG, FormatPNG:
			var hit bool
			data, hit, err = r.renderGraphviz(ctx, text, format, opts)
			if hit {
				out.cacheInfo.Hits = append(out.cacheInfo.Hits, format)
			} else {
				out.cacheInfo.Misses = append(out.cacheInfo.Misses, format)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		out.artifacts[format] = data
		opts.Logger.Debug("rendered artifact", "format", format, "bytes", len(data))
	}
	return out, nil
}

func (r *Runner) renderJSON(ctx context.Context, topo *adjacency.Topology) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, FormatJSON)
	start := time.Now()

	var buf bytes.Buffer
	err := adjacency.WriteJSON(topo, &buf)
	if err != nil {
		err = lgerrors.Wrap(lgerrors.ErrCodeInternal, err, "export topology")
	}
	hooks.OnRenderComplete(ctx, FormatJSON, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderGraphviz returns the cached artifact for (format, DOT) or renders
// and caches it. Cache failures are logged and never fail the run.
func (r *Runner) renderGraphviz(ctx context.Context, text, format string, opts Options) ([]byte, bool, error) {
	key := cache.ArtifactKey(format, text)
	cacheHooks := observability.Cache()

	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		opts.Logger.Warn("cache read failed", "format", format, "err", err)
	}
	if err == nil && hit {
		cacheHooks.OnCacheHit(ctx, format)
		return data, true, nil
	}
	cacheHooks.OnCacheMiss(ctx, format)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()
	switch format {
	case FormatSVG:
		data, err = dot.RenderSVG(ctx, text)
	case FormatPNG:
		data, err = dot.RenderPNG(ctx, text)
	}
	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
		opts.Logger.Warn("cache write failed", "format", format, "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, format, len(data))
	}
	return data, false, nil
}

// Close releases the cache.
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
