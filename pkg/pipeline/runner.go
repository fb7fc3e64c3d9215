package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/fbnet/pkg/cache"
	"github.com/matzehuels/fbnet/pkg/network"
	"github.com/matzehuels/fbnet/pkg/observability"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// The CLI, the batch converter, and the server all use it.
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

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{JobID: uuid.New()}
	if opts.Logger == nil {
		opts.Logger = r.Logger.With("job", result.JobID.String()[:8])
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	source := opts.Source()

	data, err := ReadInput(opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	inputHash := cache.Hash(data)

	if artifacts, ok := r.cached(ctx, inputHash, opts); ok {
		result.Artifacts = artifacts
		result.CacheInfo.RenderHit = true
		logger.Debug("artifacts served from cache", "source", source, "formats", opts.Formats)
		return result, nil
	}

	// Stage 1: Parse
	parseOpts := opts
	parseOpts.TypeLibs = opts.LibraryDirs()
	parseOpts.Input = data

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, source)
	parseStart := time.Now()
	n, err := Parse(ctx, parseOpts)
	result.Stats.ParseTime = time.Since(parseStart)
	hooks.OnParseComplete(ctx, source, instanceCount(n), result.Stats.ParseTime, err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Network = n
	result.Stats.Instances = len(n.Instances)
	result.Stats.Connections = len(n.Connections)

	logger.Info("parsed network",
		"name", n.Name,
		"instances", result.Stats.Instances,
		"connections", result.Stats.Connections,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, result.Stats.Instances)
	layoutStart := time.Now()
	engine, err := Layout(n, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, n.Scale, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Stats.Scale = n.Scale

	logger.Info("computed layout",
		"scale", n.Scale,
		"width", n.Border.W,
		"height", n.Border.H,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	artifacts, err := r.render(ctx, n, engine, opts, &result.Stats)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	r.store(ctx, inputHash, opts, artifacts)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) render(ctx context.Context, n *network.Network, engine *layout.Engine, opts Options, stats *Stats) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(n, engine, opts)
	stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, stats.RenderTime, err)
	return artifacts, err
}

// cached returns every requested artifact if all of them are in the cache.
func (r *Runner) cached(ctx context.Context, inputHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, artifactKeyType)
		artifacts[format] = data
	}
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, inputHash string, opts Options, artifacts map[string][]byte) {
	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func instanceCount(n *network.Network) int {
	if n == nil {
		return 0
	}
	return len(n.Instances)
}
