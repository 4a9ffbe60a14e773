package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/observability"
	"github.com/cartolab/riverlabel/pkg/raster"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
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

// Place runs the pipeline with the distance-transform strategy and its
// centroid baseline, returning the optimal placement.
func (r *Runner) Place(ctx context.Context, opts Options) (*PlaceResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	polygonHash := opts.PolygonHash()
	cacheKey := r.Keyer.PlaceKey(polygonHash, opts.LabelText, opts.FontSize, opts.Margin)

	if !opts.Refresh {
		if cached, ok := r.getCached(ctx, cacheKey, "place"); ok {
			var result PlaceResult
			if err := json.Unmarshal(cached, &result); err == nil {
				result.CacheInfo.ResultHit = true
				return &result, nil
			}
		}
	}

	poly, grid, field, stats, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	placeStart := time.Now()
	strategies := []label.Strategy{label.DistanceTransform{}, label.Centroid{}}
	placements := r.score(ctx, poly, grid, field, opts.Box(), strategies)
	stats.PlaceTime = time.Since(placeStart)

	optimal, naive := placements[0], placements[1]
	result := &PlaceResult{
		OptimalPoint:   optimal.Point,
		NaivePoint:     naive.Point,
		DistanceToEdge: optimal.DistanceToEdge,
		MaxWidth:       2 * optimal.DistanceToEdge,
		FitsInside:     optimal.FitsInside,
		Improvement:    optimal.DistanceToEdge - naive.DistanceToEdge,
		PolygonHash:    polygonHash,
		Stats:          stats,
	}

	opts.Logger.Info("placed label",
		"point", result.OptimalPoint,
		"distance", result.DistanceToEdge,
		"fits", result.FitsInside,
		"duration", stats.PlaceTime)

	r.setCached(ctx, cacheKey, "place", result)
	return result, nil
}

// Compare runs the pipeline with all three strategies and returns the full
// comparison.
func (r *Runner) Compare(ctx context.Context, opts Options) (*CompareResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	polygonHash := opts.PolygonHash()
	cacheKey := r.Keyer.CompareKey(polygonHash, opts.LabelText, opts.FontSize, opts.Margin)

	if !opts.Refresh {
		if cached, ok := r.getCached(ctx, cacheKey, "compare"); ok {
			var result CompareResult
			if err := json.Unmarshal(cached, &result); err == nil {
				result.CacheInfo.ResultHit = true
				return &result, nil
			}
		}
	}

	poly, grid, field, stats, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	placeStart := time.Now()
	placements := r.score(ctx, poly, grid, field, opts.Box(), label.All())
	stats.PlaceTime = time.Since(placeStart)

	comparison := label.NewComparison(placements[0], placements[1], placements[2])
	result := &CompareResult{
		Comparison:  comparison,
		PolygonHash: polygonHash,
		Stats:       stats,
	}

	opts.Logger.Info("compared strategies",
		"winner", comparison.Winner,
		"improvement", comparison.Improvement,
		"duration", stats.PlaceTime)

	r.setCached(ctx, cacheKey, "compare", result)
	return result, nil
}

// prepare runs the shared rasterize and field stages.
func (r *Runner) prepare(ctx context.Context, opts Options) (geom.Polygon, *raster.Grid, *raster.Field, Stats, error) {
	var stats Stats

	poly, err := opts.Polygon()
	if err != nil {
		return nil, nil, nil, stats, err
	}

	observability.Pipeline().OnRasterizeStart(ctx, len(poly))
	rasterStart := time.Now()
	grid, err := raster.Rasterize(poly, opts.Margin)
	stats.RasterTime = time.Since(rasterStart)
	observability.Pipeline().OnRasterizeComplete(ctx, gridWidth(grid), gridHeight(grid), stats.RasterTime, err)
	if err != nil {
		return nil, nil, nil, stats, err
	}
	stats.GridWidth = grid.Width
	stats.GridHeight = grid.Height
	stats.InteriorCells = grid.InteriorCount()

	opts.Logger.Info("rasterized polygon",
		"width", grid.Width,
		"height", grid.Height,
		"interior", stats.InteriorCells,
		"duration", stats.RasterTime)

	observability.Pipeline().OnFieldStart(ctx, grid.Width, grid.Height)
	fieldStart := time.Now()
	field := raster.ComputeField(grid)
	stats.FieldTime = time.Since(fieldStart)
	observability.Pipeline().OnFieldComplete(ctx, stats.FieldTime, nil)

	opts.Logger.Info("computed distance field",
		"duration", stats.FieldTime)

	return poly, grid, field, stats, nil
}

// score runs the given strategies in parallel over the shared read-only
// grid and field, then evaluates each proposal against the label box.
// Placements are returned in strategy order.
func (r *Runner) score(ctx context.Context, poly geom.Polygon, grid *raster.Grid, field *raster.Field, box label.Box, strategies []label.Strategy) []label.Placement {
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	observability.Pipeline().OnPlaceStart(ctx, names)
	start := time.Now()

	placements := make([]label.Placement, len(strategies))
	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(i int, s label.Strategy) {
			defer wg.Done()
			point := s.Propose(poly, grid, field)
			dist, fits := label.Evaluate(point, field, box)
			placements[i] = label.Placement{
				Strategy:       s.Name(),
				Point:          point,
				DistanceToEdge: dist,
				FitsInside:     fits,
			}
		}(i, s)
	}
	wg.Wait()

	observability.Pipeline().OnPlaceComplete(ctx, names, time.Since(start), nil)
	return placements
}

// getCached reads a result from the cache, reporting the outcome to the
// cache hooks.
func (r *Runner) getCached(ctx context.Context, key, keyType string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

// setCached writes a result to the cache. Cache write failures are not
// surfaced: the computed result is still valid.
func (r *Runner) setCached(ctx context.Context, key, keyType string, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
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

func gridWidth(g *raster.Grid) int {
	if g == nil {
		return 0
	}
	return g.Width
}

func gridHeight(g *raster.Grid) int {
	if g == nil {
		return 0
	}
	return g.Height
}
