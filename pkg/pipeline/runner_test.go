package pipeline

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/label"
)

func testRunner() *Runner {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewRunner(cache.NewMemoryCache(), nil, logger)
}

// lShapeCoords is an elbow whose centroid falls outside the interior.
func lShapeCoords() [][]float64 {
	return [][]float64{
		{0, 0}, {100, 0}, {100, 30}, {30, 30}, {30, 100}, {0, 100},
	}
}

func TestNewRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	if r.Cache == nil {
		t.Error("nil cache should default to NullCache")
	}
	if r.Keyer == nil {
		t.Error("nil keyer should default to DefaultKeyer")
	}
	if r.Logger == nil {
		t.Error("nil logger should default to the package logger")
	}
}

func TestPlaceSquare(t *testing.T) {
	r := testRunner()
	defer r.Close()

	result, err := r.Place(context.Background(), Options{
		Coordinates: squareCoords(),
		LabelText:   "RIVER",
		FontSize:    24,
	})
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}

	// The deepest point of a 100-unit square is its center, 50 from every edge.
	if result.DistanceToEdge < 49 || result.DistanceToEdge > 50.01 {
		t.Errorf("DistanceToEdge = %f, want ~50", result.DistanceToEdge)
	}
	if math.Abs(result.OptimalPoint.X-50) > 1 || math.Abs(result.OptimalPoint.Y-50) > 1 {
		t.Errorf("OptimalPoint = %+v, want near (50, 50)", result.OptimalPoint)
	}
	if result.MaxWidth != 2*result.DistanceToEdge {
		t.Errorf("MaxWidth = %f, want %f", result.MaxWidth, 2*result.DistanceToEdge)
	}

	// "RIVER" at 24pt has a half-diagonal under 38, so it fits with room.
	if !result.FitsInside {
		t.Error("label should fit in the square")
	}

	// Centroid and distance transform nearly coincide on a square.
	if math.Abs(result.Improvement) > 1.5 {
		t.Errorf("Improvement = %f, want ~0 for a square", result.Improvement)
	}

	if result.PolygonHash == "" {
		t.Error("PolygonHash should be set")
	}
	if result.Stats.GridWidth != 120 || result.Stats.GridHeight != 120 {
		t.Errorf("grid = %dx%d, want 120x120", result.Stats.GridWidth, result.Stats.GridHeight)
	}
	if result.Stats.InteriorCells == 0 {
		t.Error("InteriorCells should be positive")
	}
}

func TestPlaceThinRectangleDoesNotFit(t *testing.T) {
	r := testRunner()
	defer r.Close()

	result, err := r.Place(context.Background(), Options{
		Coordinates: [][]float64{{0, 0}, {200, 0}, {200, 20}, {0, 20}},
		LabelText:   "RIVER",
		FontSize:    24,
	})
	if err != nil {
		t.Fatalf("Place error: %v", err)
	}

	// Max interior distance is ~10 but the 24pt box needs over 40.
	if result.FitsInside {
		t.Error("24pt label should not fit in a 20-unit channel")
	}
	if result.DistanceToEdge > 10.01 {
		t.Errorf("DistanceToEdge = %f, want <= 10", result.DistanceToEdge)
	}
}

func TestPlaceInvalidPolygon(t *testing.T) {
	r := testRunner()
	defer r.Close()

	_, err := r.Place(context.Background(), Options{
		Coordinates: [][]float64{{0, 0}, {10, 10}},
		LabelText:   "RIVER",
	})
	if err == nil {
		t.Fatal("two vertices should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidCoordinates) {
		t.Errorf("code = %s, want INVALID_COORDINATES", errors.GetCode(err))
	}
}

func TestPlaceDegenerateGeometry(t *testing.T) {
	r := testRunner()
	defer r.Close()

	// Collinear vertices enclose no interior cells.
	_, err := r.Place(context.Background(), Options{
		Coordinates: [][]float64{{0, 0}, {50, 50}, {100, 100}},
		LabelText:   "RIVER",
	})
	if err == nil {
		t.Fatal("degenerate polygon should fail")
	}
	if !errors.IsGeometry(err) {
		t.Errorf("code = %s, want a geometry error", errors.GetCode(err))
	}
}

func TestCompareLShape(t *testing.T) {
	r := testRunner()
	defer r.Close()

	result, err := r.Compare(context.Background(), Options{
		Coordinates: lShapeCoords(),
		LabelText:   "RIVER",
		FontSize:    24,
	})
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	c := result.Comparison

	// The elbow's centroid lands outside the interior, so it scores zero.
	if c.Centroid.DistanceToEdge != 0 {
		t.Errorf("centroid distance = %f, want 0 outside the interior", c.Centroid.DistanceToEdge)
	}
	if c.Centroid.FitsInside {
		t.Error("centroid placement should not fit")
	}

	// The distance transform always finds an interior point.
	if c.DistanceTransform.DistanceToEdge <= 0 {
		t.Errorf("distance transform distance = %f, want > 0", c.DistanceTransform.DistanceToEdge)
	}
	if c.Winner != label.StrategyDistanceTransform {
		t.Errorf("winner = %s, want %s", c.Winner, label.StrategyDistanceTransform)
	}
	if c.Improvement <= 0 {
		t.Errorf("improvement = %f, want > 0 on an elbow", c.Improvement)
	}
}

func TestCompareSquareTieBreak(t *testing.T) {
	r := testRunner()
	defer r.Close()

	result, err := r.Compare(context.Background(), Options{
		Coordinates: squareCoords(),
		LabelText:   "RIVER",
		FontSize:    24,
	})
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	c := result.Comparison

	// All three strategies score within a cell of each other on a square;
	// exact ties resolve in favor of the distance transform, and it can
	// only be displaced by a strictly better score.
	for _, p := range c.Placements() {
		if p.DistanceToEdge < 48 {
			t.Errorf("%s distance = %f, want near 50", p.Strategy, p.DistanceToEdge)
		}
	}
	winner, ok := c.ByStrategy(c.Winner)
	if !ok {
		t.Fatalf("winner %q not found", c.Winner)
	}
	if winner.DistanceToEdge < c.DistanceTransform.DistanceToEdge {
		t.Error("winner should never score below the distance transform")
	}
}

func TestPlaceCacheRoundTrip(t *testing.T) {
	r := testRunner()
	defer r.Close()
	ctx := context.Background()

	opts := Options{
		Coordinates: squareCoords(),
		LabelText:   "RIVER",
		FontSize:    24,
	}

	first, err := r.Place(ctx, opts)
	if err != nil {
		t.Fatalf("first Place error: %v", err)
	}
	if first.CacheInfo.ResultHit {
		t.Error("first run should be a cache miss")
	}

	second, err := r.Place(ctx, opts)
	if err != nil {
		t.Fatalf("second Place error: %v", err)
	}
	if !second.CacheInfo.ResultHit {
		t.Error("second run should be a cache hit")
	}
	if second.OptimalPoint != first.OptimalPoint {
		t.Errorf("cached OptimalPoint = %+v, want %+v", second.OptimalPoint, first.OptimalPoint)
	}
	if second.DistanceToEdge != first.DistanceToEdge {
		t.Errorf("cached DistanceToEdge = %f, want %f", second.DistanceToEdge, first.DistanceToEdge)
	}

	// Refresh bypasses the cache read.
	refreshOpts := opts
	refreshOpts.Refresh = true
	third, err := r.Place(ctx, refreshOpts)
	if err != nil {
		t.Fatalf("refresh Place error: %v", err)
	}
	if third.CacheInfo.ResultHit {
		t.Error("refresh run should not read the cache")
	}
}

func TestCompareCacheDistinctFromPlace(t *testing.T) {
	r := testRunner()
	defer r.Close()
	ctx := context.Background()

	opts := Options{
		Coordinates: squareCoords(),
		LabelText:   "RIVER",
		FontSize:    24,
	}

	if _, err := r.Place(ctx, opts); err != nil {
		t.Fatalf("Place error: %v", err)
	}

	// A compare with identical inputs must not hit the place entry.
	result, err := r.Compare(ctx, opts)
	if err != nil {
		t.Fatalf("Compare error: %v", err)
	}
	if result.CacheInfo.ResultHit {
		t.Error("compare should not hit the place cache entry")
	}
}
