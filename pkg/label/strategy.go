package label

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/raster"
)

// Strategy identifiers, used as JSON values and winner tags.
const (
	StrategyCentroid          = "centroid"
	StrategyWeighted          = "weighted"
	StrategyDistanceTransform = "distance_transform"
)

// Strategy proposes one candidate placement point from a polygon and its
// rasterization. Implementations only read their inputs, so the strategies
// of one comparison may run concurrently over the shared grid and field.
type Strategy interface {
	// Name returns the strategy identifier.
	Name() string

	// Propose returns the candidate point in world coordinates.
	Propose(poly geom.Polygon, g *raster.Grid, f *raster.Field) geom.Point
}

// All returns the closed set of strategies in presentation order.
func All() []Strategy {
	return []Strategy{Centroid{}, WeightedCentroid{}, DistanceTransform{}}
}

// Centroid proposes the polygon's area-weighted centroid. O(n) in the
// vertex count; ignores the grid and field entirely.
type Centroid struct{}

// Name implements Strategy.
func (Centroid) Name() string { return StrategyCentroid }

// Propose implements Strategy.
func (Centroid) Propose(poly geom.Polygon, _ *raster.Grid, _ *raster.Field) geom.Point {
	return poly.Centroid()
}

// WeightedCentroid averages the centers of all interior cells whose
// distance-field value exceeds the median of the nonzero values, which by
// construction lands in a densely-interior region. O(W·H).
type WeightedCentroid struct{}

// Name implements Strategy.
func (WeightedCentroid) Name() string { return StrategyWeighted }

// Propose implements Strategy.
func (WeightedCentroid) Propose(poly geom.Polygon, _ *raster.Grid, f *raster.Field) geom.Point {
	threshold := medianPositive(f)

	var sx, sy float64
	n := 0
	for row := 0; row < f.Height; row++ {
		for col := 0; col < f.Width; col++ {
			if f.At(col, row) > threshold {
				c := f.CellCenter(col, row)
				sx += c.X
				sy += c.Y
				n++
			}
		}
	}

	// All interior values equal (e.g. a one-cell-wide sliver): nothing
	// exceeds the median strictly, fall back to the centroid.
	if n == 0 {
		return poly.Centroid()
	}
	return geom.Point{X: sx / float64(n), Y: sy / float64(n)}
}

// medianPositive computes the 50th percentile of the nonzero field values
// using the empirical (nearest-rank) quantile, so the threshold is always
// one of the observed values and reproducible across implementations.
func medianPositive(f *raster.Field) float64 {
	vals := f.Positive()
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	return stat.Quantile(0.5, stat.Empirical, vals, nil)
}

// DistanceTransform proposes the center of the cell achieving the global
// maximum of the distance field: the center of the largest inscribed
// circle. Ties resolve to the smallest (row, column) in scan order. O(W·H).
type DistanceTransform struct{}

// Name implements Strategy.
func (DistanceTransform) Name() string { return StrategyDistanceTransform }

// Propose implements Strategy.
func (DistanceTransform) Propose(_ geom.Polygon, _ *raster.Grid, f *raster.Field) geom.Point {
	_, col, row := f.Max()
	return f.CellCenter(col, row)
}

// DisplayName returns the human-readable name for a strategy identifier,
// matching what the comparison endpoint reports.
func DisplayName(strategy string) string {
	switch strategy {
	case StrategyCentroid:
		return "Centroid (Naive)"
	case StrategyWeighted:
		return "Weighted Centroid"
	case StrategyDistanceTransform:
		return "Distance Transform"
	}
	return strategy
}

// MethodSummary returns a one-line description of how a strategy picks its
// point.
func MethodSummary(strategy string) string {
	switch strategy {
	case StrategyCentroid:
		return "Geometric center only"
	case StrategyWeighted:
		return "Average of safe interior points"
	case StrategyDistanceTransform:
		return "Maximum distance from all edges"
	}
	return ""
}
