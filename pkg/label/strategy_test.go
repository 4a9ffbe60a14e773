package label

import (
	"math"
	"testing"

	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/raster"
)

// rasterized is a test helper running the rasterize → field half of the
// pipeline.
func rasterized(t *testing.T, poly geom.Polygon) (*raster.Grid, *raster.Field) {
	t.Helper()
	g, err := raster.Rasterize(poly, raster.DefaultMargin)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}
	return g, raster.ComputeField(g)
}

func centeredSquare(side float64) geom.Polygon {
	h := side / 2
	return geom.Polygon{{X: -h, Y: -h}, {X: h, Y: -h}, {X: h, Y: h}, {X: -h, Y: h}}
}

// lShape is an elbow whose centroid falls outside the polygon: two long
// thin arms meeting at a corner.
func lShape() geom.Polygon {
	return geom.Polygon{
		{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 12},
		{X: 12, Y: 12}, {X: 12, Y: 100}, {X: 0, Y: 100},
	}
}

func TestAllClosedSet(t *testing.T) {
	names := map[string]bool{}
	for _, s := range All() {
		names[s.Name()] = true
	}
	for _, want := range []string{StrategyCentroid, StrategyWeighted, StrategyDistanceTransform} {
		if !names[want] {
			t.Errorf("All() missing strategy %q", want)
		}
	}
	if len(names) != 3 {
		t.Errorf("All() has %d strategies, want 3", len(names))
	}
}

// Scenario: a square of side 100 centered at the origin. Both the centroid
// and the distance-transform optimum are the center, and the maximum
// distance-to-edge is half the side.
func TestSquareScenario(t *testing.T) {
	poly := centeredSquare(100)
	g, f := rasterized(t, poly)

	ct := Centroid{}.Propose(poly, g, f)
	if ct.Distance(geom.Point{}) > 1e-9 {
		t.Errorf("centroid = %v, want origin", ct)
	}

	dt := DistanceTransform{}.Propose(poly, g, f)
	if dt.Distance(geom.Point{}) > 1 {
		t.Errorf("distance-transform point = %v, want within one cell of origin", dt)
	}

	max, _, _ := f.Max()
	if math.Abs(max-50) > 1 {
		t.Errorf("max distance = %g, want ≈50", max)
	}

	// The two methods converge, so the improvement is ≈0.
	dtDist := f.Sample(dt)
	ctDist := f.Sample(ct)
	if math.Abs(dtDist-ctDist) > 1 {
		t.Errorf("improvement = %g, want ≈0", dtDist-ctDist)
	}
}

// Scenario: a 200x20 thin rectangle. Both methods converge near the long
// axis with distance-to-edge ≈10.
func TestThinRectangleScenario(t *testing.T) {
	poly := geom.Polygon{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 20}, {X: 0, Y: 20}}
	g, f := rasterized(t, poly)

	dt := DistanceTransform{}.Propose(poly, g, f)
	ct := Centroid{}.Propose(poly, g, f)

	dtDist := f.Sample(dt)
	ctDist := f.Sample(ct)

	if math.Abs(dtDist-10) > 1 {
		t.Errorf("distance-transform dist = %g, want ≈10", dtDist)
	}
	if math.Abs(ctDist-10) > 1 {
		t.Errorf("centroid dist = %g, want ≈10", ctDist)
	}
	if math.Abs(dtDist-ctDist) > 1 {
		t.Errorf("improvement = %g, want ≈0", dtDist-ctDist)
	}
}

// Scenario: an elbow polygon whose centroid lands in the notch, outside the
// interior. Its sampled distance must read 0 while the distance transform
// finds a strictly positive spot.
func TestElbowScenario(t *testing.T) {
	poly := lShape()
	g, f := rasterized(t, poly)

	ct := Centroid{}.Propose(poly, g, f)
	if poly.Contains(ct) {
		t.Fatalf("test premise broken: centroid %v should fall outside the elbow", ct)
	}
	if d := f.Sample(ct); d != 0 {
		t.Errorf("centroid distance = %g, want 0 for an outside point", d)
	}

	dt := DistanceTransform{}.Propose(poly, g, f)
	if d := f.Sample(dt); d <= 0 {
		t.Errorf("distance-transform distance = %g, want > 0", d)
	}
	if !poly.Contains(dt) {
		t.Errorf("distance-transform point %v should be inside the polygon", dt)
	}
}

func TestWeightedCentroidStaysInterior(t *testing.T) {
	poly := lShape()
	g, f := rasterized(t, poly)

	wc := WeightedCentroid{}.Propose(poly, g, f)
	if d := f.Sample(wc); d <= 0 {
		t.Errorf("weighted centroid %v sampled %g, want a positive-depth cell", wc, d)
	}
}

// For convex polygons the inscribed-circle point can never be worse than
// the centroid.
func TestConvexDistanceTransformAtLeastCentroid(t *testing.T) {
	polys := []geom.Polygon{
		centeredSquare(60),
		{{X: 0, Y: 0}, {X: 80, Y: 0}, {X: 100, Y: 40}, {X: 50, Y: 70}, {X: -10, Y: 40}},
		{{X: 0, Y: 0}, {X: 200, Y: 0}, {X: 200, Y: 20}, {X: 0, Y: 20}},
	}

	for i, poly := range polys {
		g, f := rasterized(t, poly)
		dt := f.Sample(DistanceTransform{}.Propose(poly, g, f))
		ct := f.Sample(Centroid{}.Propose(poly, g, f))
		if dt < ct {
			t.Errorf("polygon %d: distance transform %g < centroid %g", i, dt, ct)
		}
	}
}

func TestDisplayNameAndMethodSummary(t *testing.T) {
	for _, s := range All() {
		if DisplayName(s.Name()) == "" {
			t.Errorf("DisplayName(%q) empty", s.Name())
		}
		if MethodSummary(s.Name()) == "" {
			t.Errorf("MethodSummary(%q) empty", s.Name())
		}
	}
	if DisplayName("bogus") != "bogus" {
		t.Error("unknown strategies should echo their identifier")
	}
}
