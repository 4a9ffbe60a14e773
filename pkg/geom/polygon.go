package geom

import (
	"math"

	"github.com/cartolab/riverlabel/pkg/errors"
)

// Polygon is an ordered ring of vertices, implicitly closed (the last vertex
// connects back to the first). The vertex order may be clockwise or
// counter-clockwise; all derived quantities are orientation-independent.
type Polygon []Point

// FromPairs builds a Polygon from raw [x, y] coordinate pairs, validating
// shape and finiteness along the way. This is the single entry point for
// untrusted coordinate input (API bodies, CLI files).
func FromPairs(pairs [][]float64) (Polygon, error) {
	if len(pairs) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates,
			"need at least 3 points to form a river polygon, got %d", len(pairs))
	}

	poly := make(Polygon, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, errors.New(errors.ErrCodeInvalidCoordinates,
				"point %d must be an [x, y] pair, got %d values", i, len(pair))
		}
		poly[i] = Point{X: pair[0], Y: pair[1]}
	}

	if err := poly.Validate(); err != nil {
		return nil, err
	}
	return poly, nil
}

// Validate checks that the polygon has at least 3 distinct vertices and that
// every coordinate is finite.
func (p Polygon) Validate() error {
	if len(p) < 3 {
		return errors.New(errors.ErrCodeInvalidCoordinates,
			"need at least 3 points to form a river polygon, got %d", len(p))
	}

	for i, pt := range p {
		if !pt.IsFinite() {
			return errors.New(errors.ErrCodeInvalidCoordinates,
				"point %d has non-finite coordinates", i)
		}
	}

	distinct := make(map[Point]struct{}, len(p))
	for _, pt := range p {
		distinct[pt] = struct{}{}
	}
	if len(distinct) < 3 {
		return errors.New(errors.ErrCodeInvalidCoordinates,
			"need at least 3 distinct points, got %d", len(distinct))
	}

	return nil
}

// Bounds computes the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() Rect {
	if len(p) == 0 {
		return Rect{}
	}
	r := Rect{MinX: p[0].X, MinY: p[0].Y, MaxX: p[0].X, MaxY: p[0].Y}
	for _, pt := range p[1:] {
		r.MinX = math.Min(r.MinX, pt.X)
		r.MinY = math.Min(r.MinY, pt.Y)
		r.MaxX = math.Max(r.MaxX, pt.X)
		r.MaxY = math.Max(r.MaxY, pt.Y)
	}
	return r
}

// SignedArea computes the signed area via the shoelace formula.
// Positive for counter-clockwise vertex order, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	var sum float64
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return sum / 2
}

// Centroid computes the area-weighted centroid via the shoelace formula.
// Unlike a plain vertex average this is unbiased by vertex-dense stretches
// of the outline. For near-zero-area polygons where the formula degenerates
// it falls back to the vertex mean. The centroid of a non-convex polygon can
// fall outside the polygon.
func (p Polygon) Centroid() Point {
	area := p.SignedArea()
	if math.Abs(area) < 1e-12 {
		return p.vertexMean()
	}

	var cx, cy float64
	n := len(p)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p[i].X*p[j].Y - p[j].X*p[i].Y
		cx += (p[i].X + p[j].X) * cross
		cy += (p[i].Y + p[j].Y) * cross
	}
	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

// vertexMean averages the vertex coordinates.
func (p Polygon) vertexMean() Point {
	var sx, sy float64
	for _, pt := range p {
		sx += pt.X
		sy += pt.Y
	}
	n := float64(len(p))
	return Point{X: sx / n, Y: sy / n}
}

// Contains tests whether a point is inside the polygon using even-odd ray
// casting (the PNPoly crossing-number rule). Points exactly on an edge or
// vertex may report either side. Every caller in this module that needs an
// interior test goes through this one rule.
func (p Polygon) Contains(pt Point) bool {
	if len(p) < 3 {
		return false
	}

	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p[i], p[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// Pairs returns the polygon as raw [x, y] pairs, the inverse of FromPairs.
func (p Polygon) Pairs() [][]float64 {
	out := make([][]float64, len(p))
	for i, pt := range p {
		out[i] = []float64{pt.X, pt.Y}
	}
	return out
}
