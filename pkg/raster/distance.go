package raster

import (
	"math"

	"github.com/cartolab/riverlabel/pkg/geom"
)

// farAway stands in for infinity in the squared-distance domain. A finite
// sentinel keeps the parabola intersection arithmetic free of Inf-Inf NaNs;
// real squared distances never exceed Width²+Height² which is far below it.
const farAway = 1e20

// Field is a Euclidean distance field over an occupancy grid: every interior
// cell holds the exact distance to the nearest non-interior cell, every
// non-interior cell holds 0. Same dimensions and origin as the source grid.
type Field struct {
	Width   int
	Height  int
	OriginX float64
	OriginY float64

	vals []float64 // row-major
}

// ComputeField computes the exact Euclidean distance transform of the grid
// using the two-pass separable lower-envelope algorithm (Felzenszwalb &
// Huttenlocher 2012). Chamfer or Manhattan approximations would skew the
// inscribed-circle radius the placement strategies depend on; this is exact.
// Runs in O(W·H). Pure function of the grid.
func ComputeField(g *Grid) *Field {
	w, h := g.Width, g.Height
	f := &Field{Width: w, Height: h, OriginX: g.OriginX, OriginY: g.OriginY}
	f.vals = make([]float64, w*h)

	// Seed with squared distances: 0 at non-interior cells, "infinite"
	// everywhere the transform still has to fill in.
	for i, interior := range g.cells {
		if interior {
			f.vals[i] = farAway
		}
	}

	n := w
	if h > n {
		n = h
	}
	scratch := newEnvelope(n)

	// Pass 1: columns.
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			scratch.f[y] = f.vals[y*w+x]
		}
		scratch.transform(h)
		for y := 0; y < h; y++ {
			f.vals[y*w+x] = scratch.d[y]
		}
	}

	// Pass 2: rows, then back to plain distances.
	for y := 0; y < h; y++ {
		copy(scratch.f[:w], f.vals[y*w:(y+1)*w])
		scratch.transform(w)
		for x := 0; x < w; x++ {
			f.vals[y*w+x] = math.Sqrt(scratch.d[x])
		}
	}

	return f
}

// envelope holds the scratch arrays for the 1D squared-distance transform.
type envelope struct {
	f []float64 // input row/column of squared distances
	d []float64 // output squared distances
	v []int     // parabola vertex positions
	z []float64 // envelope breakpoints
}

func newEnvelope(n int) *envelope {
	return &envelope{
		f: make([]float64, n),
		d: make([]float64, n),
		v: make([]int, n),
		z: make([]float64, n+1),
	}
}

// transform computes the 1D squared-distance transform of e.f[:n] into
// e.d[:n] by maintaining the lower envelope of the parabolas
// y = f[q] + (x-q)².
func (e *envelope) transform(n int) {
	k := 0
	e.v[0] = 0
	e.z[0] = -farAway
	e.z[1] = farAway

	intersect := func(p, q int) float64 {
		return ((e.f[q] + float64(q*q)) - (e.f[p] + float64(p*p))) / float64(2*q-2*p)
	}

	for q := 1; q < n; q++ {
		s := intersect(e.v[k], q)
		for s <= e.z[k] {
			k--
			s = intersect(e.v[k], q)
		}
		k++
		e.v[k] = q
		e.z[k] = s
		e.z[k+1] = farAway
	}

	k = 0
	for q := 0; q < n; q++ {
		for e.z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - e.v[k])
		e.d[q] = dq*dq + e.f[e.v[k]]
	}
}

// At returns the field value at cell (col, row); 0 outside the grid.
func (f *Field) At(col, row int) float64 {
	if col < 0 || col >= f.Width || row < 0 || row >= f.Height {
		return 0
	}
	return f.vals[row*f.Width+col]
}

// Sample returns the field value at the cell containing the world
// coordinate p, or 0 when p falls outside the grid. Points outside the
// interior region therefore read as distance 0.
func (f *Field) Sample(p geom.Point) float64 {
	col := int(math.Floor(p.X - f.OriginX))
	row := int(math.Floor(p.Y - f.OriginY))
	return f.At(col, row)
}

// Max returns the global maximum of the field and the cell achieving it.
// When several cells share the maximum, the one with the smallest row, then
// the smallest column wins: the row-major scan below only replaces the
// running best on a strictly greater value, so the first maximum in scan
// order sticks.
func (f *Field) Max() (val float64, col, row int) {
	for r := 0; r < f.Height; r++ {
		for c := 0; c < f.Width; c++ {
			if v := f.vals[r*f.Width+c]; v > val {
				val, col, row = v, c, r
			}
		}
	}
	return val, col, row
}

// CellCenter returns the world coordinates of the center of cell (col, row).
func (f *Field) CellCenter(col, row int) geom.Point {
	return geom.Point{
		X: f.OriginX + float64(col) + 0.5,
		Y: f.OriginY + float64(row) + 0.5,
	}
}

// Positive returns all strictly positive field values, i.e. one value per
// interior cell. The order follows the row-major scan.
func (f *Field) Positive() []float64 {
	out := make([]float64, 0, len(f.vals)/2)
	for _, v := range f.vals {
		if v > 0 {
			out = append(out, v)
		}
	}
	return out
}
