package raster

import (
	"math"

	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/geom"
)

const (
	// DefaultMargin is the number of empty units added around the polygon's
	// bounding box on every side. A positive margin guarantees a ring of
	// exterior cells, which the distance transform relies on.
	DefaultMargin = 10.0

	// MaxCells bounds the grid size. Rasterization of a bounding box that
	// would exceed this ceiling is rejected before any allocation, so
	// pathological coordinate magnitudes fail cheaply instead of exhausting
	// memory mid-computation.
	MaxCells = 1 << 22
)

// Grid is a boolean occupancy grid produced by rasterizing a polygon.
// Cell (col, row) covers the unit square starting at
// (OriginX + col, OriginY + row); its center sits half a unit further.
type Grid struct {
	Width   int
	Height  int
	OriginX float64
	OriginY float64

	cells []bool // row-major, true = interior
}

// Rasterize converts a polygon into an occupancy grid. The grid covers the
// polygon's bounding box expanded by margin units on each side. It returns a
// GRID_TOO_LARGE error when the cell count would exceed MaxCells and an
// EMPTY_INTERIOR error when no cell center falls inside the polygon.
func Rasterize(poly geom.Polygon, margin float64) (*Grid, error) {
	if err := poly.Validate(); err != nil {
		return nil, err
	}
	if margin < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"margin must be at least 1 unit, got %g", margin)
	}

	b := poly.Bounds().Expand(margin)

	// Size check in floating point first: converting a pathological extent
	// to int could overflow before the ceiling comparison.
	fw := math.Ceil(b.Width())
	fh := math.Ceil(b.Height())
	if fw*fh > MaxCells {
		return nil, errors.New(errors.ErrCodeGridTooLarge,
			"bounding box %.0fx%.0f would need %.0f cells (ceiling %d)", fw, fh, fw*fh, MaxCells)
	}

	g := &Grid{
		Width:   int(fw),
		Height:  int(fh),
		OriginX: b.MinX,
		OriginY: b.MinY,
	}
	g.cells = make([]bool, g.Width*g.Height)

	interior := 0
	for row := 0; row < g.Height; row++ {
		for col := 0; col < g.Width; col++ {
			if poly.Contains(g.CellCenter(col, row)) {
				g.cells[row*g.Width+col] = true
				interior++
			}
		}
	}

	if interior == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInterior,
			"polygon encloses no area at grid resolution")
	}

	return g, nil
}

// Interior reports whether cell (col, row) is inside the polygon.
// Out-of-range cells are exterior.
func (g *Grid) Interior(col, row int) bool {
	if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
		return false
	}
	return g.cells[row*g.Width+col]
}

// InteriorCount returns the number of interior cells.
func (g *Grid) InteriorCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// CellCenter returns the world coordinates of the center of cell (col, row).
func (g *Grid) CellCenter(col, row int) geom.Point {
	return geom.Point{
		X: g.OriginX + float64(col) + 0.5,
		Y: g.OriginY + float64(row) + 0.5,
	}
}

// Locate maps a world coordinate to the cell containing it.
// ok is false when the point lies outside the grid.
func (g *Grid) Locate(p geom.Point) (col, row int, ok bool) {
	col = int(math.Floor(p.X - g.OriginX))
	row = int(math.Floor(p.Y - g.OriginY))
	if col < 0 || col >= g.Width || row < 0 || row >= g.Height {
		return 0, 0, false
	}
	return col, row, true
}
