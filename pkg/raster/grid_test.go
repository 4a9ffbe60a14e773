package raster

import (
	"testing"

	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/geom"
)

func square(s float64) geom.Polygon {
	return geom.Polygon{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}
}

func TestRasterizeSquare(t *testing.T) {
	g, err := Rasterize(square(100), DefaultMargin)
	if err != nil {
		t.Fatalf("Rasterize() error = %v", err)
	}

	if g.Width != 120 || g.Height != 120 {
		t.Errorf("grid %dx%d, want 120x120", g.Width, g.Height)
	}
	if g.OriginX != -10 || g.OriginY != -10 {
		t.Errorf("origin (%g,%g), want (-10,-10)", g.OriginX, g.OriginY)
	}

	// Cell centers from 0.5 to 99.5 in both axes lie inside: 100x100 cells.
	if got := g.InteriorCount(); got != 100*100 {
		t.Errorf("InteriorCount = %d, want %d", got, 100*100)
	}

	// The margin ring must be exterior on all sides.
	for i := 0; i < g.Width; i++ {
		if g.Interior(i, 0) || g.Interior(i, g.Height-1) {
			t.Fatalf("border row cell %d should be exterior", i)
		}
	}
	for i := 0; i < g.Height; i++ {
		if g.Interior(0, i) || g.Interior(g.Width-1, i) {
			t.Fatalf("border column cell %d should be exterior", i)
		}
	}
}

func TestRasterizeCellCeiling(t *testing.T) {
	huge := geom.Polygon{{X: 0, Y: 0}, {X: 1e7, Y: 0}, {X: 1e7, Y: 1e7}}
	_, err := Rasterize(huge, DefaultMargin)
	if err == nil {
		t.Fatal("expected error for pathological bounding box")
	}
	if !errors.Is(err, errors.ErrCodeGridTooLarge) {
		t.Errorf("code = %v, want GRID_TOO_LARGE", errors.GetCode(err))
	}
}

func TestRasterizeEmptyInterior(t *testing.T) {
	// Distinct but collinear vertices enclose no area.
	flat := geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 20, Y: 0}}
	_, err := Rasterize(flat, DefaultMargin)
	if err == nil {
		t.Fatal("expected error for zero-area polygon")
	}
	if !errors.Is(err, errors.ErrCodeEmptyInterior) {
		t.Errorf("code = %v, want EMPTY_INTERIOR", errors.GetCode(err))
	}
}

func TestRasterizeTooFewVertices(t *testing.T) {
	_, err := Rasterize(geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 10}}, DefaultMargin)
	if err == nil {
		t.Fatal("expected error for 2-vertex input")
	}
	if !errors.Is(err, errors.ErrCodeInvalidCoordinates) {
		t.Errorf("code = %v, want INVALID_COORDINATES", errors.GetCode(err))
	}
}

func TestRasterizeRejectsTinyMargin(t *testing.T) {
	if _, err := Rasterize(square(10), 0); err == nil {
		t.Fatal("margin below 1 should be rejected")
	}
}

func TestLocate(t *testing.T) {
	g, err := Rasterize(square(100), DefaultMargin)
	if err != nil {
		t.Fatal(err)
	}

	col, row, ok := g.Locate(geom.Point{X: 50, Y: 50})
	if !ok {
		t.Fatal("center of the square should be on the grid")
	}
	if got := g.CellCenter(col, row); got.Distance(geom.Point{X: 50, Y: 50}) > 1 {
		t.Errorf("CellCenter(%d,%d) = %v, too far from (50,50)", col, row, got)
	}

	if _, _, ok := g.Locate(geom.Point{X: 500, Y: 500}); ok {
		t.Error("point far outside the grid should not locate")
	}
}

func TestInteriorOutOfRange(t *testing.T) {
	g, err := Rasterize(square(10), DefaultMargin)
	if err != nil {
		t.Fatal(err)
	}
	if g.Interior(-1, 0) || g.Interior(0, -1) || g.Interior(g.Width, 0) || g.Interior(0, g.Height) {
		t.Error("out-of-range cells must read as exterior")
	}
}
