package label

import (
	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/raster"
)

// Evaluate samples the distance field at a candidate point and decides
// whether the label box fits there.
//
// The sampled value is the distance from the candidate's grid cell to the
// nearest non-interior cell; candidates outside the interior region (or off
// the grid entirely) read as 0. The box fits when a circle of radius
// half-diagonal + padding is inscribed at the point, a conservative
// stand-in for the exact rectangle test (see the package comment).
func Evaluate(p geom.Point, f *raster.Field, box Box) (distanceToEdge float64, fits bool) {
	distanceToEdge = f.Sample(p)
	fits = distanceToEdge >= box.HalfDiagonal()+box.Padding
	return distanceToEdge, fits
}
