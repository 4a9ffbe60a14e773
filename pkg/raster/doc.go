// Package raster converts river polygons into occupancy grids and computes
// Euclidean distance fields over them.
//
// The grid resolution is fixed at one cell per unit of input coordinate
// space, with the origin at the polygon's bounding-box minimum corner minus
// a margin. A cell is interior when its center lies inside the polygon under
// the even-odd rule from pkg/geom. The distance field assigns every interior
// cell its exact Euclidean distance to the nearest non-interior cell using
// the two-pass separable algorithm of Felzenszwalb and Huttenlocher, so the
// whole computation is O(W·H).
//
// Grids and fields are created per computation and never shared or mutated
// afterwards; concurrent readers need no locking.
package raster
