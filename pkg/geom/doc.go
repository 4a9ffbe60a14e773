// Package geom provides the vector geometry types for river outlines.
//
// A river outline is a single implicitly-closed ring of 2D points. The
// package owns the one point-in-polygon rule used everywhere downstream
// (even-odd ray casting), the shoelace area/centroid formulas, and input
// validation. Self-intersecting rings are tolerated but their interior
// follows the even-odd parity rule and may not match intuition; holes are
// not supported.
package geom
