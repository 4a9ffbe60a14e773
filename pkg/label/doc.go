// Package label contains the placement core: the three candidate-point
// strategies, the label box model, and the fit test that scores a candidate
// against the distance field.
//
// The strategies form a closed set behind the Strategy interface so the
// comparison pipeline stays strategy-agnostic:
//
//   - Centroid: the polygon's area-weighted centroid. The naive baseline;
//     can land outside a non-convex outline, in which case its sampled
//     distance-to-edge is 0.
//   - WeightedCentroid: the average position of interior cells whose
//     distance-field value exceeds the median, i.e. the center of mass of
//     the "deep" interior.
//   - DistanceTransform: the global maximum of the distance field — the
//     center of the largest circle that fits entirely inside the polygon.
//     This is the primary strategy.
//
// Fit testing is a conservative circle-inscribed approximation: a label
// fits when its half-diagonal plus padding is covered by the sampled
// distance-to-edge. A label that passes is guaranteed to fit; a label that
// fails might still fit rotated or off-center. This simplification is
// deliberate, not a bug — an exact rectangle-in-polygon predicate is a much
// harder problem and out of scope.
package label
