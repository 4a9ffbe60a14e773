package label

import "github.com/cartolab/riverlabel/pkg/geom"

// Placement is one strategy's scored candidate: the proposed point, the
// sampled distance-to-edge there, and whether the label box fits.
// Immutable once built.
type Placement struct {
	Strategy       string     `json:"strategy" bson:"strategy"`
	Point          geom.Point `json:"point" bson:"point"`
	DistanceToEdge float64    `json:"distance_to_edge" bson:"distance_to_edge"`
	FitsInside     bool       `json:"fits_inside" bson:"fits_inside"`
}

// Comparison aggregates the three placements, the winner tag, and the
// improvement of the primary strategy over the naive baseline.
type Comparison struct {
	Centroid          Placement `json:"centroid" bson:"centroid"`
	Weighted          Placement `json:"weighted" bson:"weighted"`
	DistanceTransform Placement `json:"distance_transform" bson:"distance_transform"`

	// Winner is the strategy identifier with the maximum distance-to-edge.
	// Exact ties resolve by priority: distance_transform > weighted >
	// centroid.
	Winner string `json:"winner" bson:"winner"`

	// Improvement is DistanceTransform's distance-to-edge minus Centroid's.
	Improvement float64 `json:"improvement" bson:"improvement"`
}

// NewComparison assembles a Comparison from the three placements and
// derives Winner and Improvement.
func NewComparison(centroid, weighted, distanceTransform Placement) Comparison {
	c := Comparison{
		Centroid:          centroid,
		Weighted:          weighted,
		DistanceTransform: distanceTransform,
	}

	// Starting from the highest-priority strategy and only replacing on a
	// strictly greater score makes the documented tie-break fall out of the
	// comparison order.
	best := c.DistanceTransform
	if c.Weighted.DistanceToEdge > best.DistanceToEdge {
		best = c.Weighted
	}
	if c.Centroid.DistanceToEdge > best.DistanceToEdge {
		best = c.Centroid
	}
	c.Winner = best.Strategy

	c.Improvement = c.DistanceTransform.DistanceToEdge - c.Centroid.DistanceToEdge
	return c
}

// ByStrategy returns the placement for a strategy identifier.
func (c *Comparison) ByStrategy(strategy string) (Placement, bool) {
	switch strategy {
	case StrategyCentroid:
		return c.Centroid, true
	case StrategyWeighted:
		return c.Weighted, true
	case StrategyDistanceTransform:
		return c.DistanceTransform, true
	}
	return Placement{}, false
}

// Placements returns the three placements in presentation order.
func (c *Comparison) Placements() []Placement {
	return []Placement{c.Centroid, c.DistanceTransform, c.Weighted}
}
