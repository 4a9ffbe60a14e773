package label

import (
	"testing"

	"github.com/cartolab/riverlabel/pkg/geom"
)

func placement(strategy string, dist float64) Placement {
	return Placement{Strategy: strategy, Point: geom.Point{}, DistanceToEdge: dist}
}

func TestNewComparisonWinner(t *testing.T) {
	tests := []struct {
		name       string
		centroid   float64
		weighted   float64
		dt         float64
		wantWinner string
	}{
		{"distance transform strictly best", 5, 8, 12, StrategyDistanceTransform},
		{"weighted strictly best", 5, 12, 8, StrategyWeighted},
		{"centroid strictly best", 12, 5, 8, StrategyCentroid},
		{"three-way tie goes to distance transform", 7, 7, 7, StrategyDistanceTransform},
		{"weighted ties distance transform", 3, 9, 9, StrategyDistanceTransform},
		{"centroid ties weighted above distance transform", 9, 9, 3, StrategyWeighted},
		{"all zero", 0, 0, 0, StrategyDistanceTransform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComparison(
				placement(StrategyCentroid, tt.centroid),
				placement(StrategyWeighted, tt.weighted),
				placement(StrategyDistanceTransform, tt.dt),
			)
			if c.Winner != tt.wantWinner {
				t.Errorf("Winner = %q, want %q", c.Winner, tt.wantWinner)
			}
		})
	}
}

func TestNewComparisonImprovement(t *testing.T) {
	c := NewComparison(
		placement(StrategyCentroid, 4),
		placement(StrategyWeighted, 6),
		placement(StrategyDistanceTransform, 10),
	)
	if c.Improvement != 6 {
		t.Errorf("Improvement = %g, want 6", c.Improvement)
	}

	// A centroid outside the polygon samples 0, so the improvement equals
	// the primary strategy's full distance.
	c = NewComparison(
		placement(StrategyCentroid, 0),
		placement(StrategyWeighted, 3),
		placement(StrategyDistanceTransform, 5),
	)
	if c.Improvement != 5 {
		t.Errorf("Improvement = %g, want 5", c.Improvement)
	}
}

func TestByStrategy(t *testing.T) {
	c := NewComparison(
		placement(StrategyCentroid, 1),
		placement(StrategyWeighted, 2),
		placement(StrategyDistanceTransform, 3),
	)

	for _, name := range []string{StrategyCentroid, StrategyWeighted, StrategyDistanceTransform} {
		p, ok := c.ByStrategy(name)
		if !ok {
			t.Fatalf("ByStrategy(%q) not found", name)
		}
		if p.Strategy != name {
			t.Errorf("ByStrategy(%q).Strategy = %q", name, p.Strategy)
		}
	}

	if _, ok := c.ByStrategy("bogus"); ok {
		t.Error("ByStrategy should reject unknown identifiers")
	}
}
