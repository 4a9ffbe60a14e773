package cli

import "sort"

// Sample river outlines for the demo and for quick experiments. Coordinates
// are in arbitrary map units, small enough to rasterize instantly.
var samples = map[string]struct {
	description string
	coords      [][]float64
}{
	"straight": {
		description: "A straight channel with slightly uneven banks",
		coords: [][]float64{
			{0, 0}, {60, 2}, {120, 0}, {180, 3}, {240, 1}, {300, 2},
			{300, 38}, {240, 41}, {180, 39}, {120, 42}, {60, 40}, {0, 41},
		},
	},
	"meander": {
		description: "An S-shaped meander bend",
		coords: [][]float64{
			{0, 60}, {40, 80}, {80, 90}, {120, 85}, {160, 65}, {200, 45},
			{240, 40}, {280, 50}, {320, 70}, {320, 110}, {280, 95},
			{240, 80}, {200, 85}, {160, 105}, {120, 125}, {80, 130},
			{40, 120}, {0, 100},
		},
	},
	"elbow": {
		description: "A right-angle bend where the centroid falls outside",
		coords: [][]float64{
			{0, 0}, {200, 0}, {200, 60}, {60, 60}, {60, 200}, {0, 200},
		},
	},
	"basin": {
		description: "A wide basin opening from a narrow inlet",
		coords: [][]float64{
			{0, 80}, {60, 75}, {100, 70}, {130, 40}, {180, 20}, {240, 25},
			{280, 60}, {290, 110}, {260, 155}, {200, 175}, {145, 160},
			{115, 125}, {95, 105}, {60, 100}, {0, 95},
		},
	},
}

// sampleShape returns the coordinates for a named sample.
func sampleShape(name string) ([][]float64, bool) {
	s, ok := samples[name]
	if !ok {
		return nil, false
	}
	return s.coords, true
}

// sampleNames returns the sample names in sorted order.
func sampleNames() []string {
	names := make([]string, 0, len(samples))
	for name := range samples {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
