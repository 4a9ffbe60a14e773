package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	riverio "github.com/cartolab/riverlabel/pkg/io"
)

// readPolygon resolves a polygon argument into coordinate pairs. The
// argument is tried in order as:
//
//   - a sample shape name prefixed with "sample:" (see samples.go)
//   - inline JSON (the argument starts with "[" or "{")
//   - a path to a JSON or GeoJSON file
//
// Plain JSON accepts both wire forms, [[x, y], ...] and
// [{"x": x, "y": y}, ...]. Documents starting with "{" are parsed as
// GeoJSON (geometry, Feature, or FeatureCollection).
func readPolygon(arg string) ([][]float64, error) {
	if name, ok := strings.CutPrefix(arg, "sample:"); ok {
		coords, ok := sampleShape(name)
		if !ok {
			return nil, fmt.Errorf("unknown sample shape %q (available: %s)", name, strings.Join(sampleNames(), ", "))
		}
		return coords, nil
	}

	if trimmed := strings.TrimSpace(arg); strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		return parsePolygonJSON([]byte(arg))
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("read polygon file %s: %w", arg, err)
	}
	coords, err := parsePolygonJSON(data)
	if err != nil {
		return nil, fmt.Errorf("parse polygon file %s: %w", arg, err)
	}
	return coords, nil
}

// parsePolygonJSON decodes either plain coordinate form, or GeoJSON when
// the document is an object.
func parsePolygonJSON(data []byte) ([][]float64, error) {
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "{") {
		poly, err := riverio.ReadPolygon(strings.NewReader(trimmed))
		if err != nil {
			return nil, err
		}
		return poly.Pairs(), nil
	}

	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err == nil {
		return pairs, nil
	}

	var points []struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("coordinates must be [x, y] pairs or {x, y} objects")
	}
	pairs = make([][]float64, len(points))
	for i, p := range points {
		pairs[i] = []float64{p.X, p.Y}
	}
	return pairs, nil
}
