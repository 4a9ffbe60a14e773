// Package io reads and writes polygon outlines in GeoJSON form.
//
// River outlines typically arrive as GeoJSON exported from a GIS tool. This
// package decodes the exterior ring of the first Polygon geometry it finds
// and encodes placement points back out as Feature objects, so results can
// round-trip into the same tooling.
package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cartolab/riverlabel/pkg/geom"
)

// GeoJSON geometry and feature wrappers. Only the subset needed for
// polygon outlines and point results is modeled.
type geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []geometry      `json:"geometries,omitempty"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties,omitempty"`
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

// ReadPolygon decodes the exterior ring of the first Polygon in a GeoJSON
// document. The document may be a bare geometry, a Feature, or a
// FeatureCollection. MultiPolygon contributes its first polygon.
//
// Interior rings (holes) are not supported and are silently dropped; the
// placement pipeline treats the outline as a simple polygon.
func ReadPolygon(r io.Reader) (geom.Polygon, error) {
	var doc struct {
		Type string `json:"type"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var g *geometry
	switch doc.Type {
	case "FeatureCollection":
		var fc featureCollection
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			if f.Geometry != nil && isPolygonal(f.Geometry.Type) {
				g = f.Geometry
				break
			}
		}
		if g == nil {
			return nil, fmt.Errorf("feature collection contains no polygon")
		}
	case "Feature":
		var f feature
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		if f.Geometry == nil {
			return nil, fmt.Errorf("feature has no geometry")
		}
		g = f.Geometry
	default:
		var raw geometry
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		g = &raw
	}

	return polygonFromGeometry(g)
}

// ImportPolygon reads a GeoJSON file at path and returns the decoded polygon.
func ImportPolygon(path string) (geom.Polygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	poly, err := ReadPolygon(f)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return poly, nil
}

func isPolygonal(t string) bool {
	return t == "Polygon" || t == "MultiPolygon"
}

// polygonFromGeometry extracts the exterior ring. GeoJSON rings repeat the
// first vertex as the last; the duplicate is dropped before validation.
func polygonFromGeometry(g *geometry) (geom.Polygon, error) {
	var ring [][]float64

	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		if len(rings) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		ring = rings[0]
	case "MultiPolygon":
		var polys [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &polys); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		if len(polys) == 0 || len(polys[0]) == 0 {
			return nil, fmt.Errorf("multipolygon has no rings")
		}
		ring = polys[0][0]
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}

	if len(ring) > 1 {
		first, last := ring[0], ring[len(ring)-1]
		if len(first) >= 2 && len(last) >= 2 && first[0] == last[0] && first[1] == last[1] {
			ring = ring[:len(ring)-1]
		}
	}

	return geom.FromPairs(ring)
}

// WritePoint encodes a placement point as a GeoJSON Point feature. The
// properties map carries placement attributes such as strategy and distance.
func WritePoint(w io.Writer, p geom.Point, properties map[string]any) error {
	coords, err := json.Marshal([]float64{p.X, p.Y})
	if err != nil {
		return fmt.Errorf("encode coordinates: %w", err)
	}
	f := feature{
		Type:       "Feature",
		Geometry:   &geometry{Type: "Point", Coordinates: coords},
		Properties: properties,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode feature: %w", err)
	}
	return nil
}

// ExportPoint writes a placement point to a GeoJSON file at path.
func ExportPoint(path string, p geom.Point, properties map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WritePoint(f, p, properties); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}
