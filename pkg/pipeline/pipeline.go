// Package pipeline provides the core placement pipeline for riverlabel.
//
// This package implements the complete validate → rasterize → field → place
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of strictly ordered stages:
//
//  1. Validate: Check the polygon, label text, font size, and margin
//  2. Rasterize: Build the boolean occupancy grid for the polygon interior
//  3. Field: Compute the exact Euclidean distance field over the grid
//  4. Place: Run the placement strategies and score each candidate
//
// A run either completes every stage or fails with a structured error; no
// partial results are returned. The rasterize and field stages are shared
// between Place and Compare, which differ only in which strategies they
// score and how the result is shaped.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Coordinates: [][]float64{{0, 0}, {100, 0}, {100, 50}, {0, 50}},
//	    LabelText:   "RIVER",
//	    FontSize:    24,
//	}
//	result, err := runner.Compare(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Comparison.Winner)
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cartolab/riverlabel/pkg/cache"
	"github.com/cartolab/riverlabel/pkg/errors"
	"github.com/cartolab/riverlabel/pkg/geom"
	"github.com/cartolab/riverlabel/pkg/label"
	"github.com/cartolab/riverlabel/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLabelText is the label used when a request leaves the text
	// blank. Applied by the transport edges (CLI flags, HTTP handlers), not
	// by validation: the pipeline itself rejects empty text.
	DefaultLabelText = "RIVER"

	// DefaultFontSize is the font size in points when none is given.
	DefaultFontSize = 24

	// DefaultMargin is the exterior margin around the polygon's bounding
	// box, in coordinate units. Matches raster.DefaultMargin.
	DefaultMargin = raster.DefaultMargin
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a placement run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Coordinates is the polygon outline as [x, y] pairs. The first and
	// last vertex need not repeat; the ring is implicitly closed.
	Coordinates [][]float64 `json:"coordinates"`

	// LabelText is the text to place. Must be non-empty after trimming.
	LabelText string `json:"label_text"`

	// FontSize is the label font size in points. Zero means DefaultFontSize.
	FontSize int `json:"font_size,omitempty"`

	// Margin is the grid margin in coordinate units. Zero means DefaultMargin.
	Margin float64 `json:"margin,omitempty"`

	// Refresh bypasses the cache read (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Margin == 0 {
		o.Margin = DefaultMargin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if len(o.Coordinates) == 0 {
		return errors.New(errors.ErrCodeInvalidCoordinates, "coordinates are required")
	}
	if err := errors.ValidateLabelText(o.LabelText); err != nil {
		return err
	}
	if err := errors.ValidateFontSize(o.FontSize); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// Polygon parses and validates the coordinate pairs.
func (o *Options) Polygon() (geom.Polygon, error) {
	return geom.FromPairs(o.Coordinates)
}

// Box builds the label box for the configured text and font size.
func (o *Options) Box() label.Box {
	return label.NewBox(o.LabelText, o.FontSize)
}

// PolygonHash returns the content hash identifying the polygon for cache
// keys and run records.
func (o *Options) PolygonHash() string {
	data, err := json.Marshal(o.Coordinates)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// =============================================================================
// Results
// =============================================================================

// PlaceResult is the output of Runner.Place: the optimal placement with
// its naive baseline.
type PlaceResult struct {
	// OptimalPoint is the distance-transform placement.
	OptimalPoint geom.Point `json:"optimal_point" bson:"optimal_point"`

	// NaivePoint is the centroid baseline placement.
	NaivePoint geom.Point `json:"naive_point" bson:"naive_point"`

	// DistanceToEdge is the distance field value at the optimal point.
	DistanceToEdge float64 `json:"distance_to_edge" bson:"distance_to_edge"`

	// MaxWidth is the widest label that could fit at the optimal point,
	// twice the distance to the nearest edge.
	MaxWidth float64 `json:"max_width" bson:"max_width"`

	// FitsInside reports whether the requested label box fits at the
	// optimal point.
	FitsInside bool `json:"fits_inside" bson:"fits_inside"`

	// Improvement is the optimal point's distance-to-edge minus the naive
	// point's.
	Improvement float64 `json:"improvement" bson:"improvement"`

	// PolygonHash identifies the input polygon.
	PolygonHash string `json:"polygon_hash" bson:"polygon_hash"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats" bson:"stats"`

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo `json:"-" bson:"-"`
}

// CompareResult is the output of Runner.Compare: the full three-strategy
// comparison.
type CompareResult struct {
	// Comparison holds the three scored placements, winner, and improvement.
	Comparison label.Comparison `json:"comparison" bson:"comparison"`

	// PolygonHash identifies the input polygon.
	PolygonHash string `json:"polygon_hash" bson:"polygon_hash"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats" bson:"stats"`

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo `json:"-" bson:"-"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	GridWidth     int           `json:"grid_width" bson:"grid_width"`
	GridHeight    int           `json:"grid_height" bson:"grid_height"`
	InteriorCells int           `json:"interior_cells" bson:"interior_cells"`
	RasterTime    time.Duration `json:"raster_time" bson:"raster_time"`
	FieldTime     time.Duration `json:"field_time" bson:"field_time"`
	PlaceTime     time.Duration `json:"place_time" bson:"place_time"`
}

// CacheInfo tracks cache hits for a pipeline run.
type CacheInfo struct {
	ResultHit bool // Whether the result came from cache
}
