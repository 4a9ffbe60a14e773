// Package pkg provides the core libraries for riverlabel placement.
//
// # Overview
//
// Riverlabel finds the best spot for a text label inside a polygon outline,
// the way a cartographer would place a river name: deep inside the shape,
// as far from the banks as possible. The pkg directory is organized into
// a small set of focused packages:
//
//  1. [geom] - Polygon primitives (validation, centroid, containment)
//  2. [raster] - Occupancy grid and Euclidean distance field
//  3. [label] - Placement strategies and fit evaluation
//  4. [pipeline] - Orchestration (validate → rasterize → field → place)
//  5. [render] - Side-by-side comparison images
//
// # Architecture
//
// The typical data flow through riverlabel:
//
//	Polygon outline (JSON / GeoJSON)
//	         ↓
//	    [geom] package (validate, bounding box)
//	         ↓
//	    [raster] package (occupancy grid + distance field)
//	         ↓
//	    [label] package (strategies + fit check)
//	         ↓
//	    placement result / comparison / PNG
//
// # Quick Start
//
// Place a label and compare strategies:
//
//	import (
//	    "context"
//	    "github.com/cartolab/riverlabel/pkg/cache"
//	    "github.com/cartolab/riverlabel/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	result, _ := runner.Place(context.Background(), pipeline.Options{
//	    Coordinates: [][]float64{{0, 0}, {100, 0}, {100, 50}, {0, 50}},
//	    LabelText:   "DANUBE",
//	    FontSize:    24,
//	})
//
// # Main Packages
//
// ## Core Domain Logic
//
// [geom] - Polygon validation and geometric primitives. Even-odd ray casting
// for containment, shoelace centroid with a vertex-mean fallback for
// degenerate outlines.
//
// [raster] - Converts a polygon into an occupancy grid at one cell per
// coordinate unit and computes an exact Euclidean distance transform over
// the interior.
//
// [label] - The three placement strategies (centroid, weighted centroid,
// distance transform) plus the fit test that decides whether a label box
// sits fully inside the outline.
//
// ## Orchestration and Infrastructure
//
// [pipeline] - Runs the full placement pipeline with caching and timing
// stats. The entry point for both the CLI and the HTTP server.
//
// [cache] - Result caching with file, memory, Redis, and null backends.
//
// [store] - Placement run history, in memory or backed by MongoDB.
//
// [io] - GeoJSON import of polygon outlines and export of placement points.
//
// ## Presentation
//
// [render] - Draws the three candidate placements side by side as a PNG,
// highlighting the winner.
//
// [errors] - Structured errors with stable codes and user-facing messages.
//
// [observability] - Hook interfaces for instrumenting pipeline stages,
// cache traffic, and HTTP handling.
package pkg
