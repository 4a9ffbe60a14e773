// Package cache provides result caching for the placement pipeline.
//
// A placement or comparison is a pure function of the polygon, the label
// parameters, and the grid margin, so finished results can be cached under
// a content hash of those inputs. Backends:
//
//   - file: for the CLI (default, under the user cache dir)
//   - memory: for tests and embedding
//   - redis: for the HTTP server, shared across instances
//   - null: caching disabled
//
// Keys are produced by a Keyer so every entry point (CLI, HTTP) derives
// identical keys for identical requests.
package cache

import (
	"context"
	"time"
)

// TTLs per entry kind. Results are deterministic, so the TTLs exist only to
// bound storage growth, not for correctness.
const (
	// TTLResult applies to placement and comparison results.
	TTLResult = 24 * time.Hour

	// TTLImage applies to rendered comparison images, which are an order of
	// magnitude larger than results.
	TTLImage = 6 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A non-positive TTL stores the
	// value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for pipeline results.
type Keyer interface {
	// PlaceKey identifies a place-label computation.
	PlaceKey(polygonHash, labelText string, fontSize int, margin float64) string

	// CompareKey identifies a three-strategy comparison.
	CompareKey(polygonHash, labelText string, fontSize int, margin float64) string

	// ImageKey identifies a rendered comparison image.
	ImageKey(compareKey string) string
}

// DefaultKeyer hashes the request parameters into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PlaceKey implements Keyer.
func (DefaultKeyer) PlaceKey(polygonHash, labelText string, fontSize int, margin float64) string {
	return hashKey("place", polygonHash, labelText, fontSize, margin)
}

// CompareKey implements Keyer.
func (DefaultKeyer) CompareKey(polygonHash, labelText string, fontSize int, margin float64) string {
	return hashKey("compare", polygonHash, labelText, fontSize, margin)
}

// ImageKey implements Keyer.
func (DefaultKeyer) ImageKey(compareKey string) string {
	return hashKey("image", compareKey)
}
