// Package store persists run history for placement and comparison requests.
//
// Every completed pipeline run can be recorded as a Run document so
// operators can see what shapes and labels the service has handled. The
// Store interface has two backends:
//   - memory: for tests and single-process CLI use
//   - mongo: for the HTTP server, shared across instances
//
// Persistence is best-effort at the call sites: a failed save never fails
// the request that produced the result.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cartolab/riverlabel/pkg/geom"
)

// Run kinds.
const (
	KindPlace   = "place"
	KindCompare = "compare"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID          string     `json:"id" bson:"_id"`
	Kind        string     `json:"kind" bson:"kind"`
	PolygonHash string     `json:"polygon_hash" bson:"polygon_hash"`
	LabelText   string     `json:"label_text" bson:"label_text"`
	FontSize    int        `json:"font_size" bson:"font_size"`
	Point       geom.Point `json:"point" bson:"point"`
	Distance    float64    `json:"distance" bson:"distance"`
	FitsInside  bool       `json:"fits_inside" bson:"fits_inside"`
	Winner      string     `json:"winner,omitempty" bson:"winner,omitempty"`
	Improvement float64    `json:"improvement" bson:"improvement"`
	CacheHit    bool       `json:"cache_hit" bson:"cache_hit"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
}

// NewRun creates a Run of the given kind with a fresh ID and timestamp.
// The caller fills in the result fields.
func NewRun(kind string) Run {
	return Run{
		ID:        uuid.NewString(),
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for run-history backends.
type Store interface {
	// Save records a run.
	Save(ctx context.Context, run Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps runs in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	runs []Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save records a run.
func (s *MemoryStore) Save(ctx context.Context, run Run) error {
	s.mu.Lock()
	s.runs = append(s.runs, run)
	s.mu.Unlock()
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	out := make([]Run, len(s.runs))
	copy(out, s.runs)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Len returns the number of recorded runs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
