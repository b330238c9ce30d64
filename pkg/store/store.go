// Package store archives generated maps so they can be listed and rendered
// again later.
//
// A [Record] keeps the resolved request, the grid and its room graph. Two
// backends implement [Store]: [MemoryStore] for tests and single-process
// use, and [MongoStore] for a shared archive. Both are safe for concurrent
// use. Record ids are random UUIDs.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 20

// Record is one archived map.
type Record struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Request   pipeline.Request `json:"request"`
	Grid      grid.Data        `json:"grid"`
	Graph     *mapgraph.Graph  `json:"graph,omitempty"`
}

// NewRecord builds an unsaved record from a pipeline result.
func NewRecord(res *pipeline.Result) Record {
	return Record{
		Request: res.Request,
		Grid:    res.Grid.Data(),
		Graph:   res.Graph,
	}
}

// Map rebuilds the grid of r.
func (r Record) Map() (*grid.Grid, error) {
	return grid.FromData(r.Grid)
}

// Seed returns the seed the record was generated with, or 0.
func (r Record) Seed() uint64 {
	if r.Request.Seed == nil {
		return 0
	}
	return *r.Request.Seed
}

// Store persists map records.
type Store interface {
	// Save assigns an id and creation time when they are unset and stores
	// the record.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with id or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	// Delete removes the record with id or returns a NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

// ValidateID checks that id is a UUID.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid map id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return apperr.New(apperr.ErrCodeNotFound, "map %s not found", id)
}
