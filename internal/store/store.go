package store

import (
	"context"
	"time"
)

// Event is the sole persisted entity: one observed effect, optionally linked
// to the prior event judged to have caused it. Rows are immutable once
// committed; the cause link is set at insertion time and never mutated.
type Event struct {
	ID               int64     `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Text             string    `json:"text"`
	Embedding        []float32 `json:"embedding"`
	CauseID          *int64    `json:"cause_id,omitempty"`
	RelationshipText string    `json:"relationship_text,omitempty"`
}

// IsRoot reports whether the event has no recorded cause.
func (e *Event) IsRoot() bool {
	return e.CauseID == nil
}

// EventStore is the append-only event table. Implementations must allocate
// ids atomically and strictly increasing within a single process.
//
// Get returns (nil, nil) for an unknown id; callers treat that as a broken
// chain, not an error.
type EventStore interface {
	// Insert persists one event and returns its allocated id.
	Insert(ctx context.Context, text string, embedding []float32, causeID *int64, relationshipText string) (int64, error)

	// Get fetches a single event by id, or (nil, nil) when absent.
	Get(ctx context.Context, id int64) (*Event, error)

	// RecentSince returns events newer than cutoff, newest first, capped at
	// limit rows.
	RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*Event, error)

	// ChildrenOf returns events whose cause is id, oldest first.
	ChildrenOf(ctx context.Context, id int64) ([]*Event, error)

	// All returns every stored event. Linear-scan friendly corpus sizes are
	// assumed; an indexed nearest-neighbor backend can replace this without
	// changing the contract.
	All(ctx context.Context) ([]*Event, error)

	Close(ctx context.Context) error
}
