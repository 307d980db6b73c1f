package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps events in process memory. Used by tests and the
// "memory" backend for ephemeral runs.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
	byID   map[int64]*Event
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]*Event),
		nextID: 1,
	}
}

func (s *MemoryStore) Insert(ctx context.Context, text string, embedding []float32, causeID *int64, relationshipText string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev := &Event{
		ID:               s.nextID,
		Timestamp:        time.Now().UTC(),
		Text:             text,
		Embedding:        append([]float32(nil), embedding...),
		RelationshipText: relationshipText,
	}
	if causeID != nil {
		id := *causeID
		ev.CauseID = &id
	}
	s.nextID++
	s.events = append(s.events, ev)
	s.byID[ev.ID] = ev
	return ev.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	return ev, nil
}

func (s *MemoryStore) RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, ev := range s.events {
		if ev.Timestamp.After(cutoff) {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ChildrenOf(ctx context.Context, id int64) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, ev := range s.events {
		if ev.CauseID != nil && *ev.CauseID == id {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) All(ctx context.Context) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]*Event(nil), s.events...), nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// SeedEvent force-inserts an event with explicit id, timestamp and cause
// link, bypassing allocation. Tests use it to construct corrupted graphs
// (cycles, dangling cause ids) that normal insertion can never produce.
func (s *MemoryStore) SeedEvent(ev *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, ev)
	s.byID[ev.ID] = ev
	if ev.ID >= s.nextID {
		s.nextID = ev.ID + 1
	}
}
