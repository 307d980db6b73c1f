package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MemgraphStore persists events as :Event nodes with CAUSED edges in a
// Memgraph (or Neo4j) instance over bolt. Id allocation is serialized behind
// a mutex; the engine is single-process, so the max(id)+1 read and the
// subsequent CREATE never race.
type MemgraphStore struct {
	driver neo4j.DriverWithContext

	mu sync.Mutex
}

func OpenMemgraph(ctx context.Context, uri, username, password string) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, err
	}

	s := &MemgraphStore{driver: driver}
	if err := s.buildIndices(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MemgraphStore) buildIndices(ctx context.Context) error {
	queries := []string{
		"CREATE INDEX ON :Event(id);",
		"CREATE INDEX ON :Event(timestamp);",
		"CREATE INDEX ON :Event(cause_id);",
	}
	for _, q := range queries {
		// Index may already exist; Memgraph errors on re-creation.
		_, _ = s.execute(ctx, q, nil)
	}
	return nil
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

func (s *MemgraphStore) Insert(ctx context.Context, text string, embedding []float32, causeID *int64, relationshipText string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.execute(ctx, nextIDQuery, nil)
	if err != nil {
		return 0, err
	}
	var id int64 = 1
	if len(res.Records) > 0 {
		if v, ok := res.Records[0].Get("id"); ok {
			if n, ok := v.(int64); ok {
				id = n
			}
		}
	}

	emb := make([]any, len(embedding))
	for i, x := range embedding {
		emb[i] = float64(x)
	}
	params := map[string]any{
		"id":                id,
		"timestamp":         time.Now().UTC().UnixNano(),
		"text":              text,
		"embedding":         emb,
		"cause_id":          nil,
		"relationship_text": nil,
	}
	if causeID != nil {
		params["cause_id"] = *causeID
		params["relationship_text"] = relationshipText
	}

	if _, err := s.execute(ctx, insertEventQuery, params); err != nil {
		return 0, err
	}

	if causeID != nil {
		_, err := s.execute(ctx, linkCauseQuery, map[string]any{
			"cause_id":          *causeID,
			"effect_id":         id,
			"relationship_text": relationshipText,
		})
		if err != nil {
			return 0, err
		}
	}

	return id, nil
}

func (s *MemgraphStore) Get(ctx context.Context, id int64) (*Event, error) {
	res, err := s.execute(ctx, getEventQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	events, err := recordsToEvents(res.Records)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return events[0], nil
}

func (s *MemgraphStore) RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*Event, error) {
	res, err := s.execute(ctx, recentSinceQuery, map[string]any{
		"cutoff": cutoff.UnixNano(),
		"limit":  limit,
	})
	if err != nil {
		return nil, err
	}
	return recordsToEvents(res.Records)
}

func (s *MemgraphStore) ChildrenOf(ctx context.Context, id int64) ([]*Event, error) {
	res, err := s.execute(ctx, childrenOfQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return recordsToEvents(res.Records)
}

func (s *MemgraphStore) All(ctx context.Context) ([]*Event, error) {
	res, err := s.execute(ctx, allEventsQuery, nil)
	if err != nil {
		return nil, err
	}
	return recordsToEvents(res.Records)
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func recordsToEvents(records []*neo4j.Record) ([]*Event, error) {
	var out []*Event
	for _, rec := range records {
		ev := &Event{}

		v, _ := rec.Get("id")
		id, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("event record has non-integer id: %v", v)
		}
		ev.ID = id

		if v, _ := rec.Get("timestamp"); v != nil {
			if ts, ok := v.(int64); ok {
				ev.Timestamp = time.Unix(0, ts).UTC()
			}
		}
		if v, _ := rec.Get("text"); v != nil {
			if text, ok := v.(string); ok {
				ev.Text = text
			}
		}
		if v, _ := rec.Get("embedding"); v != nil {
			if values, ok := v.([]any); ok {
				ev.Embedding = make([]float32, 0, len(values))
				for _, raw := range values {
					if f, ok := raw.(float64); ok {
						ev.Embedding = append(ev.Embedding, float32(f))
					}
				}
			}
		}
		if v, _ := rec.Get("cause_id"); v != nil {
			if cause, ok := v.(int64); ok {
				ev.CauseID = &cause
			}
		}
		if v, _ := rec.Get("relationship_text"); v != nil {
			if rel, ok := v.(string); ok {
				ev.RelationshipText = rel
			}
		}

		out = append(out, ev)
	}
	return out, nil
}
