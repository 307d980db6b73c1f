package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	text TEXT NOT NULL,
	embedding TEXT NOT NULL,
	cause_id INTEGER,
	relationship_text TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_timestamp ON events(timestamp);
CREATE INDEX IF NOT EXISTS idx_events_cause_id ON events(cause_id);
`

// SQLiteStore is the default persistent backend. Timestamps are stored as
// UnixNano integers and embeddings as JSON arrays, so rows survive round
// trips byte-identically.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, text string, embedding []float32, causeID *int64, relationshipText string) (int64, error) {
	emb, err := json.Marshal(embedding)
	if err != nil {
		return 0, fmt.Errorf("failed to encode embedding: %w", err)
	}

	var relationship any
	if relationshipText != "" {
		relationship = relationshipText
	}
	var cause any
	if causeID != nil {
		cause = *causeID
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (timestamp, text, embedding, cause_id, relationship_text)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().UnixNano(), text, string(emb), cause, relationship,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*Event, error) {
	rows, err := s.queryEvents(ctx,
		`SELECT id, timestamp, text, embedding, cause_id, relationship_text
		 FROM events WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *SQLiteStore) RecentSince(ctx context.Context, cutoff time.Time, limit int) ([]*Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, timestamp, text, embedding, cause_id, relationship_text
		 FROM events WHERE timestamp > ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`, cutoff.UnixNano(), limit)
}

func (s *SQLiteStore) ChildrenOf(ctx context.Context, id int64) ([]*Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, timestamp, text, embedding, cause_id, relationship_text
		 FROM events WHERE cause_id = ?
		 ORDER BY timestamp ASC, id ASC`, id)
}

func (s *SQLiteStore) All(ctx context.Context) ([]*Event, error) {
	return s.queryEvents(ctx,
		`SELECT id, timestamp, text, embedding, cause_id, relationship_text
		 FROM events ORDER BY id ASC`)
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var out []*Event
	for rows.Next() {
		var (
			ev           Event
			ts           int64
			emb          string
			cause        sql.NullInt64
			relationship sql.NullString
		)
		if err := rows.Scan(&ev.ID, &ts, &ev.Text, &emb, &cause, &relationship); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ev.Timestamp = time.Unix(0, ts).UTC()
		if err := json.Unmarshal([]byte(emb), &ev.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for event %d: %w", ev.ID, err)
		}
		if cause.Valid {
			id := cause.Int64
			ev.CauseID = &id
		}
		if relationship.Valid {
			ev.RelationshipText = relationship.String
		}
		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event rows: %w", err)
	}
	return out, nil
}
