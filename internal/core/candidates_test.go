package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/catena/internal/store"
)

func TestFindCandidatesFiltersAndRanks(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()

	// Inside the 24h window, above / below the 0.5 floor.
	st.SeedEvent(seededEvent(1, now.Add(-1*time.Hour), "high similarity", []float32{1, 0, 0}, nil, ""))
	st.SeedEvent(seededEvent(2, now.Add(-2*time.Hour), "low similarity", []float32{0, 1, 0}, nil, ""))
	st.SeedEvent(seededEvent(3, now.Add(-3*time.Hour), "medium similarity", []float32{1, 1, 0}, nil, ""))
	// Outside the window despite perfect similarity.
	st.SeedEvent(seededEvent(4, now.Add(-30*time.Hour), "stale", []float32{1, 0, 0}, nil, ""))
	// Unembeddable row is skipped, not an error.
	st.SeedEvent(seededEvent(5, now.Add(-4*time.Hour), "zero norm", []float32{0, 0, 0}, nil, ""))

	engine := newTestEngine(st, &MockLLM{}, &MockEmbedder{}, DefaultConfig())

	candidates, err := engine.findCandidates(context.Background(), []float32{1, 0, 0}, "the new effect", now)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, int64(1), candidates[0].Event.ID)
	assert.InDelta(t, 1.0, candidates[0].Score, 1e-9)
	assert.Equal(t, int64(3), candidates[1].Event.ID)
	assert.Greater(t, candidates[1].Score, 0.5)
}

func TestFindCandidatesExcludesExactTextMatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	st.SeedEvent(seededEvent(1, now.Add(-time.Hour), "duplicate submission", []float32{1, 0}, nil, ""))

	engine := newTestEngine(st, &MockLLM{}, &MockEmbedder{}, DefaultConfig())

	candidates, err := engine.findCandidates(context.Background(), []float32{1, 0}, "duplicate submission", now)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestFindCandidatesTieBreaksTowardRecent(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	st.SeedEvent(seededEvent(1, now.Add(-5*time.Hour), "older twin", []float32{1, 0}, nil, ""))
	st.SeedEvent(seededEvent(2, now.Add(-1*time.Hour), "newer twin", []float32{1, 0}, nil, ""))

	engine := newTestEngine(st, &MockLLM{}, &MockEmbedder{}, DefaultConfig())

	candidates, err := engine.findCandidates(context.Background(), []float32{1, 0}, "effect", now)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(2), candidates[0].Event.ID, "equal scores break toward the more recent event")
	assert.Equal(t, int64(1), candidates[1].Event.ID)
}

func TestFindCandidatesTruncatesToMax(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore()
	for i := int64(1); i <= 8; i++ {
		st.SeedEvent(seededEvent(i, now.Add(-time.Duration(i)*time.Minute), "event", []float32{1, 0}, nil, ""))
	}

	cfg := DefaultConfig()
	cfg.MaxPotentialCauses = 3
	engine := newTestEngine(st, &MockLLM{}, &MockEmbedder{}, cfg)

	candidates, err := engine.findCandidates(context.Background(), []float32{1, 0}, "effect", now)
	require.NoError(t, err)
	assert.Len(t, candidates, 3)
}

func TestFindCandidatesEmptyStore(t *testing.T) {
	engine := newTestEngine(store.NewMemoryStore(), &MockLLM{}, &MockEmbedder{}, DefaultConfig())

	candidates, err := engine.findCandidates(context.Background(), []float32{1, 0}, "effect", time.Now())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}
