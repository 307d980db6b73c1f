//go:build integration

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/catena/internal/core"
	"github.com/agenthands/catena/internal/store"
)

// scriptedLLM accepts every causal judgment with a fixed relationship.
type scriptedLLM struct {
	relationship string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	return s.relationship, nil
}

// axisEmbedder hands out nearly-collinear vectors so consecutive events
// clear the similarity floor without a real embedding model.
type axisEmbedder struct {
	vectors map[string][]float32
}

func (e *axisEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	return nil, fmt.Errorf("no vector scripted for %q", text)
}

func TestSQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()

	dbPath := filepath.Join(t.TempDir(), "events.db")
	st, err := store.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer st.Close(ctx)

	embedder := &axisEmbedder{vectors: map[string][]float32{
		"The deploy script failed with a syntax error.": {1, 0, 0},
		"The release was rolled back.":                  {0.9, 0.4, 0},
		"Customers saw the old version again.":          {0.85, 0.5, 0},
		"why did customers see the old version?":        {0.85, 0.51, 0},
	}}
	llm := &scriptedLLM{relationship: "the earlier failure forced the rollback"}

	engine, err := core.New(st, llm, embedder, core.DefaultConfig(), nil, core.NewCollector())
	require.NoError(t, err)

	for _, text := range []string{
		"The deploy script failed with a syntax error.",
		"The release was rolled back.",
		"Customers saw the old version again.",
	} {
		_, err := engine.AddEvent(ctx, text)
		require.NoError(t, err)
	}

	narrative, err := engine.Query(ctx, "why did customers see the old version?")
	require.NoError(t, err)
	assert.Contains(t, narrative, "Initially, The deploy script failed with a syntax error.")
	assert.Contains(t, narrative, "The release was rolled back.")
	assert.Contains(t, narrative, "Customers saw the old version again.")

	// Reopen the same database file; the chain must survive the process
	// boundary and produce the same narrative.
	require.NoError(t, st.Close(ctx))
	st2, err := store.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer st2.Close(ctx)

	engine2, err := core.New(st2, llm, embedder, core.DefaultConfig(), nil, nil)
	require.NoError(t, err)

	again, err := engine2.Query(ctx, "why did customers see the old version?")
	require.NoError(t, err)
	assert.Equal(t, narrative, again)
}

func TestSQLiteEndToEndRejectionKeepsRoots(t *testing.T) {
	ctx := context.Background()

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	defer st.Close(ctx)

	embedder := &axisEmbedder{vectors: map[string][]float32{
		"the cache warmed up":    {1, 0},
		"a new intern started":   {0.8, 0.6},
		"what about the intern?": {0.8, 0.61},
	}}
	llm := &scriptedLLM{relationship: "No. These are unrelated."}

	cfg := core.DefaultConfig()
	cfg.EnableSoftLinks = false
	engine, err := core.New(st, llm, embedder, cfg, nil, nil)
	require.NoError(t, err)

	_, err = engine.AddEvent(ctx, "the cache warmed up")
	require.NoError(t, err)
	id, err := engine.AddEvent(ctx, "a new intern started")
	require.NoError(t, err)

	ev, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.True(t, ev.IsRoot())

	narrative, err := engine.Query(ctx, "what about the intern?")
	require.NoError(t, err)
	assert.Equal(t, "Initially, a new intern started.", narrative)
}
