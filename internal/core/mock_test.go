package core

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/catena/internal/store"
)

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

type MockEmbedder struct {
	ByText map[string][]float32
	Vector []float32
	Err    error
	Calls  int
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if vec, ok := m.ByText[text]; ok {
		return vec, nil
	}
	return m.Vector, nil
}

func newTestEngine(st store.EventStore, llmClient *MockLLM, embedder *MockEmbedder, cfg Config) *Engine {
	engine, err := New(st, llmClient, embedder, cfg, zap.NewNop().Sugar(), NewCollector())
	if err != nil {
		panic(err)
	}
	return engine
}

func ptrID(id int64) *int64 {
	return &id
}

func seededEvent(id int64, ts time.Time, text string, embedding []float32, causeID *int64, relationship string) *store.Event {
	return &store.Event{
		ID:               id,
		Timestamp:        ts,
		Text:             text,
		Embedding:        embedding,
		CauseID:          causeID,
		RelationshipText: relationship,
	}
}
