package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/catena/internal/config"
	"github.com/agenthands/catena/internal/llm"
	"github.com/agenthands/catena/internal/store"
)

// Config holds the engine's tuning knobs as an explicit value passed at
// construction. Zero values are invalid; start from DefaultConfig or
// FromEngineConfig.
type Config struct {
	SimilarityThreshold float64
	SoftLinkThreshold   float64
	EnableSoftLinks     bool
	MaxPotentialCauses  int
	TimeDecayWindow     time.Duration
	RecentScanLimit     int
	MaxConsequences     int
	EmbedCacheSize      int
	JudgeTimeout        time.Duration
}

func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.5,
		SoftLinkThreshold:   0.85,
		EnableSoftLinks:     true,
		MaxPotentialCauses:  5,
		TimeDecayWindow:     24 * time.Hour,
		RecentScanLimit:     50,
		MaxConsequences:     2,
		EmbedCacheSize:      1000,
		JudgeTimeout:        15 * time.Second,
	}
}

// FromEngineConfig converts the file/env representation into engine tuning.
func FromEngineConfig(cfg config.EngineConfig) Config {
	return Config{
		SimilarityThreshold: cfg.SimilarityThreshold,
		SoftLinkThreshold:   cfg.SoftLinkThreshold,
		EnableSoftLinks:     cfg.EnableSoftLinks,
		MaxPotentialCauses:  cfg.MaxPotentialCauses,
		TimeDecayWindow:     time.Duration(cfg.TimeDecayHours) * time.Hour,
		RecentScanLimit:     cfg.RecentScanLimit,
		MaxConsequences:     cfg.MaxConsequences,
		EmbedCacheSize:      cfg.EmbedCacheSize,
		JudgeTimeout:        time.Duration(cfg.JudgeTimeoutSeconds) * time.Second,
	}
}

// Engine is the causal graph engine: it links each new event to its most
// plausible prior cause and reconstructs causal narratives for free-text
// queries.
type Engine struct {
	store    store.EventStore
	llm      llm.LLMClient
	embedder llm.EmbedderClient
	cache    *embeddingCache
	cfg      Config
	log      *zap.SugaredLogger
	metrics  Metrics

	// Now supplies the engine's clock; tests override it to pin recency
	// windows.
	Now func() time.Time
}

func New(st store.EventStore, llmClient llm.LLMClient, embedder llm.EmbedderClient, cfg Config, logger *zap.SugaredLogger, metrics Metrics) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	cache, err := newEmbeddingCache(embedder, cfg.EmbedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding cache: %w", err)
	}
	return &Engine{
		store:    st,
		llm:      llmClient,
		embedder: embedder,
		cache:    cache,
		cfg:      cfg,
		log:      logger,
		metrics:  metrics,
		Now:      time.Now,
	}, nil
}

// AddEvent records a new effect, linking it to the most plausible prior
// cause when the similarity retrieval and the judgment provider agree on
// one. Judgment failures never abort the add; the event falls back to a
// root. Returns the allocated event id.
func (e *Engine) AddEvent(ctx context.Context, text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, ErrInvalidInput
	}

	embedding, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	candidates, err := e.findCandidates(ctx, embedding, text, e.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to find candidate causes: %w", err)
	}

	causeID, relationship, soft := e.adjudicate(ctx, candidates, text)

	id, err := e.store.Insert(ctx, text, embedding, causeID, relationship)
	if err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}

	e.metrics.EventAdded()
	if causeID != nil {
		e.metrics.CausalLinkCreated(soft)
		e.log.Infow("causal link created",
			"event_id", id, "cause_id", *causeID, "soft_link", soft)
	} else {
		e.log.Debugw("event recorded as root", "event_id", id)
	}
	return id, nil
}

// Query answers a free-text question with a causal narrative: it locates
// the stored event most similar to the question, ascends to that event's
// root cause, descends through a bounded number of consequences, and renders
// the chain as prose. "No match" is a normal narrative result, not an error.
func (e *Engine) Query(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrInvalidInput
	}

	embedding, err := e.cache.GetOrCompute(ctx, query)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	anchor, err := e.findAnchor(ctx, embedding)
	if err != nil {
		return "", fmt.Errorf("failed to locate anchor event: %w", err)
	}
	if anchor == nil {
		e.metrics.QueryServed(false)
		return NoContextNarrative, nil
	}

	chain := e.ascend(ctx, anchor)
	chain = append(chain, e.descend(ctx, anchor, chain)...)

	e.metrics.QueryServed(true)
	return FormatNarrative(chain), nil
}
