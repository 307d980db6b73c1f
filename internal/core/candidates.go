package core

import (
	"context"
	"sort"
	"time"

	"github.com/agenthands/catena/internal/store"
)

// scoredEvent pairs a candidate cause with its cosine similarity to the new
// effect.
type scoredEvent struct {
	Event *store.Event
	Score float64
}

// findCandidates scans the recency window for plausible causes of the new
// effect: rows matching the effect text exactly are dropped (duplicate
// submissions), incomparable embeddings are skipped, survivors below the
// similarity floor are discarded, and the rest are ranked by (score,
// timestamp) descending and truncated. An empty result is a normal terminal
// case: the new event becomes a root.
func (e *Engine) findCandidates(ctx context.Context, effectEmbedding []float32, effectText string, asOf time.Time) ([]scoredEvent, error) {
	cutoff := asOf.Add(-e.cfg.TimeDecayWindow)
	recent, err := e.store.RecentSince(ctx, cutoff, e.cfg.RecentScanLimit)
	if err != nil {
		return nil, err
	}

	var candidates []scoredEvent
	for _, ev := range recent {
		if ev.Text == effectText {
			continue
		}
		score, ok := Cosine(effectEmbedding, ev.Embedding)
		if !ok {
			continue
		}
		if score < e.cfg.SimilarityThreshold {
			continue
		}
		candidates = append(candidates, scoredEvent{Event: ev, Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Event.Timestamp.After(candidates[j].Event.Timestamp)
	})

	if len(candidates) > e.cfg.MaxPotentialCauses {
		candidates = candidates[:e.cfg.MaxPotentialCauses]
	}
	return candidates, nil
}
