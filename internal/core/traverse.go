package core

import (
	"context"

	"github.com/agenthands/catena/internal/store"
)

// NoContextNarrative is returned when no stored event clears the similarity
// threshold for a query.
const NoContextNarrative = "No relevant context found in memory."

// findAnchor selects the stored event most similar to the query embedding,
// breaking score ties toward the more recent event. Returns nil when the
// best score is below the similarity threshold (or the store is empty).
func (e *Engine) findAnchor(ctx context.Context, queryEmbedding []float32) (*store.Event, error) {
	events, err := e.store.All(ctx)
	if err != nil {
		return nil, err
	}

	var (
		best      *store.Event
		bestScore float64
	)
	for _, ev := range events {
		score, ok := Cosine(queryEmbedding, ev.Embedding)
		if !ok {
			continue
		}
		switch {
		case best == nil, score > bestScore:
			best, bestScore = ev, score
		case score == bestScore && ev.Timestamp.After(best.Timestamp):
			best = ev
		}
	}

	if best == nil || bestScore < e.cfg.SimilarityThreshold {
		return nil, nil
	}
	return best, nil
}

// ascend follows cause links from the anchor up to its root, returning the
// chain root-first with the anchor last. Broken references and cycles
// truncate the chain at the point of corruption; a partial chain is always
// preferred over a failure.
func (e *Engine) ascend(ctx context.Context, anchor *store.Event) []*store.Event {
	chain := []*store.Event{anchor}
	visited := map[int64]bool{anchor.ID: true}

	current := anchor
	for current.CauseID != nil {
		parent, err := e.store.Get(ctx, *current.CauseID)
		if err != nil || parent == nil {
			e.metrics.ChainTruncated()
			e.log.Warnw("broken causal chain, truncating ascent",
				"event_id", current.ID, "cause_id", *current.CauseID, "error", err)
			break
		}
		if visited[parent.ID] {
			e.metrics.ChainTruncated()
			e.log.Warnw("cycle detected, aborting ascent", "event_id", parent.ID)
			break
		}
		chain = append(chain, parent)
		visited[parent.ID] = true
		current = parent
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// descend walks downward from the anchor for at most MaxConsequences steps,
// taking the earliest-born child at each step so the narrative stays a
// single path rather than a subtree. Children already on the accumulated
// path stop the walk (cycle guard).
func (e *Engine) descend(ctx context.Context, anchor *store.Event, path []*store.Event) []*store.Event {
	onPath := make(map[int64]bool, len(path))
	for _, ev := range path {
		onPath[ev.ID] = true
	}

	var consequences []*store.Event
	current := anchor
	for depth := 0; depth < e.cfg.MaxConsequences; depth++ {
		children, err := e.store.ChildrenOf(ctx, current.ID)
		if err != nil {
			e.metrics.ChainTruncated()
			e.log.Warnw("children lookup failed, truncating descent",
				"event_id", current.ID, "error", err)
			break
		}
		if len(children) == 0 {
			break
		}
		child := children[0]
		if onPath[child.ID] {
			e.metrics.ChainTruncated()
			e.log.Warnw("cycle detected, aborting descent", "event_id", child.ID)
			break
		}
		consequences = append(consequences, child)
		onPath[child.ID] = true
		current = child
	}
	return consequences
}
