package core

import (
	"context"
	"fmt"
	"strings"
)

// SoftLinkRelationship is the synthetic relationship text attached to edges
// accepted on similarity alone, without judgment confirmation.
const SoftLinkRelationship = "sequential workflow step detected via high semantic correlation"

const judgePrompt = `Based on the preceding event: %q, did it directly lead to, or is it an earlier step in the same workflow as, the following event: %q?

If yes, briefly explain the causal relationship in one sentence. If no, respond with "No."`

// adjudicate walks candidates in rank order and returns the id and
// relationship text of the first accepted cause. A judgment call failure
// counts as a rejection for that candidate only. When the provider accepts
// nothing but soft links are enabled, the highest-ranked candidate clearing
// the secondary threshold is accepted with a synthetic relationship; the
// third return flags that case. (nil, "", false) means the new event becomes
// a root.
func (e *Engine) adjudicate(ctx context.Context, candidates []scoredEvent, effectText string) (*int64, string, bool) {
	for _, c := range candidates {
		verdict, err := e.judge(ctx, c.Event.Text, effectText)
		if err != nil {
			e.metrics.JudgeFailure()
			e.log.Warnw("judgment call failed, treating as rejection",
				"cause_id", c.Event.ID, "error", err)
			continue
		}
		if verdict == "" {
			continue
		}
		id := c.Event.ID
		return &id, verdict, false
	}

	if e.cfg.EnableSoftLinks {
		// candidates are rank-ordered, so the first hit is the best one.
		for _, c := range candidates {
			if c.Score >= e.cfg.SoftLinkThreshold {
				id := c.Event.ID
				e.log.Warnw("accepting soft link without judgment confirmation",
					"cause_id", id, "score", c.Score, "soft_link", true)
				return &id, SoftLinkRelationship, true
			}
		}
	}

	return nil, "", false
}

// judge asks the reasoning provider whether causeText plausibly caused
// effectText. Returns the trimmed verdict on acceptance, or "" on rejection
// (a response starting with a negative token, or an empty response). The
// call runs under its own bounded timeout so a slow provider cannot stall
// AddEvent indefinitely.
func (e *Engine) judge(ctx context.Context, causeText, effectText string) (string, error) {
	jctx, cancel := context.WithTimeout(ctx, e.cfg.JudgeTimeout)
	defer cancel()

	prompt := fmt.Sprintf(judgePrompt, causeText, effectText)
	resp, err := e.llm.Generate(jctx, prompt)
	if err != nil {
		return "", err
	}

	verdict := strings.TrimSpace(resp)
	if verdict == "" || strings.HasPrefix(strings.ToLower(verdict), "no") {
		return "", nil
	}
	return verdict, nil
}
