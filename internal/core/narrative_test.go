package core

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/agenthands/catena/internal/store"
)

func narrativeChain(pairs ...[2]string) []*store.Event {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	chain := make([]*store.Event, len(pairs))
	for i, s := range pairs {
		chain[i] = &store.Event{
			ID:               int64(i + 1),
			Timestamp:        ts.Add(time.Duration(i) * time.Minute),
			Text:             s[0],
			RelationshipText: s[1],
		}
	}
	return chain
}

func TestFormatNarrativeEmptyChain(t *testing.T) {
	assert.Equal(t, "No causal chain found.", FormatNarrative(nil))
}

func TestFormatNarrativeSingleEvent(t *testing.T) {
	chain := narrativeChain([2]string{"the deployment started", ""})
	assert.Equal(t, "Initially, the deployment started.", FormatNarrative(chain))
}

func TestFormatNarrativeTwoEvents(t *testing.T) {
	chain := narrativeChain(
		[2]string{"the power went out", ""},
		[2]string{"the computer turned off", "the outage cut power"},
	)
	assert.Equal(t,
		"Initially, the power went out. This led to the computer turned off (the outage cut power).",
		FormatNarrative(chain))
}

func TestFormatNarrativeOmitsEmptyRelationshipSuffix(t *testing.T) {
	chain := narrativeChain(
		[2]string{"the power went out", ""},
		[2]string{"the computer turned off", ""},
	)
	assert.Equal(t,
		"Initially, the power went out. This led to the computer turned off.",
		FormatNarrative(chain))
}

func TestFormatNarrativeDeterministic(t *testing.T) {
	chain := narrativeChain(
		[2]string{"the disk filled up", ""},
		[2]string{"the database stopped accepting writes", "no space left"},
		[2]string{"the pager went off", ""},
	)
	first := FormatNarrative(chain)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, FormatNarrative(chain))
	}
}

func TestFormatNarrativeGolden(t *testing.T) {
	g := goldie.New(t)

	g.Assert(t, "single_event", []byte(FormatNarrative(narrativeChain(
		[2]string{"the deployment started", ""},
	))))

	g.Assert(t, "chain_with_relationships", []byte(FormatNarrative(narrativeChain(
		[2]string{"the power went out", ""},
		[2]string{"the computer turned off", "the outage cut power"},
		[2]string{"the unsaved work was lost", ""},
	))))

	g.Assert(t, "long_chain", []byte(FormatNarrative(narrativeChain(
		[2]string{"the disk filled up", ""},
		[2]string{"the database stopped accepting writes", "no space left for the write-ahead log"},
		[2]string{"the API returned errors", SoftLinkRelationship},
		[2]string{"the pager went off", ""},
	))))
}
