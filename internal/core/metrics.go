package core

import "sync/atomic"

// Metrics receives engine counters. Implementations must be safe for
// concurrent use. The engine never reads metrics back; collection lifecycle
// belongs to the caller.
type Metrics interface {
	EventAdded()
	CausalLinkCreated(soft bool)
	QueryServed(matched bool)
	JudgeFailure()
	ChainTruncated()
}

// NopMetrics discards all counters.
type NopMetrics struct{}

func (NopMetrics) EventAdded()                 {}
func (NopMetrics) CausalLinkCreated(soft bool) {}
func (NopMetrics) QueryServed(matched bool)    {}
func (NopMetrics) JudgeFailure()               {}
func (NopMetrics) ChainTruncated()             {}

// Collector is an in-memory Metrics implementation backed by atomic
// counters. The REST /stats endpoint and the MCP memory_stats tool serve
// its snapshots.
type Collector struct {
	eventsAdded      atomic.Int64
	causalLinks      atomic.Int64
	softLinks        atomic.Int64
	queries          atomic.Int64
	queryMisses      atomic.Int64
	judgeFailures    atomic.Int64
	chainTruncations atomic.Int64
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) EventAdded() {
	c.eventsAdded.Add(1)
}

func (c *Collector) CausalLinkCreated(soft bool) {
	c.causalLinks.Add(1)
	if soft {
		c.softLinks.Add(1)
	}
}

func (c *Collector) QueryServed(matched bool) {
	c.queries.Add(1)
	if !matched {
		c.queryMisses.Add(1)
	}
}

func (c *Collector) JudgeFailure() {
	c.judgeFailures.Add(1)
}

func (c *Collector) ChainTruncated() {
	c.chainTruncations.Add(1)
}

func (c *Collector) Snapshot() map[string]int64 {
	return map[string]int64{
		"events_added":      c.eventsAdded.Load(),
		"causal_links":      c.causalLinks.Load(),
		"soft_links":        c.softLinks.Load(),
		"queries":           c.queries.Load(),
		"query_misses":      c.queryMisses.Load(),
		"judge_failures":    c.judgeFailures.Load(),
		"chain_truncations": c.chainTruncations.Load(),
	}
}
