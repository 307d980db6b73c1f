// Package mcpserver exposes the causal memory engine as MCP tools over
// stdio, so external agents can record events and retrieve narratives.
package mcpserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/agenthands/catena/internal/core"
)

type AddEventParams struct {
	Text string `json:"text" mcp:"the event description to record"`
}

type QueryParams struct {
	Query string `json:"query" mcp:"free-text question about past events"`
}

type StatsParams struct{}

type Server struct {
	engine  *core.Engine
	metrics *core.Collector
}

func New(engine *core.Engine, metrics *core.Collector) *Server {
	return &Server{engine: engine, metrics: metrics}
}

// Run registers the tools and serves on stdin/stdout until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "catena-causal-memory",
		Version: "1.1.0",
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_causal_event",
		Description: "Add a new event to the causal memory system. The system automatically determines causal relationships with previous events using semantic similarity and LLM reasoning, creating links that enable narrative chain reconstruction.",
	}, s.AddEvent)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "query_causal_memory",
		Description: "Query the causal memory with free text. Returns a narrative tracing the chain of events from root cause through the most relevant event and its downstream consequences.",
	}, s.Query)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "memory_stats",
		Description: "Inspect in-memory engine counters (events added, causal links, soft links, queries, truncations).",
	}, s.Stats)

	return srv.Run(ctx, mcp.NewStdioTransport())
}

func (s *Server) AddEvent(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AddEventParams]) (*mcp.CallToolResultFor[any], error) {
	id, err := s.engine.AddEvent(ctx, params.Arguments.Text)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to add event: %v", err)), nil
	}
	return textResult(fmt.Sprintf("Event %d recorded.", id)), nil
}

func (s *Server) Query(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[QueryParams]) (*mcp.CallToolResultFor[any], error) {
	narrative, err := s.engine.Query(ctx, params.Arguments.Query)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to query memory: %v", err)), nil
	}
	return textResult(narrative), nil
}

func (s *Server) Stats(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[StatsParams]) (*mcp.CallToolResultFor[any], error) {
	if s.metrics == nil {
		return textResult("No metrics collector configured."), nil
	}
	snapshot := s.metrics.Snapshot()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %d\n", name, snapshot[name])
	}
	return textResult(b.String()), nil
}

func textResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
