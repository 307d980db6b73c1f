package llm

import (
	"context"
)

// LLMClient issues a single prompt to the configured reasoning provider and
// returns its free-text response.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderClient turns text into a fixed-dimension vector. Providers are
// assumed deterministic for identical input.
type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
