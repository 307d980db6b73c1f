package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/catena/internal/config"
)

func TestNewClientOpenAI(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider:       "openai",
		Model:          "gpt-3.5-turbo",
		EmbeddingModel: "text-embedding-3-small",
		APIKey:         "test-key",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.NotNil(t, embedder)
}

func TestNewClientClaudeHasNoEmbedder(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider: "Claude",
		Model:    "claude-3-haiku-20240307",
		APIKey:   "test-key",
	})
	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Nil(t, embedder)
}

func TestNewClientOllamaUsesOpenAIWireFormat(t *testing.T) {
	client, embedder, err := NewClient(context.Background(), config.LLMConfig{
		Provider:       "ollama",
		Model:          "llama3",
		EmbeddingModel: "nomic-embed-text",
	})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
	assert.NotNil(t, embedder)
}

func TestNewClientUnsupportedProvider(t *testing.T) {
	_, _, err := NewClient(context.Background(), config.LLMConfig{Provider: "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}
