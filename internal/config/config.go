package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string  `toml:"provider" env:"LLM_PROVIDER"`
	Model          string  `toml:"model" env:"LLM_MODEL"`
	EmbeddingModel string  `toml:"embedding_model" env:"LLM_EMBEDDING_MODEL"`
	APIKey         string  `toml:"api_key" env:"LLM_API_KEY"`
	BaseURL        string  `toml:"base_url" env:"LLM_BASE_URL"`
	Temperature    float32 `toml:"temperature" env:"LLM_TEMPERATURE"`
	MaxTokens      int     `toml:"max_tokens" env:"LLM_MAX_TOKENS"`
}

type StoreConfig struct {
	// Backend is one of "sqlite", "memgraph", "memory".
	Backend  string `toml:"backend" env:"STORE_BACKEND"`
	Path     string `toml:"path" env:"DB_PATH"`
	URI      string `toml:"uri" env:"MEMGRAPH_URI"`
	User     string `toml:"user" env:"MEMGRAPH_USER"`
	Password string `toml:"password" env:"MEMGRAPH_PASSWORD"`
}

type EngineConfig struct {
	SimilarityThreshold float64 `toml:"similarity_threshold" env:"SIMILARITY_THRESHOLD"`
	SoftLinkThreshold   float64 `toml:"soft_link_threshold" env:"SOFT_LINK_THRESHOLD"`
	EnableSoftLinks     bool    `toml:"enable_soft_links" env:"ENABLE_SOFT_LINKS"`
	MaxPotentialCauses  int     `toml:"max_potential_causes" env:"MAX_POTENTIAL_CAUSES"`
	TimeDecayHours      int     `toml:"time_decay_hours" env:"TIME_DECAY_HOURS"`
	RecentScanLimit     int     `toml:"recent_scan_limit" env:"RECENT_SCAN_LIMIT"`
	MaxConsequences     int     `toml:"max_consequences" env:"MAX_CONSEQUENCES"`
	EmbedCacheSize      int     `toml:"embed_cache_size" env:"EMBED_CACHE_SIZE"`
	JudgeTimeoutSeconds int     `toml:"judge_timeout_seconds" env:"JUDGE_TIMEOUT_SECONDS"`
}

type ServerConfig struct {
	Port      string `toml:"port" env:"PORT"`
	AuthToken string `toml:"auth_token" env:"API_AUTH_TOKEN"`
}

type Config struct {
	LLM    LLMConfig    `toml:"llm"`
	Store  StoreConfig  `toml:"store"`
	Engine EngineConfig `toml:"engine"`
	Server ServerConfig `toml:"server"`
}

func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       "openai",
			Model:          "gpt-3.5-turbo",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.1,
			MaxTokens:      100,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "causal_memory.db",
			URI:     "bolt://localhost:7687",
		},
		Engine: EngineConfig{
			SimilarityThreshold: 0.5,
			SoftLinkThreshold:   0.85,
			EnableSoftLinks:     true,
			MaxPotentialCauses:  5,
			TimeDecayHours:      24,
			RecentScanLimit:     50,
			MaxConsequences:     2,
			EmbedCacheSize:      1000,
			JudgeTimeoutSeconds: 15,
		},
		Server: ServerConfig{
			Port: "8080",
		},
	}
}

// Load reads the TOML file at path (a missing file is not an error) and then
// applies environment variable overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse TOML config '%s': %w", path, err)
			}
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	return cfg, nil
}
