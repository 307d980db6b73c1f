package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/catena/internal/config"
	"github.com/agenthands/catena/internal/core"
	"github.com/agenthands/catena/internal/llm"
	"github.com/agenthands/catena/internal/server"
	"github.com/agenthands/catena/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx := context.Background()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		sugar.Fatalw("failed to open event store", "backend", cfg.Store.Backend, "error", err)
	}
	defer st.Close(ctx)

	llmClient, embedder, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		sugar.Fatalw("failed to initialize llm client", "provider", cfg.LLM.Provider, "error", err)
	}
	if embedder == nil {
		sugar.Fatalw("configured provider has no embedding support", "provider", cfg.LLM.Provider)
	}

	metrics := core.NewCollector()
	engine, err := core.New(st, llmClient, embedder, core.FromEngineConfig(cfg.Engine), sugar, metrics)
	if err != nil {
		sugar.Fatalw("failed to build engine", "error", err)
	}

	srv := server.New(engine, metrics, cfg.Server.AuthToken, sugar)
	r := srv.SetupRouter()

	sugar.Infow("starting server", "port", cfg.Server.Port, "store", cfg.Store.Backend, "provider", cfg.LLM.Provider)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		sugar.Fatalw("server exited", "error", err)
	}
}
