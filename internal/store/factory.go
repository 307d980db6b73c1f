package store

import (
	"context"
	"fmt"

	"github.com/agenthands/catena/internal/config"
)

// Open builds the configured EventStore backend.
func Open(ctx context.Context, cfg config.StoreConfig) (EventStore, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return OpenSQLite(cfg.Path)
	case "memgraph":
		return OpenMemgraph(ctx, cfg.URI, cfg.User, cfg.Password)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Backend)
	}
}
