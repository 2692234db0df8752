package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/passiton/backend/internal/config"
	"github.com/passiton/backend/internal/db"
	"github.com/passiton/backend/internal/store"
	"github.com/passiton/backend/internal/store/memory"
	"github.com/passiton/backend/internal/store/mongodb"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendMongo    backend = "mongodb"
	backendPostgres backend = "postgres"
)

// storeBackend picks the store from the DATABASE_URL scheme. Without a URL,
// PG* settings select PostgreSQL and anything else stays in memory.
func storeBackend(c config.StoreConfig) (backend, error) {
	raw := strings.TrimSpace(c.DatabaseURL)
	if raw == "" || raw == "memory" || strings.HasPrefix(raw, "memory:") {
		if raw == "" && c.Postgres.User != "" && c.Postgres.Database != "" {
			return backendPostgres, nil
		}
		return backendMemory, nil
	}

	scheme, _, ok := strings.Cut(raw, "://")
	if !ok {
		return "", fmt.Errorf("DATABASE_URL has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return backendMongo, nil
	case "postgres", "postgresql":
		return backendPostgres, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}

func openStore(ctx context.Context, c config.StoreConfig, migrate bool) (store.Store, error) {
	kind, err := storeBackend(c)
	if err != nil {
		return nil, err
	}

	switch kind {
	case backendMongo:
		ms, err := mongodb.Connect(ctx, c.DatabaseURL, c.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	case backendPostgres:
		pool, err := db.NewPostgresPool(ctx, c)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := db.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return db.New(pool), nil
	default:
		logger.Warn("no database configured; using the in-memory store")
		return memory.New(), nil
	}
}
