package kv

import (
	"context"
	"fmt"

	"github.com/erazemk/pressing/internal/db"
)

// Open returns the backing store for a deployment: Redis when redisURL is
// set, otherwise the SQLite database at dbPath (created if missing).
func Open(ctx context.Context, dbPath, redisURL, namespace string) (Store, error) {
	if redisURL != "" {
		return DialRedis(ctx, redisURL, namespace)
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return NewSQLite(database), nil
}
