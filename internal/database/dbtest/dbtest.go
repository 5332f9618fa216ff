// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Open returns a private in-memory database with all migrations from
// migrationsDir applied. It is closed when the test finishes.
func Open(t testing.TB, migrationsDir string) (*sqlx.DB, config.DBConfig) {
	t.Helper()

	cfg := config.DBConfig{
		Type: config.DBTypeMemory,
		Name: fmt.Sprintf("testdb_%d", rand.Int63()),
	}

	db, err := database.Connect(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db, cfg, migrationsDir))
	return db, cfg
}
