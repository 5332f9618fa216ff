//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/database"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKVKey = "integration_test_location"

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupPostgres connects to a running PostgreSQL instance and applies the
// embedded migrations
func setupPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := config.DBConfig{
		Type:     config.DBTypePostgreSQL,
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "5432"),
		User:     envOr("TEST_DB_USER", "skyscout"),
		Password: envOr("TEST_DB_PASSWORD", "skyscout_password"),
		Name:     envOr("TEST_DB_NAME", "skyscout_test"),
		SSLMode:  "disable",
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.RunMigrations(db, cfg, ""))
	return db
}

func TestPostgresRepositories_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupPostgres(t)
	repos := NewRepositories(db, config.DBTypePostgreSQL)
	ctx := context.Background()

	ids := []int{990000001, 990000002}
	t.Cleanup(func() {
		q, args, _ := sqlx.In("DELETE FROM cities WHERE id IN (?)", ids)
		db.Exec(db.Rebind(q), args...)
		db.Exec(db.Rebind("DELETE FROM kv_store WHERE key = ?"), testKVKey)
	})

	require.NoError(t, repos.Country.BulkInsertCountries(ctx, []model.Country{{Code: "IS", NameDefault: "Iceland"}}))
	require.NoError(t, repos.Country.BulkInsertAdmin1(ctx, []model.Admin1{{Code: "IS.39", Name: "Capital Region"}}))
	require.NoError(t, repos.City.BulkInsertCities(ctx, []model.GazetteerCity{
		{ID: ids[0], CountryCode: "IS", Admin1Code: "39", NameDefault: "Reykjavíkurhöfn", Population: 900000000, Lat: 64.1500, Lon: -21.9333},
		{ID: ids[1], CountryCode: "IS", Admin1Code: "39", NameDefault: "Reykjavíkurborg", Population: 800000000, Lat: 64.1355, Lon: -21.8954},
	}))

	t.Run("SearchCities folds diacritics", func(t *testing.T) {
		results, err := repos.City.SearchCities(ctx, "reykjavikur", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, ids[0], results[0].ID)
		assert.Equal(t, "Reykjavíkurhöfn, Capital Region, Iceland", results[0].Label())
	})

	t.Run("FindNearestCity", func(t *testing.T) {
		city, dist, err := repos.City.FindNearestCity(ctx, 64.1356, -21.8955)
		require.NoError(t, err)
		require.NotNil(t, city)
		assert.Equal(t, ids[1], city.ID)
		assert.Less(t, dist, 1.0)
	})

	t.Run("KV upsert", func(t *testing.T) {
		require.NoError(t, repos.KV.Set(ctx, testKVKey, `{"lat":1,"lon":2}`))
		require.NoError(t, repos.KV.Set(ctx, testKVKey, `{"lat":3,"lon":4}`))

		value, ok, err := repos.KV.Get(ctx, testKVKey)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `{"lat":3,"lon":4}`, value)
	})
}
