package bootstrap

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/location"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		DB: config.DBConfig{Type: config.DBTypeMemory, Name: fmt.Sprintf("testdb_%d", rand.Int63())},
		Geocoding: config.GeocodingConfig{
			Provider: config.GeocoderLocal,
			Count:    5,
		},
		Location: config.LocationConfig{
			Permission: "granted",
			Geolocator: "static",
			StaticLat:  52.52,
			StaticLon:  13.405,
			Store:      "db",
			StateDir:   t.TempDir(),
		},
		Search: config.SearchConfig{MinQueryLength: 2},
		Seeder: config.SeederConfig{DataDir: t.TempDir()},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	stack, err := New(ctx, cfg, Options{MigrationsDir: "../../migrations", AutoSeed: true}, nil)
	require.NoError(t, err)
	defer stack.Close()

	assert.IsType(t, &geocoding.LocalGeocoder{}, stack.Geocoder)
	assert.Equal(t, model.Loading{}, stack.Resolver.State())

	st := stack.Resolver.Start(ctx)
	assert.Equal(t, model.Coords{Lat: 52.52, Lon: 13.405}, st)

	raw, ok, err := stack.Repos.KV.Get(ctx, model.LastLocationKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "52.52")

	s, err := stack.Stats.Collect(ctx)
	require.NoError(t, err)
	assert.False(t, s.Database.GazetteerLoaded)
	assert.Equal(t, "coords", s.Location.Status)
}

func TestNew_GateOverride(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	stack, err := New(ctx, cfg, Options{
		MigrationsDir: "../../migrations",
		Gate:          location.ConfigGate{Result: location.PermissionDenied},
	}, nil)
	require.NoError(t, err)
	defer stack.Close()

	assert.Equal(t, model.Denied{}, stack.Resolver.Start(ctx))
}

func TestNew_InvalidSelections(t *testing.T) {
	ctx := context.Background()

	t.Run("permission mode", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Location.Permission = "sometimes"
		_, err := New(ctx, cfg, Options{MigrationsDir: "../../migrations"}, nil)
		assert.ErrorContains(t, err, "unknown permission mode")
	})

	t.Run("geolocator", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Location.Geolocator = "gps"
		_, err := New(ctx, cfg, Options{MigrationsDir: "../../migrations"}, nil)
		assert.ErrorContains(t, err, "unknown geolocator")
	})

	t.Run("geocoder", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Geocoding.Provider = "nominatim"
		_, err := New(ctx, cfg, Options{MigrationsDir: "../../migrations"}, nil)
		assert.ErrorContains(t, err, "unknown geocoder provider")
	})
}

func TestKVStore(t *testing.T) {
	dir := t.TempDir()
	repos := &repository.Container{}

	file := KVStore(config.LocationConfig{Store: "file", StateDir: dir}, repos)
	require.IsType(t, &repository.FileKVRepository{}, file)
	assert.Equal(t, dir, filepath.Dir(file.(*repository.FileKVRepository).Path()))

	assert.Nil(t, KVStore(config.LocationConfig{Store: "db"}, repos))
}
