package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func baseConfig() config.Config {
	return config.Config{
		DB:        config.DBConfig{Type: config.DBTypeMemory},
		Geocoding: config.GeocodingConfig{Provider: config.GeocoderOpenMeteo, Language: "en"},
		Location: config.LocationConfig{
			Permission: "granted",
			Geolocator: "ip",
			Store:      "db",
			FixTimeout: 15 * time.Second,
		},
		Search: config.SearchConfig{Debounce: 500 * time.Millisecond, MinQueryLength: 2},
	}
}

func TestApplyFileConfig(t *testing.T) {
	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		env        map[string]string
		check      func(t *testing.T, cfg config.Config)
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				DBType:         "sqlite",
				DBPath:         "/tmp/skyscout.db",
				Geocoder:       "local",
				Language:       "de",
				Platform:       "ios",
				Permission:     "denied",
				Geolocator:     "static",
				StaticLat:      52.52,
				StaticLon:      13.405,
				FixTimeout:     "5s",
				RecordMaxAge:   "24h",
				Store:          "file",
				StateDir:       "/state",
				Debounce:       "250ms",
				MinQueryLength: 3,
			},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, config.DBTypeSQLite, cfg.DB.Type)
				assert.Equal(t, "/tmp/skyscout.db", cfg.DB.Path)
				assert.Equal(t, config.GeocoderLocal, cfg.Geocoding.Provider)
				assert.Equal(t, "de", cfg.Geocoding.Language)
				assert.Equal(t, "ios", cfg.Location.Platform)
				assert.Equal(t, "denied", cfg.Location.Permission)
				assert.Equal(t, "static", cfg.Location.Geolocator)
				assert.Equal(t, 52.52, cfg.Location.StaticLat)
				assert.Equal(t, 13.405, cfg.Location.StaticLon)
				assert.Equal(t, 5*time.Second, cfg.Location.FixTimeout)
				assert.Equal(t, 24*time.Hour, cfg.Location.RecordMaxAge)
				assert.Equal(t, "file", cfg.Location.Store)
				assert.Equal(t, "/state", cfg.Location.StateDir)
				assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
				assert.Equal(t, 3, cfg.Search.MinQueryLength)
			},
		},
		{
			name:       "respects changed flags",
			fileConfig: FileConfig{Permission: "denied", Geolocator: "static"},
			changed:    map[string]bool{"permission": true},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, "granted", cfg.Location.Permission)
				assert.Equal(t, "static", cfg.Location.Geolocator)
			},
		},
		{
			name:       "environment beats the file",
			fileConfig: FileConfig{Debounce: "1s", Store: "file"},
			env:        map[string]string{"SEARCH_DEBOUNCE": "100ms"},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
				assert.Equal(t, "file", cfg.Location.Store)
			},
		},
		{
			name:       "empty values keep defaults",
			fileConfig: FileConfig{},
			check: func(t *testing.T, cfg config.Config) {
				assert.Equal(t, baseConfig(), cfg)
			},
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{Debounce: "soon"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed, envMap(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
db_type = "sqlite"
geocoder = "local"
permission = "prompt"
static_lat = 48.85
static_lon = 2.35
debounce = "300ms"
min_query_length = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.True(t, FileExists(path))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, FileConfig{
		DBType:         "sqlite",
		Geocoder:       "local",
		Permission:     "prompt",
		StaticLat:      48.85,
		StaticLon:      2.35,
		Debounce:       "300ms",
		MinQueryLength: 3,
	}, fc)

	t.Run("malformed", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(bad, []byte("db_type = "), 0644))
		_, err := LoadFileConfig(bad)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		assert.False(t, FileExists(filepath.Join(t.TempDir(), "nope.toml")))
	})
}

func TestDefaultsAndValidate(t *testing.T) {
	cfg := baseConfig()
	Defaults(&cfg, envMap(map[string]string{"LOCATION_PERMISSION": "granted"}))
	assert.Equal(t, "file", cfg.Location.Store)
	assert.Equal(t, "granted", cfg.Location.Permission)
	require.NoError(t, Validate(&cfg))

	cfg.Location.Store = "cloud"
	assert.ErrorContains(t, Validate(&cfg), "unknown location store")

	cfg = baseConfig()
	cfg.DB.Type = "oracle"
	assert.ErrorContains(t, Validate(&cfg), "unknown db type")

	cfg = baseConfig()
	cfg.Search.MinQueryLength = 0
	assert.Error(t, Validate(&cfg))
}

func TestLogger(t *testing.T) {
	quiet, err := Logger(false)
	require.NoError(t, err)
	assert.False(t, quiet.Core().Enabled(zapcore.DebugLevel))

	verbose, err := Logger(true)
	require.NoError(t, err)
	assert.True(t, verbose.Core().Enabled(zapcore.DebugLevel))
}
