// Package cliconfig layers the terminal client's TOML file between the
// built-in defaults and environment variables.
package cliconfig

import (
	"os"
	"path/filepath"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors the configurable part of config.Config; durations are
// strings to keep the TOML friendly.
type FileConfig struct {
	DBType         string  `toml:"db_type"`
	DBPath         string  `toml:"db_path"`
	Geocoder       string  `toml:"geocoder"`
	Language       string  `toml:"language"`
	Platform       string  `toml:"platform"`
	Permission     string  `toml:"permission"`
	Geolocator     string  `toml:"geolocator"`
	StaticLat      float64 `toml:"static_lat"`
	StaticLon      float64 `toml:"static_lon"`
	FixTimeout     string  `toml:"fix_timeout"`
	RecordMaxAge   string  `toml:"record_max_age"`
	Store          string  `toml:"store"`
	StateDir       string  `toml:"state_dir"`
	Debounce       string  `toml:"debounce"`
	MinQueryLength int     `toml:"min_query_length"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.skyscout/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".skyscout", "config.toml")
	}
	return ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// ApplyFileConfig copies file values into cfg. A value is skipped when its
// flag was set on the command line (changed) or its environment variable is
// present (lookupEnv), so the result honours flags > env > file > defaults.
func ApplyFileConfig(cfg *config.Config, fc FileConfig, changed map[string]bool, lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	s := &configSetter{changed: changed, lookupEnv: lookupEnv}

	var dbType string
	s.setString("db-type", "DB_TYPE", fc.DBType, &dbType)
	if dbType != "" {
		cfg.DB.Type = config.DBType(dbType)
	}
	s.setString("db-path", "DB_PATH", fc.DBPath, &cfg.DB.Path)

	var provider string
	s.setString("geocoder", "GEOCODER_PROVIDER", fc.Geocoder, &provider)
	if provider != "" {
		cfg.Geocoding.Provider = config.GeocoderProvider(provider)
	}
	s.setString("language", "GEOCODING_LANGUAGE", fc.Language, &cfg.Geocoding.Language)

	s.setString("platform", "LOCATION_PLATFORM", fc.Platform, &cfg.Location.Platform)
	s.setString("permission", "LOCATION_PERMISSION", fc.Permission, &cfg.Location.Permission)
	s.setString("geolocator", "LOCATION_GEOLOCATOR", fc.Geolocator, &cfg.Location.Geolocator)
	s.setFloat("lat", "LOCATION_STATIC_LAT", fc.StaticLat, &cfg.Location.StaticLat)
	s.setFloat("lon", "LOCATION_STATIC_LON", fc.StaticLon, &cfg.Location.StaticLon)
	s.setString("store", "LOCATION_STORE", fc.Store, &cfg.Location.Store)
	s.setString("state-dir", "LOCATION_STATE_DIR", fc.StateDir, &cfg.Location.StateDir)
	if err := s.setDuration("fix-timeout", "LOCATION_FIX_TIMEOUT", fc.FixTimeout, &cfg.Location.FixTimeout); err != nil {
		return err
	}
	if err := s.setDuration("record-max-age", "LOCATION_RECORD_MAX_AGE", fc.RecordMaxAge, &cfg.Location.RecordMaxAge); err != nil {
		return err
	}

	if err := s.setDuration("debounce", "SEARCH_DEBOUNCE", fc.Debounce, &cfg.Search.Debounce); err != nil {
		return err
	}
	s.setInt("min-length", "SEARCH_MIN_QUERY_LENGTH", fc.MinQueryLength, &cfg.Search.MinQueryLength)

	return nil
}
