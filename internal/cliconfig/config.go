package cliconfig

import (
	"fmt"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Defaults adjusts the server defaults for a terminal session: the location
// record goes to a file under the state dir and the permission is asked for.
// Values coming from the environment are left alone.
func Defaults(cfg *config.Config, lookupEnv func(string) (string, bool)) {
	if _, ok := lookupEnv("LOCATION_STORE"); !ok {
		cfg.Location.Store = "file"
	}
	if _, ok := lookupEnv("LOCATION_PERMISSION"); !ok {
		cfg.Location.Permission = "prompt"
	}
}

// Validate checks values the file or flags may have broken
func Validate(cfg *config.Config) error {
	switch cfg.DB.Type {
	case config.DBTypeMemory, config.DBTypeSQLite, config.DBTypePostgreSQL:
	default:
		return fmt.Errorf("unknown db type %q", cfg.DB.Type)
	}
	switch cfg.Location.Store {
	case "db", "file":
	default:
		return fmt.Errorf("unknown location store %q", cfg.Location.Store)
	}
	if cfg.Search.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}
	if cfg.Search.MinQueryLength <= 0 {
		return fmt.Errorf("min query length must be positive")
	}
	return nil
}

// Logger returns a console logger on stderr; below warn only when verbose
func Logger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.DisableStacktrace = true
	return zc.Build()
}

// configSetter applies configuration values while respecting flag and
// environment precedence.
type configSetter struct {
	changed   map[string]bool
	lookupEnv func(string) (string, bool)
}

func (s *configSetter) overridden(flag, env string) bool {
	if s.changed[flag] {
		return true
	}
	_, ok := s.lookupEnv(env)
	return ok
}

func (s *configSetter) setString(flag, env, value string, dst *string) {
	if value == "" || s.overridden(flag, env) {
		return
	}
	*dst = value
}

func (s *configSetter) setInt(flag, env string, value int, dst *int) {
	if value <= 0 || s.overridden(flag, env) {
		return
	}
	*dst = value
}

// setFloat treats zero as unset
func (s *configSetter) setFloat(flag, env string, value float64, dst *float64) {
	if value == 0 || s.overridden(flag, env) {
		return
	}
	*dst = value
}

func (s *configSetter) setDuration(flag, env, value string, dst *time.Duration) error {
	if value == "" || s.overridden(flag, env) {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}
