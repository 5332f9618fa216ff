// Package bootstrap assembles the database, location resolver, upstream
// clients and service from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/database"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/forecast"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/location"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/seeder"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/service"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/stats"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Options tune how the stack is built
type Options struct {
	// MigrationsDir holds the sqlite and postgres migration folders; empty
	// uses the migrations compiled into the binary
	MigrationsDir string
	// Gate replaces the permission gate selected by the config
	Gate location.PermissionGate
	// AutoSeed imports the gazetteer from Seeder.DataDir when it is empty
	AutoSeed bool
}

// Stack is the wired application
type Stack struct {
	DB       *sqlx.DB
	Repos    *repository.Container
	Resolver *location.Resolver
	Geocoder geocoding.Geocoder
	Service  *service.Service
	Stats    *stats.Collector
}

// New connects to the database, applies migrations and wires every
// component. The resolver is created but not started.
func New(ctx context.Context, cfg *config.Config, opts Options, logger *zap.Logger) (*Stack, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.RunMigrations(db, cfg.DB, opts.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)

	if opts.AutoSeed {
		autoSeed(ctx, db, repos, cfg.Seeder, logger)
	}

	resolver, err := newResolver(cfg.Location, repos, opts.Gate, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	geocoder, err := newGeocoder(cfg.Geocoding, repos, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	svc := service.NewService(
		resolver,
		geocoder,
		forecast.NewClient(cfg.Weather, logger),
		repos.City,
		cfg.Search.MinQueryLength,
		logger,
	)

	return &Stack{
		DB:       db,
		Repos:    repos,
		Resolver: resolver,
		Geocoder: geocoder,
		Service:  svc,
		Stats:    stats.NewCollector(db, cfg.DB).WithLocation(resolver),
	}, nil
}

// Close releases the database connection
func (s *Stack) Close() error {
	return s.DB.Close()
}

// KVStore selects where the location record lives: the database or a JSON
// file under cfg.StateDir
func KVStore(cfg config.LocationConfig, repos *repository.Container) repository.KVRepository {
	if cfg.Store == "file" {
		return repository.NewFileKVRepository(cfg.StateDir)
	}
	return repos.KV
}

func newResolver(cfg config.LocationConfig, repos *repository.Container, gate location.PermissionGate, logger *zap.Logger) (*location.Resolver, error) {
	if gate == nil {
		var err error
		if gate, err = location.NewGate(cfg.Permission); err != nil {
			return nil, err
		}
	}
	geo, err := location.NewGeolocator(cfg, logger)
	if err != nil {
		return nil, err
	}
	store := location.NewRecordStore(KVStore(cfg, repos))
	return location.NewResolver(store, gate, geo, location.OptionsFromConfig(cfg), logger), nil
}

func newGeocoder(cfg config.GeocodingConfig, repos *repository.Container, logger *zap.Logger) (geocoding.Geocoder, error) {
	switch cfg.Provider {
	case config.GeocoderOpenMeteo, "":
		return geocoding.NewOpenMeteoClient(cfg, logger), nil
	case config.GeocoderLocal:
		return geocoding.NewLocalGeocoder(repos.City, cfg.Count), nil
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}
}

// autoSeed imports the gazetteer when it is empty. Failures are logged; the
// gazetteer is optional.
func autoSeed(ctx context.Context, db *sqlx.DB, repos *repository.Container, cfg config.SeederConfig, logger *zap.Logger) {
	isEmpty, err := repository.IsGazetteerEmpty(ctx, db)
	if err != nil {
		logger.Warn("Failed to check if gazetteer is empty", zap.Error(err))
		return
	}
	if !isEmpty {
		return
	}

	logger.Info("Gazetteer is empty, auto-seeding data...", zap.String("data_dir", cfg.DataDir))
	im := &seeder.Importer{
		Parser:    seeder.NewParser(cfg.DataDir, cfg),
		Countries: repos.Country,
		Cities:    repos.City,
		Logger:    logger,
	}
	if _, err := im.Run(ctx); err != nil {
		logger.Warn("Auto-seeding skipped", zap.Error(err))
	}
}
