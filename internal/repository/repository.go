package repository

import (
	"context"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/jmoiron/sqlx"
)

// KVRepository stores string values by key
type KVRepository interface {
	// Get returns the value and whether the key exists
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CityRepository defines operations on the gazetteer cities
type CityRepository interface {
	SearchCities(ctx context.Context, query string, limit int) ([]model.CityCandidate, error)
	FindNearestCity(ctx context.Context, lat, lon float64) (*model.CityCandidate, float64, error)
	BulkInsertCities(ctx context.Context, cities []model.GazetteerCity) error
}

// CountryRepository defines operations for countries and their subdivisions
type CountryRepository interface {
	BulkInsertCountries(ctx context.Context, countries []model.Country) error
	BulkInsertAdmin1(ctx context.Context, codes []model.Admin1) error
}

// Container holds all repositories
type Container struct {
	KV      KVRepository
	City    CityRepository
	Country CountryRepository
}

// NewRepositories creates repository implementations for the database dialect
func NewRepositories(db *sqlx.DB, dbType config.DBType) *Container {
	d := dialectSQLite
	if dbType == config.DBTypePostgreSQL {
		d = dialectPostgres
	}
	return &Container{
		KV:      &sqlKVRepository{db: db},
		City:    &sqlCityRepository{db: db, dialect: d},
		Country: &sqlCountryRepository{db: db},
	}
}

// IsGazetteerEmpty reports whether no cities have been imported yet
func IsGazetteerEmpty(ctx context.Context, db *sqlx.DB) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM cities"); err != nil {
		// Missing table means migrations have not run
		return true, nil
	}
	return count == 0, nil
}
