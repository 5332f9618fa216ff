package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

func dialectDir(cfg config.DBConfig) string {
	if cfg.IsSQLite() {
		return "sqlite"
	}
	return "postgres"
}

// MigrationsPath returns the source URL for the dialect's migrations below
// dir. An empty dir names the migrations compiled into the binary.
func MigrationsPath(dir string, cfg config.DBConfig) string {
	if dir == "" {
		return "embedded://" + dialectDir(cfg)
	}
	return "file://" + strings.TrimRight(dir, "/") + "/" + dialectDir(cfg)
}

// NewMigrate builds a migrate instance on top of an open connection.
// Using the driver instance avoids DSN parsing issues with in-memory SQLite.
// An empty dir uses the embedded migrations.
func NewMigrate(db *sqlx.DB, cfg config.DBConfig, dir string) (*migrate.Migrate, error) {
	var (
		driver migratedb.Driver
		name   string
		err    error
	)

	if cfg.IsSQLite() {
		name = "sqlite3"
		driver, err = sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	} else {
		name = "postgres"
		driver, err = postgres.WithInstance(db.DB, &postgres.Config{})
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", name, err)
	}

	var m *migrate.Migrate
	if dir == "" {
		src, srcErr := iofs.New(migrations.FS, dialectDir(cfg))
		if srcErr != nil {
			return nil, fmt.Errorf("could not open embedded migrations: %w", srcErr)
		}
		m, err = migrate.NewWithInstance("iofs", src, name, driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance(MigrationsPath(dir, cfg), name, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("could not create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending up migrations
func RunMigrations(db *sqlx.DB, cfg config.DBConfig, dir string) error {
	m, err := NewMigrate(db, cfg, dir)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}
