package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/database"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/seeder"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	var (
		dataDir       = pflag.String("data", "", "Directory with countryInfo.txt, admin1CodesASCII.txt and cities1000.{txt,zip}")
		migrationsDir = pflag.String("migrations", "", "Migrations directory (default: embedded)")
		minPopulation = pflag.Int("min-population", -1, "Skip cities below this population (default from SEEDER_MIN_POPULATION)")
		noProgress    = pflag.Bool("no-progress", false, "Disable the progress bar")
	)
	pflag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if *dataDir != "" {
		cfg.Seeder.DataDir = *dataDir
	}
	if *minPopulation >= 0 {
		cfg.Seeder.MinPopulation = *minPopulation
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	// Schema must exist before importing, in particular for in-memory databases
	if err := database.RunMigrations(db, cfg.DB, *migrationsDir); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db, cfg.DB.Type)
	im := &seeder.Importer{
		Parser:    seeder.NewParser(cfg.Seeder.DataDir, cfg.Seeder),
		Countries: repos.Country,
		Cities:    repos.City,
		Logger:    logger,
	}
	if !*noProgress && isatty.IsTerminal(os.Stderr.Fd()) {
		im.WrapCities = func(r io.Reader, size int64) io.Reader {
			bar := progressbar.NewOptions64(size,
				progressbar.OptionSetDescription("Importing cities"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowBytes(true),
				progressbar.OptionClearOnFinish(),
			)
			return io.TeeReader(r, bar)
		}
	}

	logger.Info("Starting data import...", zap.String("data_dir", cfg.Seeder.DataDir))
	res, err := im.Run(ctx)
	if err != nil {
		logger.Fatal("Data import failed", zap.Error(err))
	}

	logger.Info("Data import completed successfully!",
		zap.Int("countries", res.Countries),
		zap.Int("admin1", res.Admin1),
		zap.Int("cities", res.Cities),
	)
}
