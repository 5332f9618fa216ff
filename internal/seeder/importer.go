package seeder

import (
	"context"
	"fmt"
	"io"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"go.uber.org/zap"
)

// Result summarises an import run
type Result struct {
	Countries int
	Admin1    int
	Cities    int
}

// Importer loads the GeoNames dumps into the gazetteer tables
type Importer struct {
	Parser    *Parser
	Countries repository.CountryRepository
	Cities    repository.CityRepository
	Logger    *zap.Logger
	// WrapCities may wrap the cities stream, e.g. with a progress bar.
	// size is the stream length or -1.
	WrapCities func(r io.Reader, size int64) io.Reader
}

// Run imports countries, admin1 codes and cities. Existing rows are kept.
func (im *Importer) Run(ctx context.Context) (Result, error) {
	logger := im.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var res Result

	logger.Info("Parsing countries...")
	countries, err := im.Parser.ParseCountries()
	if err != nil {
		return res, fmt.Errorf("failed to parse countries: %w", err)
	}
	if err := im.Countries.BulkInsertCountries(ctx, countries); err != nil {
		return res, fmt.Errorf("failed to insert countries: %w", err)
	}
	res.Countries = len(countries)
	known := make(map[string]bool, len(countries))
	for _, c := range countries {
		known[c.Code] = true
	}

	logger.Info("Parsing admin1 codes...")
	codes, err := im.Parser.ParseAdmin1()
	if err != nil {
		// admin1 names only enrich labels
		logger.Warn("Skipping admin1 codes", zap.Error(err))
	} else {
		if err := im.Countries.BulkInsertAdmin1(ctx, codes); err != nil {
			return res, fmt.Errorf("failed to insert admin1 codes: %w", err)
		}
		res.Admin1 = len(codes)
	}

	logger.Info("Importing cities (streaming mode)...")
	rc, size, err := im.Parser.OpenCities()
	if err != nil {
		return res, err
	}
	defer rc.Close()

	var skipped int
	var reader io.Reader = rc
	if im.WrapCities != nil {
		reader = im.WrapCities(rc, size)
	}

	res.Cities, err = im.Parser.ProcessCities(reader, func(batch []model.GazetteerCity) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		// cities.country_code references countries
		rows := batch[:0]
		for _, c := range batch {
			if known[c.CountryCode] {
				rows = append(rows, c)
			}
		}
		skipped += len(batch) - len(rows)
		return im.Cities.BulkInsertCities(ctx, rows)
	})
	if err != nil {
		return res, fmt.Errorf("failed to import cities: %w", err)
	}
	res.Cities -= skipped
	if skipped > 0 {
		logger.Warn("Skipped cities of unknown countries", zap.Int("count", skipped))
	}

	logger.Info("Data import completed",
		zap.Int("countries", res.Countries),
		zap.Int("admin1", res.Admin1),
		zap.Int("cities", res.Cities),
	)
	return res, nil
}
