// Package seeder reads GeoNames dumps into gazetteer rows.
package seeder

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
)

const (
	countriesFile = "countryInfo.txt"
	admin1File    = "admin1CodesASCII.txt"
	citiesFile    = "cities1000.txt"
	citiesZip     = "cities1000.zip"
)

// Parser parses GeoNames data files
type Parser struct {
	dataDir       string
	batchSize     int
	minPopulation int
}

// NewParser creates a new parser instance with config
func NewParser(dataDir string, seederCfg config.SeederConfig) *Parser {
	batchSize := seederCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 10000
	}
	return &Parser{
		dataDir:       dataDir,
		batchSize:     batchSize,
		minPopulation: seederCfg.MinPopulation,
	}
}

// ParseCountries parses countryInfo.txt
func (p *Parser) ParseCountries() ([]model.Country, error) {
	var countries []model.Country
	err := p.scanFile(countriesFile, func(parts []string) {
		if len(parts) < 5 {
			return
		}
		code, name := parts[0], parts[4]
		if code != "" && name != "" {
			countries = append(countries, model.Country{Code: code, NameDefault: name})
		}
	})
	return countries, err
}

// ParseAdmin1 parses admin1CodesASCII.txt; lines look like "GB.ENG<TAB>England<TAB>..."
func (p *Parser) ParseAdmin1() ([]model.Admin1, error) {
	var codes []model.Admin1
	err := p.scanFile(admin1File, func(parts []string) {
		if len(parts) < 2 || !strings.Contains(parts[0], ".") || parts[1] == "" {
			return
		}
		codes = append(codes, model.Admin1{Code: parts[0], Name: parts[1]})
	})
	return codes, err
}

func (p *Parser) scanFile(name string, fn func(parts []string)) error {
	file, err := os.Open(filepath.Join(p.dataDir, name))
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to scan %s: %w", name, err)
	}
	return nil
}

// OpenCities opens the cities dump, preferring cities1000.zip over the plain
// text file. size is the uncompressed length when known, otherwise -1.
func (p *Parser) OpenCities() (rc io.ReadCloser, size int64, err error) {
	zipPath := filepath.Join(p.dataDir, citiesZip)
	if _, err := os.Stat(zipPath); err == nil {
		return openZipText(zipPath)
	}

	file, err := os.Open(filepath.Join(p.dataDir, citiesFile))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", citiesFile, err)
	}
	size = -1
	if info, err := file.Stat(); err == nil {
		size = info.Size()
	}
	return file, size, nil
}

type zipEntry struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (z zipEntry) Close() error {
	z.ReadCloser.Close()
	return z.archive.Close()
}

func openZipText(path string) (io.ReadCloser, int64, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open zip: %w", err)
	}
	for _, f := range r.File {
		if !strings.HasSuffix(f.Name, ".txt") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			r.Close()
			return nil, 0, fmt.Errorf("failed to open file in zip: %w", err)
		}
		return zipEntry{ReadCloser: rc, archive: r}, int64(f.UncompressedSize64), nil
	}
	r.Close()
	return nil, 0, fmt.Errorf("no txt file found in %s", path)
}

// ProcessCities streams city rows from reader and hands them to fn in
// batches. Rows below the minimum population or with unparsable columns are
// skipped. It returns the number of accepted rows.
func (p *Parser) ProcessCities(reader io.Reader, fn func(batch []model.GazetteerCity) error) (int, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	batch := make([]model.GazetteerCity, 0, p.batchSize)
	total := 0
	for scanner.Scan() {
		city, ok := p.parseCity(scanner.Text())
		if !ok {
			continue
		}
		batch = append(batch, city)
		total++

		if len(batch) >= p.batchSize {
			if err := fn(batch); err != nil {
				return total, fmt.Errorf("city callback error: %w", err)
			}
			batch = make([]model.GazetteerCity, 0, p.batchSize)
		}
	}
	if err := scanner.Err(); err != nil {
		return total, fmt.Errorf("failed to scan cities: %w", err)
	}

	if len(batch) > 0 {
		if err := fn(batch); err != nil {
			return total, fmt.Errorf("city callback error: %w", err)
		}
	}
	return total, nil
}

// parseCity reads one line of the GeoNames "geoname" table:
// 0 id, 1 name, 4 lat, 5 lon, 8 country, 10 admin1, 14 population, 17 timezone
func (p *Parser) parseCity(line string) (model.GazetteerCity, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 18 {
		return model.GazetteerCity{}, false
	}

	id, err := strconv.Atoi(parts[0])
	if err != nil {
		return model.GazetteerCity{}, false
	}
	population, err := strconv.Atoi(parts[14])
	if err != nil || population < p.minPopulation {
		return model.GazetteerCity{}, false
	}
	lat, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return model.GazetteerCity{}, false
	}
	lon, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return model.GazetteerCity{}, false
	}
	if parts[1] == "" || model.ValidateCoordinates(lat, lon) != nil {
		return model.GazetteerCity{}, false
	}

	var timezone *string
	if parts[17] != "" {
		tz := parts[17]
		timezone = &tz
	}

	return model.GazetteerCity{
		ID:          id,
		CountryCode: parts[8],
		Admin1Code:  parts[10],
		NameDefault: parts[1],
		Population:  population,
		Lat:         lat,
		Lon:         lon,
		Timezone:    timezone,
	}, true
}
