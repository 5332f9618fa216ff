package repository

import (
	"context"
	"math"
	"strings"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/jmoiron/sqlx"
)

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// candidateColumns selects a gazetteer row in the shape of a search candidate
const candidateColumns = `
	c.id,
	c.name_default AS name,
	c.lat AS latitude,
	c.lon AS longitude,
	COALESCE(cnt.name_default, c.country_code) AS country,
	c.country_code,
	COALESCE(a.name, '') AS admin1,
	'' AS admin2,
	COALESCE(c.timezone, '') AS timezone,
	c.population
`

const candidateJoins = `
	FROM cities c
	LEFT JOIN countries cnt ON cnt.code = c.country_code
	LEFT JOIN admin1_codes a ON a.code = c.country_code || '.' || c.admin1_code
`

type sqlCityRepository struct {
	db      *sqlx.DB
	dialect dialect
}

// likeEscaper quotes LIKE wildcards so they match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchCities returns the most populous cities whose folded name starts with query
func (r *sqlCityRepository) SearchCities(ctx context.Context, query string, limit int) ([]model.CityCandidate, error) {
	q := `SELECT ` + candidateColumns + candidateJoins + `
		WHERE c.name_folded LIKE ? ESCAPE '\'
		ORDER BY c.population DESC, c.id
		LIMIT ?
	`
	results := []model.CityCandidate{}
	if err := r.db.SelectContext(ctx, &results, r.db.Rebind(q), likeEscaper.Replace(FoldName(query))+"%", limit); err != nil {
		return nil, err
	}
	return results, nil
}

// FindNearestCity scans a bounding box first and falls back to a full scan
func (r *sqlCityRepository) FindNearestCity(ctx context.Context, lat, lon float64) (*model.CityCandidate, float64, error) {
	delta := 2.0
	q := `SELECT ` + candidateColumns + candidateJoins + `
		WHERE c.lat BETWEEN ? AND ? AND c.lon BETWEEN ? AND ?
	`
	var candidates []model.CityCandidate
	err := r.db.SelectContext(ctx, &candidates, r.db.Rebind(q), lat-delta, lat+delta, lon-delta, lon+delta)
	if err != nil {
		return nil, 0, err
	}

	if len(candidates) == 0 {
		if err := r.db.SelectContext(ctx, &candidates, `SELECT `+candidateColumns+candidateJoins); err != nil {
			return nil, 0, err
		}
	}

	var nearest *model.CityCandidate
	minDist := math.MaxFloat64
	for i := range candidates {
		dist := calculateDistance(lat, lon, candidates[i].Latitude, candidates[i].Longitude)
		if dist < minDist {
			minDist = dist
			nearest = &candidates[i]
		}
	}

	if nearest == nil {
		return nil, 0, nil
	}
	return nearest, minDist, nil
}

func (r *sqlCityRepository) BulkInsertCities(ctx context.Context, cities []model.GazetteerCity) error {
	// 100 rows * 9 params stays under SQLite's variable limit
	chunkSize := 100
	insert, suffix := "INSERT OR IGNORE", ""
	if r.dialect == dialectPostgres {
		insert, suffix = "INSERT", " ON CONFLICT (id) DO NOTHING"
	}
	q := insert + ` INTO cities (id, country_code, admin1_code, name_default, name_folded, population, lat, lon, timezone)
		VALUES (:id, :country_code, :admin1_code, :name_default, :name_folded, :population, :lat, :lon, :timezone)` + suffix

	for i := 0; i < len(cities); i += chunkSize {
		end := i + chunkSize
		if end > len(cities) {
			end = len(cities)
		}
		batch := cities[i:end]
		for j := range batch {
			if batch[j].NameFolded == "" {
				batch[j].NameFolded = FoldName(batch[j].NameDefault)
			}
		}

		if _, err := r.db.NamedExecContext(ctx, q, batch); err != nil {
			return err
		}
	}
	return nil
}

type sqlCountryRepository struct {
	db *sqlx.DB
}

func (r *sqlCountryRepository) BulkInsertCountries(ctx context.Context, countries []model.Country) error {
	if len(countries) == 0 {
		return nil
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO countries (code, name_default)
		VALUES (:code, :name_default)
		ON CONFLICT (code) DO UPDATE SET name_default = excluded.name_default`,
		countries)
	return err
}

func (r *sqlCountryRepository) BulkInsertAdmin1(ctx context.Context, codes []model.Admin1) error {
	chunkSize := 500
	for i := 0; i < len(codes); i += chunkSize {
		end := i + chunkSize
		if end > len(codes) {
			end = len(codes)
		}
		_, err := r.db.NamedExecContext(ctx, `
			INSERT INTO admin1_codes (code, name)
			VALUES (:code, :name)
			ON CONFLICT (code) DO UPDATE SET name = excluded.name`,
			codes[i:end])
		if err != nil {
			return err
		}
	}
	return nil
}

// calculateDistance returns the haversine distance in kilometres
func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)
	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}
