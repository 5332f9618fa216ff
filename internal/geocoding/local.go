package geocoding

import (
	"context"
	"fmt"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
)

// LocalGeocoder searches the GeoNames gazetteer imported by the seeder
type LocalGeocoder struct {
	repo  repository.CityRepository
	limit int
}

// NewLocalGeocoder creates a geocoder returning at most limit candidates
func NewLocalGeocoder(repo repository.CityRepository, limit int) *LocalGeocoder {
	if limit <= 0 {
		limit = 5
	}
	return &LocalGeocoder{repo: repo, limit: limit}
}

func (g *LocalGeocoder) Search(ctx context.Context, query string) ([]model.CityCandidate, error) {
	results, err := g.repo.SearchCities(ctx, query, g.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search gazetteer: %w", err)
	}
	return results, nil
}
