package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"go.uber.org/zap"
)

const (
	defaultLimit          = 5
	defaultMinQueryLength = 2
)

// SearchCities returns geocoding candidates for a query
func (s *Service) SearchCities(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(query) < s.minQueryLength {
		return nil, fmt.Errorf("%w: must be at least %d characters", model.ErrQueryTooShort, s.minQueryLength)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results, err := s.geocoder.Search(ctx, query)
	if err != nil {
		s.logger.Warn("city search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to search cities: %w", err)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []model.CityCandidate{}
	}

	return &model.SearchResponse{Results: results}, nil
}

// FindNearestCity finds the closest gazetteer city to the given coordinates
func (s *Service) FindNearestCity(ctx context.Context, lat, lon float64) (*model.NearestCityResponse, error) {
	if err := model.ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}

	city, dist, err := s.cityRepo.FindNearestCity(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("failed to find nearest city: %w", err)
	}
	if city == nil {
		return nil, nil
	}

	return &model.NearestCityResponse{
		City:               *city,
		RequestCoordinates: model.Coordinate{Lat: lat, Lon: lon},
		DistanceKm:         dist,
	}, nil
}
