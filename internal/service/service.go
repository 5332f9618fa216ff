package service

import (
	"context"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/location"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"go.uber.org/zap"
)

// Forecaster fetches weather for a position
type Forecaster interface {
	GetForecast(ctx context.Context, lat, lon float64) (*model.Forecast, error)
}

// Service provides business logic for the API
type Service struct {
	resolver       *location.Resolver
	geocoder       geocoding.Geocoder
	forecaster     Forecaster
	cityRepo       repository.CityRepository
	minQueryLength int
	logger         *zap.Logger
}

// NewService creates a new service instance
func NewService(
	resolver *location.Resolver,
	geocoder geocoding.Geocoder,
	forecaster Forecaster,
	cityRepo repository.CityRepository,
	minQueryLength int,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if minQueryLength <= 0 {
		minQueryLength = defaultMinQueryLength
	}
	return &Service{
		resolver:       resolver,
		geocoder:       geocoder,
		forecaster:     forecaster,
		cityRepo:       cityRepo,
		minQueryLength: minQueryLength,
		logger:         logger,
	}
}
