package service

import (
	"context"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
)

// ServiceInterface defines the service interface for testing
type ServiceInterface interface {
	Location(ctx context.Context) model.LocationState
	SaveCity(ctx context.Context, req model.SaveCityRequest) (model.LocationState, error)
	RefreshLocation(ctx context.Context) model.LocationState
	SearchCities(ctx context.Context, req model.SearchRequest) (*model.SearchResponse, error)
	GetWeather(ctx context.Context, lat, lon *float64) (*model.WeatherResponse, error)
	FindNearestCity(ctx context.Context, lat, lon float64) (*model.NearestCityResponse, error)
}
