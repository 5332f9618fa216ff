package service

import (
	"context"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
)

// Location returns the current location state without blocking on resolution
func (s *Service) Location(ctx context.Context) model.LocationState {
	return s.resolver.State()
}

// SaveCity stores a manually chosen city as the current location
func (s *Service) SaveCity(ctx context.Context, req model.SaveCityRequest) (model.LocationState, error) {
	if req.Lat == nil || req.Lon == nil {
		return nil, model.ErrInvalidCoordinates
	}
	if err := s.resolver.SaveCity(ctx, req.Name, *req.Lat, *req.Lon); err != nil {
		return nil, err
	}
	return s.resolver.State(), nil
}

// RefreshLocation asks the device for a new position
func (s *Service) RefreshLocation(ctx context.Context) model.LocationState {
	return s.resolver.Refresh(ctx)
}
