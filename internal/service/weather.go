package service

import (
	"context"
	"fmt"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/forecast"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
)

// GetWeather returns the forecast for explicit coordinates, or for the
// resolved location when lat and lon are nil
func (s *Service) GetWeather(ctx context.Context, lat, lon *float64) (*model.WeatherResponse, error) {
	resp := &model.WeatherResponse{}

	switch {
	case lat != nil && lon != nil:
		if err := model.ValidateCoordinates(*lat, *lon); err != nil {
			return nil, err
		}
		resp.Location = model.Coordinate{Lat: *lat, Lon: *lon}
	case lat == nil && lon == nil:
		st := s.resolver.State()
		la, lo, ok := model.Position(st)
		if !ok {
			return nil, fmt.Errorf("%w: status %s", model.ErrLocationUnavailable, st.Status())
		}
		resp.Location = model.Coordinate{Lat: la, Lon: lo}
		if city, ok := st.(model.City); ok {
			resp.Name = city.Name
		}
	default:
		return nil, fmt.Errorf("%w: both lat and lon are required", model.ErrInvalidCoordinates)
	}

	fc, err := s.forecaster.GetForecast(ctx, resp.Location.Lat, resp.Location.Lon)
	if err != nil {
		return nil, fmt.Errorf("failed to get forecast: %w", err)
	}

	cw := fc.CurrentWeather
	resp.Forecast = fc
	resp.Description = forecast.Describe(cw.WeatherCode)
	resp.Emoji = forecast.Emoji(cw.WeatherCode, cw.IsDay == 1)
	return resp, nil
}
