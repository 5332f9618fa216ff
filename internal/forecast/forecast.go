// Package forecast fetches current and hourly weather from Open-Meteo.
package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/httpclient"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"go.uber.org/zap"
)

const hourlyFields = "precipitation_probability,temperature_2m,weather_code"

// APIError is a failed call to the forecast API
type APIError struct {
	Kind   httpclient.ErrorKind
	Status int
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case httpclient.KindNetwork:
		return httpclient.NetworkErrorMessage
	case httpclient.KindBadRequest:
		return "Invalid weather API request parameters"
	case httpclient.KindRateLimited:
		return "Too many weather API requests. Please try again later."
	case httpclient.KindUnavailable:
		return "Weather service is temporarily unavailable"
	default:
		return fmt.Sprintf("Weather API error: %d", e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Client talks to the forecast endpoint
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a forecast client from configuration
func NewClient(cfg config.WeatherConfig, logger *zap.Logger) *Client {
	return &Client{
		BaseURL:    cfg.BaseURL,
		HTTPClient: httpclient.New("forecast", cfg.Timeout, logger),
	}
}

// GetForecast returns today's current conditions and hourly series for a position
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*model.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("hourly", hourlyFields)
	params.Set("forecast_days", "1")
	params.Set("timezone", "auto")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/forecast?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build forecast request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Kind: httpclient.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &APIError{Kind: httpclient.KindForStatus(resp.StatusCode), Status: resp.StatusCode}
	}

	var forecast model.Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, fmt.Errorf("failed to decode forecast: %w", err)
	}
	return &forecast, nil
}
