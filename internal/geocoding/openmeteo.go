package geocoding

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/httpclient"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"go.uber.org/zap"
)

// OpenMeteoClient searches the Open-Meteo geocoding API
type OpenMeteoClient struct {
	BaseURL    string
	Count      int
	Language   string
	HTTPClient *http.Client
}

// NewOpenMeteoClient creates a client from configuration
func NewOpenMeteoClient(cfg config.GeocodingConfig, logger *zap.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		BaseURL:    cfg.BaseURL,
		Count:      cfg.Count,
		Language:   cfg.Language,
		HTTPClient: httpclient.New("geocoding", cfg.Timeout, logger),
	}
}

func (c *OpenMeteoClient) Search(ctx context.Context, query string) ([]model.CityCandidate, error) {
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(c.Count))
	params.Set("language", c.Language)
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &APIError{Kind: httpclient.KindNetwork, Err: err}
	}
	return NormalizeSearchResponse(body)
}
