// Package geocoding turns free-text city queries into candidate locations.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/httpclient"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
)

// Geocoder searches cities by name
type Geocoder interface {
	Search(ctx context.Context, query string) ([]model.CityCandidate, error)
}

// ErrMalformedResponse is returned when a search response has an unknown shape
var ErrMalformedResponse = errors.New("malformed geocoding response")

// APIError is a failed call to the geocoding API
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
		return "Invalid search query"
	case httpclient.KindRateLimited:
		return "Too many search requests. Please try again later."
	case httpclient.KindUnavailable:
		return "Search service is temporarily unavailable"
	default:
		return fmt.Sprintf("Search error: %d", e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// NormalizeSearchResponse extracts the candidate list from a search body.
// Accepted shapes are {"results": [...]}, {"data": {"results": [...]}} and
// an object without results, which yields an empty list.
func NormalizeSearchResponse(body []byte) ([]model.CityCandidate, error) {
	var envelope struct {
		Results json.RawMessage `json:"results"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	raw := envelope.Results
	if isNull(raw) && !isNull(envelope.Data) {
		var nested struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(envelope.Data, &nested); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrMalformedResponse, err)
		}
		raw = nested.Results
	}

	candidates := []model.CityCandidate{}
	if isNull(raw) {
		return candidates, nil
	}
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return candidates, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
