package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/httpclient"
	"go.uber.org/zap"
)

// StaticGeolocator always reports the same position
type StaticGeolocator struct {
	Lat float64
	Lon float64
	Now func() time.Time
}

func (g StaticGeolocator) CurrentPosition(ctx context.Context, opts FixOptions) (Fix, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return Fix{Lat: g.Lat, Lon: g.Lon, Timestamp: now()}, nil
}

// ipAPIResponse is the ip-api.com JSON shape
type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
	Country string  `json:"country"`
}

// IPGeolocator approximates the position from the public IP address
type IPGeolocator struct {
	URL        string
	HTTPClient *http.Client
	logger     *zap.Logger
}

// NewIPGeolocator creates a geolocator querying url
func NewIPGeolocator(url string, logger *zap.Logger) *IPGeolocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPGeolocator{
		URL:        url,
		HTTPClient: httpclient.New("ip-geolocation", 0, logger),
		logger:     logger,
	}
}

func (g *IPGeolocator) CurrentPosition(ctx context.Context, opts FixOptions) (Fix, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.URL, nil)
	if err != nil {
		return Fix{}, err
	}

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Fix{}, ctx.Err()
		}
		return Fix{}, fmt.Errorf("location request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Fix{}, fmt.Errorf("location service returned status %d", resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Fix{}, fmt.Errorf("failed to decode location response: %w", err)
	}
	if body.Status != "success" {
		msg := body.Message
		if msg == "" {
			msg = "location unavailable"
		}
		return Fix{}, errors.New(msg)
	}

	if g.logger != nil {
		g.logger.Debug("ip geolocation", zap.String("city", body.City), zap.String("country", body.Country))
	}
	return Fix{Lat: body.Lat, Lon: body.Lon, Timestamp: time.Now()}, nil
}

// CachingGeolocator returns the previous fix while it is younger than
// FixOptions.MaximumAge
type CachingGeolocator struct {
	Inner Geolocator
	Now   func() time.Time

	mu   sync.Mutex
	last *Fix
}

// NewCachingGeolocator wraps inner with a fix cache
func NewCachingGeolocator(inner Geolocator) *CachingGeolocator {
	return &CachingGeolocator{Inner: inner, Now: time.Now}
}

func (g *CachingGeolocator) CurrentPosition(ctx context.Context, opts FixOptions) (Fix, error) {
	g.mu.Lock()
	if g.last != nil && opts.MaximumAge > 0 && g.Now().Sub(g.last.Timestamp) <= opts.MaximumAge {
		fix := *g.last
		g.mu.Unlock()
		return fix, nil
	}
	g.mu.Unlock()

	fix, err := g.Inner.CurrentPosition(ctx, opts)
	if err != nil {
		return Fix{}, err
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = g.Now()
	}

	g.mu.Lock()
	g.last = &fix
	g.mu.Unlock()
	return fix, nil
}

// NewGeolocator builds the geolocator selected by cfg.Geolocator: ip or static
func NewGeolocator(cfg config.LocationConfig, logger *zap.Logger) (Geolocator, error) {
	switch cfg.Geolocator {
	case "static":
		return StaticGeolocator{Lat: cfg.StaticLat, Lon: cfg.StaticLon}, nil
	case "ip":
		return NewCachingGeolocator(NewIPGeolocator(cfg.IPAPIURL, logger)), nil
	default:
		return nil, fmt.Errorf("unknown geolocator %q", cfg.Geolocator)
	}
}
