package location

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPermissionFor(t *testing.T) {
	assert.Equal(t, PermissionIOSWhenInUse, PermissionFor("ios"))
	assert.Equal(t, PermissionAndroidFineLocation, PermissionFor("android"))
	assert.Equal(t, PermissionAndroidFineLocation, PermissionFor("linux"))
	assert.Equal(t, PermissionAndroidFineLocation, PermissionFor(""))
}

func TestPromptGate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		terminal bool
		expected PermissionResult
	}{
		{"yes", "yes\n", true, PermissionGranted},
		{"y upper", "Y\n", true, PermissionGranted},
		{"no", "n\n", true, PermissionDenied},
		{"empty", "\n", true, PermissionDenied},
		{"eof", "", true, PermissionDenied},
		{"not a terminal", "y\n", false, PermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			terminal := tt.terminal
			gate := &PromptGate{
				In:         strings.NewReader(tt.input),
				Out:        &out,
				IsTerminal: func() bool { return terminal },
			}

			result, err := gate.Request(context.Background(), PermissionIOSWhenInUse)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
			if tt.terminal {
				assert.Contains(t, out.String(), "Allow SkyScout to use your location")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}

func TestNewGate(t *testing.T) {
	g, err := NewGate("granted")
	require.NoError(t, err)
	result, _ := g.Request(context.Background(), PermissionAndroidFineLocation)
	assert.Equal(t, PermissionGranted, result)

	g, err = NewGate("denied")
	require.NoError(t, err)
	result, _ = g.Request(context.Background(), PermissionAndroidFineLocation)
	assert.Equal(t, PermissionDenied, result)

	g, err = NewGate("prompt")
	require.NoError(t, err)
	assert.IsType(t, &PromptGate{}, g)

	_, err = NewGate("maybe")
	assert.Error(t, err)
}

func TestIPGeolocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/ok":
			w.Write([]byte(`{"status":"success","lat":52.52,"lon":13.405,"city":"Berlin","country":"Germany"}`))
		case "/fail":
			w.Write([]byte(`{"status":"fail","message":"private range"}`))
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	fix, err := NewIPGeolocator(srv.URL+"/ok", zap.NewNop()).CurrentPosition(context.Background(), DefaultFixOptions())
	require.NoError(t, err)
	assert.Equal(t, 52.52, fix.Lat)
	assert.Equal(t, 13.405, fix.Lon)
	assert.False(t, fix.Timestamp.IsZero())

	_, err = NewIPGeolocator(srv.URL+"/fail", nil).CurrentPosition(context.Background(), DefaultFixOptions())
	assert.EqualError(t, err, "private range")

	_, err = NewIPGeolocator(srv.URL+"/down", nil).CurrentPosition(context.Background(), DefaultFixOptions())
	assert.ErrorContains(t, err, "503")
}

func TestIPGeolocator_HonorsDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewIPGeolocator(srv.URL, nil).CurrentPosition(ctx, DefaultFixOptions())
	require.Error(t, err)
	assert.Equal(t, "timeout", errorMessage(err))
}

func TestCachingGeolocator(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	inner := &fakeGeolocator{fix: Fix{Lat: 1.5, Lon: 2.5, Timestamp: now}}
	g := NewCachingGeolocator(inner)
	g.Now = func() time.Time { return now }

	opts := DefaultFixOptions()
	_, err := g.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)

	now = now.Add(5 * time.Second)
	fix, err := g.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1.5, fix.Lat)
	assert.Equal(t, int32(1), inner.calls.Load())

	now = now.Add(10 * time.Second)
	_, err = g.CurrentPosition(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestNewGeolocator(t *testing.T) {
	geo, err := NewGeolocator(config.LocationConfig{Geolocator: "static", StaticLat: 10, StaticLon: 20}, nil)
	require.NoError(t, err)
	fix, err := geo.CurrentPosition(context.Background(), DefaultFixOptions())
	require.NoError(t, err)
	assert.Equal(t, Fix{Lat: 10, Lon: 20, Timestamp: fix.Timestamp}, fix)

	geo, err = NewGeolocator(config.LocationConfig{Geolocator: "ip", IPAPIURL: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &CachingGeolocator{}, geo)

	_, err = NewGeolocator(config.LocationConfig{Geolocator: "gps"}, nil)
	assert.Error(t, err)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.LocationConfig{
		Platform:     "ios",
		FixTimeout:   15 * time.Second,
		FixMaxAge:    10 * time.Second,
		RecordMaxAge: time.Hour,
	})
	assert.Equal(t, "ios", opts.Platform)
	assert.Equal(t, DefaultFixOptions(), opts.Fix)
	assert.Equal(t, time.Hour, opts.MaxAge)
}
