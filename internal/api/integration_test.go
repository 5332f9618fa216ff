package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/database/dbtest"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/location"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/repository"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/service"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubForecaster struct{}

func (stubForecaster) GetForecast(ctx context.Context, lat, lon float64) (*model.Forecast, error) {
	return &model.Forecast{
		Latitude:       lat,
		Longitude:      lon,
		CurrentWeather: model.CurrentWeather{Temperature: 12.5, WeatherCode: 3},
	}, nil
}

func setupIntegrationStack(t *testing.T) (http.Handler, *location.Resolver) {
	db, cfg := dbtest.Open(t, "../../migrations")

	ctx := context.Background()
	_, err := db.ExecContext(ctx, "INSERT INTO countries (code, name_default) VALUES ('IE', 'Ireland')")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO admin1_codes (code, name) VALUES ('IE.L', 'Leinster')")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "INSERT INTO cities (id, country_code, admin1_code, name_default, name_folded, population, lat, lon) VALUES (1, 'IE', 'L', 'Dublin', 'dublin', 544000, 53.3498, -6.2603)")
	require.NoError(t, err)

	repos := repository.NewRepositories(db, cfg.Type)
	resolver := location.NewResolver(
		location.NewRecordStore(repos.KV),
		location.ConfigGate{Result: location.PermissionDenied},
		location.StaticGeolocator{},
		location.Options{},
		nil,
	)
	resolver.Start(ctx)

	svc := service.NewService(resolver, geocoding.NewLocalGeocoder(repos.City, 5), stubForecaster{}, repos.City, 2, nil)
	collector := stats.NewCollector(db, cfg).WithLocation(resolver)

	return NewRouter(svc, collector, nil), resolver
}

func TestIntegration_DeniedThenSelectCity(t *testing.T) {
	router, resolver := setupIntegrationStack(t)

	t.Run("denied without a saved city", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/location", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"denied"}`, rr.Body.String())
	})

	t.Run("weather needs a location", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/weather", nil))
		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	var picked model.CityCandidate
	t.Run("search finds the gazetteer city", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/search?q=dub", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp model.SearchResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 1)
		picked = resp.Results[0]
		assert.Equal(t, "Dublin, Leinster, Ireland", picked.Label())
	})

	t.Run("short query is rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/search?q=d", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("selecting the city persists it", func(t *testing.T) {
		body, err := json.Marshal(map[string]any{"name": picked.Name, "lat": picked.Latitude, "lon": picked.Longitude})
		require.NoError(t, err)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("PUT", "/api/v1/location", strings.NewReader(string(body))))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"city","name":"Dublin","lat":53.3498,"lon":-6.2603}`, rr.Body.String())
		assert.Equal(t, model.City{Name: "Dublin", Lat: 53.3498, Lon: -6.2603}, resolver.State())
	})

	t.Run("weather uses the saved city", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/weather", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp model.WeatherResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Dublin", resp.Name)
		assert.Equal(t, 53.3498, resp.Location.Lat)
		assert.Equal(t, "Mainly clear, partly cloudy, and overcast", resp.Description)
	})

	t.Run("nearest city", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/nearest?lat=53.35&lon=-6.26", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp model.NearestCityResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Dublin", resp.City.Name)
		assert.Less(t, resp.DistanceKm, 1.0)
	})

	t.Run("stats report the location", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/stats", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp stats.Stats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Location)
		assert.Equal(t, "city", resp.Location.Status)
		assert.True(t, resp.Database.GazetteerLoaded)
	})

	t.Run("location stats", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/stats/location", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var ls stats.LocationStats
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ls))
		assert.Equal(t, "Dublin", ls.Name)
		require.NotNil(t, ls.Lat)
		assert.InDelta(t, 53.3498, *ls.Lat, 1e-9)
	})

	t.Run("health", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
