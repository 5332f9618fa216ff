package api

import (
	"net/http"
	"time"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/service"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/stats"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(service service.ServiceInterface, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := NewHandler(service, logger)
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(accessLog(logger))

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/location", handler.GetLocation).Methods("GET")
	v1.HandleFunc("/location", handler.SaveLocation).Methods("PUT")
	v1.HandleFunc("/location/refresh", handler.RefreshLocation).Methods("POST")
	v1.HandleFunc("/search", handler.SearchCities).Methods("GET")
	v1.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	v1.HandleFunc("/nearest", handler.FindNearestCity).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")
	v1.HandleFunc("/stats/location", statsHandler.GetLocationStats).Methods("GET")

	return router
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func accessLog(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
