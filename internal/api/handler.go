package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/forecast"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/geocoding"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/model"
	"github.com/Hasib98/Skyscout-Mobile-App/internal/service"
	"go.uber.org/zap"
)

// Handler handles HTTP requests
type Handler struct {
	service service.ServiceInterface
	logger  *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(service service.ServiceInterface, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// GetLocation handles GET /api/v1/location
func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	h.writeLocation(w, h.service.Location(r.Context()))
}

// SaveLocation handles PUT /api/v1/location
func (h *Handler) SaveLocation(w http.ResponseWriter, r *http.Request) {
	var req model.SaveCityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	st, err := h.service.SaveCity(r.Context(), req)
	if err != nil {
		h.writeError(w, "Error saving city", err)
		return
	}
	h.writeLocation(w, st)
}

// RefreshLocation handles POST /api/v1/location/refresh
func (h *Handler) RefreshLocation(w http.ResponseWriter, r *http.Request) {
	h.writeLocation(w, h.service.RefreshLocation(r.Context()))
}

// SearchCities handles GET /api/v1/search
func (h *Handler) SearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil || limit <= 0 {
			http.Error(w, "invalid limit parameter", http.StatusBadRequest)
			return
		}
	}

	response, err := h.service.SearchCities(r.Context(), model.SearchRequest{Query: query, Limit: limit})
	if err != nil {
		h.writeError(w, "Error searching cities", err)
		return
	}
	h.writeJSON(w, response)
}

// GetWeather handles GET /api/v1/weather
func (h *Handler) GetWeather(w http.ResponseWriter, r *http.Request) {
	lat, err := optionalFloat(r, "lat")
	if err != nil {
		http.Error(w, "invalid lat parameter", http.StatusBadRequest)
		return
	}
	lon, err := optionalFloat(r, "lon")
	if err != nil {
		http.Error(w, "invalid lon parameter", http.StatusBadRequest)
		return
	}

	response, err := h.service.GetWeather(r.Context(), lat, lon)
	if err != nil {
		h.writeError(w, "Error getting weather", err)
		return
	}
	h.writeJSON(w, response)
}

// FindNearestCity handles GET /api/v1/nearest
func (h *Handler) FindNearestCity(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")

	if latStr == "" || lonStr == "" {
		http.Error(w, "parameters 'lat' and 'lon' are required", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		http.Error(w, "invalid lat parameter", http.StatusBadRequest)
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		http.Error(w, "invalid lon parameter", http.StatusBadRequest)
		return
	}

	response, err := h.service.FindNearestCity(r.Context(), lat, lon)
	if err != nil {
		h.writeError(w, "Error finding nearest city", err)
		return
	}

	if response == nil {
		http.Error(w, "no cities found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, response)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func optionalFloat(r *http.Request, name string) (*float64, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var geoErr *geocoding.APIError
	var fcErr *forecast.APIError

	switch {
	case errors.Is(err, model.ErrQueryTooShort),
		errors.Is(err, model.ErrInvalidCoordinates),
		errors.Is(err, model.ErrInvalidCityName):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrLocationUnavailable):
		return http.StatusConflict
	case errors.As(err, &geoErr), errors.As(err, &fcErr), errors.Is(err, geocoding.ErrMalformedResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the error text returned to the client
func publicMessage(err error, status int) string {
	var geoErr *geocoding.APIError
	var fcErr *forecast.APIError

	switch {
	case errors.As(err, &geoErr):
		return geoErr.Error()
	case errors.As(err, &fcErr):
		return fcErr.Error()
	case status == http.StatusInternalServerError:
		return "internal server error"
	default:
		return err.Error()
	}
}

func (h *Handler) writeError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, zap.Error(err), zap.Int("status", status))
	} else {
		h.logger.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	http.Error(w, publicMessage(err, status), status)
}

func (h *Handler) writeLocation(w http.ResponseWriter, st model.LocationState) {
	data, err := model.MarshalLocationState(st)
	if err != nil {
		h.logger.Error("Error encoding location", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(data)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", zap.Error(err))
	}
}
