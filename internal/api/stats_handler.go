package api

import (
	"net/http"

	"github.com/Hasib98/Skyscout-Mobile-App/internal/stats"
	"go.uber.org/zap"
)

// StatsHandler serves runtime, database and location statistics
type StatsHandler struct {
	base      *Handler
	collector *stats.Collector
}

func NewStatsHandler(collector *stats.Collector, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{base: &Handler{logger: logger}, collector: collector}
}

// GetStats handles GET /api/v1/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.collector.Collect(r.Context())
	if err != nil {
		h.base.writeError(w, "Error collecting statistics", err)
		return
	}
	h.base.writeJSON(w, s)
}

// GetLocationStats handles GET /api/v1/stats/location
func (h *StatsHandler) GetLocationStats(w http.ResponseWriter, r *http.Request) {
	ls := h.collector.Location()
	if ls == nil {
		http.Error(w, "location tracking is not enabled", http.StatusNotFound)
		return
	}
	h.base.writeJSON(w, ls)
}
