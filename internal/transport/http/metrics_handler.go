package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"assesscli/internal/infrastructure"
)

// MetricsHandler exposes the Prometheus scrape endpoint backed by the OTel
// metric pipeline
type MetricsHandler struct {
	prometheus http.Handler
}

// NewMetricsHandler creates a metrics handler from initialized providers.
// providers may be nil when metrics are disabled; the endpoint then answers
// 404.
func NewMetricsHandler(providers *infrastructure.OTelProviders) *MetricsHandler {
	h := &MetricsHandler{}
	if providers != nil {
		h.prometheus = providers.PrometheusHTTP
	}
	return h
}

// RegisterRoutes registers the metrics routes
func (h *MetricsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
}

// GetMetrics serves the Prometheus exposition format
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.NotFound(w, r)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}
