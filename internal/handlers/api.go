package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/filter"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
)

const cacheMaxAge = "public, max-age=300"

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard computes the dashboard for ?start=&end=&country=. With
// neither date parameter present the full span is used.
func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	sel, err := selectionFromQuery(r, h.analytics.DefaultSelection())
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	dashboard, err := h.analytics.Compute(r.Context(), sel)
	if err != nil {
		errors.WriteError(w, h.logger, err, requestID)
		return
	}

	errors.WriteSuccess(w, dashboard)
}

func selectionFromQuery(r *http.Request, defaults filter.Selection) (filter.Selection, error) {
	q := r.URL.Query()
	if !q.Has("start") && !q.Has("end") {
		if country := q.Get("country"); country != "" {
			defaults.Country = country
		}
		return defaults, nil
	}
	return filter.NewSelection(q.Get("start"), q.Get("end"), q.Get("country"))
}

func (h *APIHandlers) HandleCountries(w http.ResponseWriter, r *http.Request) {
	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, h.analytics.Countries(), headers)
}

// HandleDateRange returns the full span, which is also the reset target.
func (h *APIHandlers) HandleDateRange(w http.ResponseWriter, r *http.Request) {
	sel := h.analytics.DefaultSelection()

	headers := map[string]string{
		"Cache-Control": cacheMaxAge,
	}

	errors.WriteSuccessWithHeaders(w, map[string]string{
		"start": filter.FormatDate(*sel.Start),
		"end":   filter.FormatDate(*sel.End),
	}, headers)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {

	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {

	stats := h.analytics.Stats()

	errors.WriteSuccess(w, stats)
}
