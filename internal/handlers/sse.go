package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starfederation/datastar-go/datastar"

	"ecommerce-dashboard/internal/errors"
	"ecommerce-dashboard/internal/filter"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

// dashboardSignals mirrors the page controls.
type dashboardSignals struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Country   string `json:"country"`
}

type chartSeries[T any] struct {
	Labels []string `json:"labels"`
	Values []T      `json:"values"`
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard recomputes every section from the current control
// signals. A rejected range only patches the alert banner.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("Invalid signals"), observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	sel, err := filter.NewSelection(signals.StartDate, signals.EndDate, signals.Country)
	if err == nil {
		h.render(r.Context(), sse, sel)
		return
	}
	h.renderAlert(r.Context(), sse, err)
}

// HandleReset moves the date pickers back to the full span and re-renders
// for the selected country.
func (h *SSEHandlers) HandleReset(w http.ResponseWriter, r *http.Request) {
	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		errors.WriteError(w, h.logger, errors.BadRequest("Invalid signals"), observability.GetRequestID(r.Context()))
		return
	}

	sse := datastar.NewSSE(w, r)

	sel := h.analytics.DefaultSelection()
	if signals.Country != "" {
		sel.Country = signals.Country
	}

	dates, err := json.Marshal(dashboardSignals{
		StartDate: filter.FormatDate(*sel.Start),
		EndDate:   filter.FormatDate(*sel.End),
		Country:   sel.Country,
	})
	if err != nil {
		h.logger.Error("marshal reset signals", "error", err)
		return
	}
	sse.PatchSignals(dates)

	h.render(r.Context(), sse, sel)
}

func (h *SSEHandlers) render(ctx context.Context, sse *datastar.ServerSentEventGenerator, sel filter.Selection) {
	dashboard, err := h.analytics.Compute(ctx, sel)
	if err != nil {
		h.renderAlert(ctx, sse, err)
		return
	}

	html, err := templates.RenderString(ctx, templates.Sections(dashboard))
	if err != nil {
		h.logger.Error("render dashboard sections", "error", err)
		return
	}
	sse.PatchElements(html)

	charts, err := json.Marshal(chartSignals(dashboard))
	if err != nil {
		h.logger.Error("marshal chart signals", "error", err)
		return
	}
	sse.PatchSignals(charts)
}

// renderAlert shows a validation failure. The sections and charts are
// emptied first so no figures from a previous range stay on screen.
func (h *SSEHandlers) renderAlert(ctx context.Context, sse *datastar.ServerSentEventGenerator, err error) {
	appErr := errors.FromDomain(err)
	severity := filter.SeverityOf(err)
	if severity == filter.SeverityError && appErr.StatusCode >= http.StatusInternalServerError {
		h.logger.Error("compute dashboard", "error", err, "request_id", observability.GetRequestID(ctx))
	}

	cleared, renderErr := templates.RenderString(ctx, templates.ClearedSections())
	if renderErr != nil {
		h.logger.Error("render cleared sections", "error", renderErr)
		return
	}
	sse.PatchElements(cleared)

	charts, marshalErr := json.Marshal(chartSignals(&models.Dashboard{}))
	if marshalErr != nil {
		h.logger.Error("marshal chart signals", "error", marshalErr)
		return
	}
	sse.PatchSignals(charts)

	html, renderErr := templates.RenderString(ctx, templates.Alert(string(severity), appErr.Message))
	if renderErr != nil {
		h.logger.Error("render alert", "error", renderErr)
		return
	}
	sse.PatchElements(html)
}

func chartSignals(d *models.Dashboard) map[string]any {
	monthly := chartSeries[float64]{Labels: []string{}, Values: []float64{}}
	for _, m := range d.MonthlyTrend {
		monthly.Labels = append(monthly.Labels, m.Month.Format("Jan 2006"))
		monthly.Values = append(monthly.Values, m.TotalSales)
	}

	periods := chartSeries[int]{Labels: []string{}, Values: []int{}}
	for _, p := range d.DayPeriodOrders {
		periods.Labels = append(periods.Labels, p.DayPeriod)
		periods.Values = append(periods.Values, p.TotalOrders)
	}

	hourly := chartSeries[int]{Labels: []string{}, Values: []int{}}
	for _, o := range d.HourlyOrders {
		hourly.Labels = append(hourly.Labels, strconv.Itoa(o.Hour))
		hourly.Values = append(hourly.Values, o.TotalOrders)
	}

	return map[string]any{
		"monthlyData":   monthly,
		"dayPeriodData": periods,
		"hourlyData":    hourly,
	}
}
