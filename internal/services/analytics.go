package services

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"ecommerce-dashboard/internal/aggregate"
	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/filter"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/observability"
)

const defaultPreviewRows = 100

type Option func(*Analytics)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Analytics) {
		a.logger = logger
	}
}

func WithTopN(n int) Option {
	return func(a *Analytics) {
		a.topN = n
	}
}

// WithPreviewRows caps the rows returned with each dashboard. Zero returns
// every filtered row.
func WithPreviewRows(n int) Option {
	return func(a *Analytics) {
		a.previewRows = n
	}
}

// Analytics recomputes the dashboard for one filter selection at a time.
// It holds no per-user state; concurrent Compute calls share the table
// read-only.
type Analytics struct {
	mu    sync.RWMutex
	data  *dataset.Table
	since time.Time

	topN        int
	previewRows int
	logger      *slog.Logger

	computations atomic.Int64
	rejected     atomic.Int64
}

func NewAnalytics(table *dataset.Table, opts ...Option) *Analytics {
	if table == nil {
		table = dataset.NewTable(nil)
	}
	a := &Analytics{
		data:        table,
		since:       time.Now(),
		topN:        aggregate.DefaultTopN,
		previewRows: defaultPreviewRows,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetData swaps the underlying table. Used by tests and the report command.
func (a *Analytics) SetData(rows []models.Transaction) {
	table := dataset.NewTable(rows)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.data = table
	a.since = time.Now()
}

func (a *Analytics) table() *dataset.Table {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.data
}

// DefaultSelection is the initial page state: the full date span and every
// country.
func (a *Analytics) DefaultSelection() filter.Selection {
	return filter.FullSpan(a.table())
}

// Countries lists the country options with the all-countries sentinel
// first.
func (a *Analytics) Countries() []string {
	return append([]string{filter.AllCountries}, a.table().Countries()...)
}

func (a *Analytics) TotalRows() int {
	return a.table().Len()
}

// Compute validates sel, filters the table and derives every dashboard
// output. Validation errors are returned before any aggregation runs.
func (a *Analytics) Compute(ctx context.Context, sel filter.Selection) (*models.Dashboard, error) {
	_, span := observability.StartSpan(ctx, "dashboard.compute")
	defer func() {
		span.Finish()
		a.logger.Debug("dashboard computed", "span", span)
	}()

	if sel.Country == "" {
		sel.Country = filter.AllCountries
	}
	span.SetTag("country", sel.Country)

	if err := ctx.Err(); err != nil {
		span.SetError(err)
		return nil, err
	}

	table := a.table()
	result, err := filter.Apply(table, sel)
	if err != nil {
		a.rejected.Add(1)
		span.SetError(err)
		return nil, err
	}
	a.computations.Add(1)

	rows := result.Rows
	span.SetTag("rows", strconv.Itoa(len(rows)))

	dashboard := &models.Dashboard{
		StartDate:       result.Start,
		EndDate:         result.End,
		Country:         sel.Country,
		Summary:         aggregate.Summary(rows),
		MonthlyTrend:    aggregate.MonthlyTrend(rows),
		TopBySales:      aggregate.TopCustomersBySales(rows, a.topN),
		TopByOrders:     aggregate.TopCustomersByOrders(rows, a.topN),
		DayPeriodOrders: aggregate.OrdersByDayPeriod(rows),
		HourlyOrders:    aggregate.OrdersByHour(rows),
		Heatmap:         aggregate.DayHourHeatmap(rows),
		Rows:            a.preview(rows),
		RowCount:        len(rows),
		TotalRows:       table.Len(),
	}

	return dashboard, nil
}

func (a *Analytics) preview(rows []models.Transaction) []models.Transaction {
	if a.previewRows > 0 && len(rows) > a.previewRows {
		return slices.Clone(rows[:a.previewRows])
	}
	return rows
}

// Utility method for monitoring
func (a *Analytics) Stats() map[string]any {
	a.mu.RLock()
	table, since := a.data, a.since
	a.mu.RUnlock()

	first, last := table.Span()
	stats := map[string]any{
		"record_count": table.Len(),
		"countries":    len(table.Countries()),
		"loaded_at":    since,
		"computations": a.computations.Load(),
		"rejected":     a.rejected.Load(),
	}
	if table.Len() > 0 {
		stats["first_date"] = filter.FormatDate(first)
		stats["last_date"] = filter.FormatDate(last)
	}
	return stats
}
