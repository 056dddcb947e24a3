package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"ecommerce-dashboard/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	batchSize  = 10000
	maxWorkers = 10
)

const (
	colInvoiceNo   = "invoiceno"
	colCustomerID  = "customerid"
	colCountry     = "country"
	colInvoiceDate = "invoicedate"
	colQuantity    = "quantity"
	colSales       = "sales"
	colDayPeriod   = "dayperiod"
)

var requiredColumns = []string{
	colInvoiceNo,
	colCustomerID,
	colCountry,
	colInvoiceDate,
	colQuantity,
	colSales,
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 15:04",
	"2006-01-02",
}

// Day-period labels in display order.
const (
	PeriodMorning   = "Morning"
	PeriodAfternoon = "Afternoon"
	PeriodEvening   = "Evening"
	PeriodNight     = "Night"
)

type columnIndex map[string]int

// Parse reads a cleaned transaction CSV. The header is normalised to lower
// case and unnamed columns (the exported index) are dropped.
func Parse(ctx context.Context, r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrDataLoad)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrDataLoad, err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrDataLoad)
	}

	rows := make([]models.Transaction, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for offset := 0; offset < len(records); offset += batchSize {
		end := min(offset+batchSize, len(records))
		g.Go(func() error {
			for i := offset; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				tx, err := parseTransaction(records[i], cols)
				if err != nil {
					// +2: one for the header, one for 1-based lines
					return fmt.Errorf("%w: line %d: %v", ErrDataLoad, i+2, err)
				}
				rows[i] = tx
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return rows, nil
}

func indexColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || strings.HasPrefix(key, "unnamed") {
			continue
		}
		cols[key] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", ErrDataLoad, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseTransaction(record []string, cols columnIndex) (models.Transaction, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	invoiceDate, err := ParseTimestamp(field(colInvoiceDate))
	if err != nil {
		return models.Transaction{}, err
	}

	quantity, err := parseFinite(field(colQuantity))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("quantity: %w", err)
	}

	sales, err := parseFinite(field(colSales))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("sales: %w", err)
	}

	hour := invoiceDate.Hour()
	period := field(colDayPeriod)
	if period == "" {
		period = DayPeriod(hour)
	}

	return models.Transaction{
		InvoiceNo:   field(colInvoiceNo),
		CustomerID:  NormalizeCustomerID(field(colCustomerID)),
		Country:     field(colCountry),
		InvoiceDate: invoiceDate,
		InvoiceHour: hour,
		DayOfWeek:   invoiceDate.Weekday().String(),
		DayPeriod:   period,
		Quantity:    quantity,
		Sales:       sales,
	}, nil
}

// parseFinite rejects NaN and infinities, which ParseFloat accepts.
func parseFinite(value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", value)
	}
	return f, nil
}

// ParseTimestamp parses an invoice timestamp as UTC wall-clock time.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid invoice date %q", value)
}

// NormalizeCustomerID turns float-rendered ids ("17850.0") into their integer
// form and null markers into the empty string.
func NormalizeCustomerID(value string) string {
	switch strings.ToLower(value) {
	case "", "nan", "null", "none":
		return ""
	}
	if head, ok := strings.CutSuffix(value, ".0"); ok {
		if _, err := strconv.ParseInt(head, 10, 64); err == nil {
			return head
		}
	}
	return value
}

// DayPeriod buckets an hour of day.
func DayPeriod(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 17:
		return PeriodAfternoon
	case hour >= 17 && hour < 21:
		return PeriodEvening
	default:
		return PeriodNight
	}
}
