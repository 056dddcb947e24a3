package dataset

import (
	"time"

	"ecommerce-dashboard/internal/models"
)

// Table is the loaded dataset. It is never modified after construction and
// is shared by every filter call.
type Table struct {
	rows      []models.Transaction
	minDate   time.Time
	maxDate   time.Time
	countries []string
}

func NewTable(rows []models.Transaction) *Table {
	t := &Table{rows: rows}

	seen := make(map[string]bool)
	for i, tx := range rows {
		if i == 0 || tx.InvoiceDate.Before(t.minDate) {
			t.minDate = tx.InvoiceDate
		}
		if i == 0 || tx.InvoiceDate.After(t.maxDate) {
			t.maxDate = tx.InvoiceDate
		}
		if !seen[tx.Country] {
			seen[tx.Country] = true
			t.countries = append(t.countries, tx.Country)
		}
	}

	return t
}

// Rows returns the backing rows. Callers must treat the slice as read-only.
func (t *Table) Rows() []models.Transaction {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Span returns the first and last calendar dates present in the table.
func (t *Table) Span() (time.Time, time.Time) {
	return Date(t.minDate), Date(t.maxDate)
}

// Countries lists distinct country values in first-seen order.
func (t *Table) Countries() []string {
	out := make([]string, len(t.countries))
	copy(out, t.countries)
	return out
}

// Date truncates a timestamp to midnight of its calendar day.
func Date(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, ts.Location())
}
