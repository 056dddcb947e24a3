// Package aggregate derives the dashboard tables from a filtered set of
// transactions. Every function is pure and returns a deterministic order.
package aggregate

import (
	"cmp"
	"slices"
	"time"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
	"github.com/shopspring/decimal"
)

const DefaultTopN = 10

// Weekdays is the fixed row order of the heatmap.
var Weekdays = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

var dayPeriodOrder = map[string]int{
	dataset.PeriodMorning:   0,
	dataset.PeriodAfternoon: 1,
	dataset.PeriodEvening:   2,
	dataset.PeriodNight:     3,
}

// invoiceSet counts distinct invoices.
type invoiceSet map[string]struct{}

func (s invoiceSet) add(invoice string) {
	s[invoice] = struct{}{}
}

// Summary counts distinct customers and invoices and totals quantity and
// sales. Rows without a customer id are not counted as a customer.
func Summary(rows []models.Transaction) models.SummaryMetrics {
	customers := make(map[string]struct{})
	orders := make(invoiceSet)
	quantity := decimal.Zero
	sales := decimal.Zero

	for _, tx := range rows {
		if tx.CustomerID != "" {
			customers[tx.CustomerID] = struct{}{}
		}
		orders.add(tx.InvoiceNo)
		quantity = quantity.Add(decimal.NewFromFloat(tx.Quantity))
		sales = sales.Add(decimal.NewFromFloat(tx.Sales))
	}

	return models.SummaryMetrics{
		TotalCustomers:    len(customers),
		TotalOrders:       len(orders),
		TotalProductsSold: quantity.InexactFloat64(),
		TotalSales:        sales.InexactFloat64(),
	}
}

// MonthlyTrend sums sales per calendar month, oldest first. Months without
// rows are absent.
func MonthlyTrend(rows []models.Transaction) []models.MonthlySales {
	groups := make(map[time.Time]decimal.Decimal)
	for _, tx := range rows {
		y, m, _ := tx.InvoiceDate.Date()
		month := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
		groups[month] = groups[month].Add(decimal.NewFromFloat(tx.Sales))
	}

	result := make([]models.MonthlySales, 0, len(groups))
	for month, total := range groups {
		result = append(result, models.MonthlySales{Month: month, TotalSales: total.InexactFloat64()})
	}
	slices.SortFunc(result, func(a, b models.MonthlySales) int {
		return a.Month.Compare(b.Month)
	})
	return result
}

// TopCustomersBySales ranks customers by total sales. Equal totals are
// ordered by customer id ascending.
func TopCustomersBySales(rows []models.Transaction, n int) []models.CustomerSales {
	groups := make(map[string]decimal.Decimal)
	for _, tx := range rows {
		if tx.CustomerID == "" {
			continue
		}
		groups[tx.CustomerID] = groups[tx.CustomerID].Add(decimal.NewFromFloat(tx.Sales))
	}

	result := make([]models.CustomerSales, 0, len(groups))
	for id, total := range groups {
		result = append(result, models.CustomerSales{CustomerID: id, TotalSales: total.InexactFloat64()})
	}
	slices.SortFunc(result, func(a, b models.CustomerSales) int {
		if c := cmp.Compare(b.TotalSales, a.TotalSales); c != 0 {
			return c
		}
		return compareCustomerID(a.CustomerID, b.CustomerID)
	})
	return limit(result, n)
}

// TopCustomersByOrders ranks customers by distinct invoice count. Equal
// counts are ordered by customer id ascending.
func TopCustomersByOrders(rows []models.Transaction, n int) []models.CustomerOrders {
	groups := make(map[string]invoiceSet)
	for _, tx := range rows {
		if tx.CustomerID == "" {
			continue
		}
		if groups[tx.CustomerID] == nil {
			groups[tx.CustomerID] = make(invoiceSet)
		}
		groups[tx.CustomerID].add(tx.InvoiceNo)
	}

	result := make([]models.CustomerOrders, 0, len(groups))
	for id, invoices := range groups {
		result = append(result, models.CustomerOrders{CustomerID: id, TotalOrders: len(invoices)})
	}
	slices.SortFunc(result, func(a, b models.CustomerOrders) int {
		if c := cmp.Compare(b.TotalOrders, a.TotalOrders); c != 0 {
			return c
		}
		return compareCustomerID(a.CustomerID, b.CustomerID)
	})
	return limit(result, n)
}

// OrdersByDayPeriod counts distinct invoices per day-period label.
func OrdersByDayPeriod(rows []models.Transaction) []models.DayPeriodOrders {
	groups := make(map[string]invoiceSet)
	for _, tx := range rows {
		if groups[tx.DayPeriod] == nil {
			groups[tx.DayPeriod] = make(invoiceSet)
		}
		groups[tx.DayPeriod].add(tx.InvoiceNo)
	}

	result := make([]models.DayPeriodOrders, 0, len(groups))
	for period, invoices := range groups {
		result = append(result, models.DayPeriodOrders{DayPeriod: period, TotalOrders: len(invoices)})
	}
	slices.SortFunc(result, func(a, b models.DayPeriodOrders) int {
		ra, okA := dayPeriodOrder[a.DayPeriod]
		rb, okB := dayPeriodOrder[b.DayPeriod]
		switch {
		case okA && okB:
			return cmp.Compare(ra, rb)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return cmp.Compare(a.DayPeriod, b.DayPeriod)
		}
	})
	return result
}

// OrdersByHour counts distinct invoices per hour of day. Hours without
// orders are absent.
func OrdersByHour(rows []models.Transaction) []models.HourlyOrders {
	groups := make(map[int]invoiceSet)
	for _, tx := range rows {
		if groups[tx.InvoiceHour] == nil {
			groups[tx.InvoiceHour] = make(invoiceSet)
		}
		groups[tx.InvoiceHour].add(tx.InvoiceNo)
	}

	result := make([]models.HourlyOrders, 0, len(groups))
	for hour, invoices := range groups {
		result = append(result, models.HourlyOrders{Hour: hour, TotalOrders: len(invoices)})
	}
	slices.SortFunc(result, func(a, b models.HourlyOrders) int {
		return cmp.Compare(a.Hour, b.Hour)
	})
	return result
}

type dayHour struct {
	day  string
	hour int
}

// DayHourHeatmap counts distinct invoices per (weekday, hour) and pivots
// them into a dense matrix: seven rows Monday..Sunday, one column per hour
// present in the input, zero where a cell has no orders.
func DayHourHeatmap(rows []models.Transaction) models.Heatmap {
	groups := make(map[dayHour]invoiceSet)
	hourSeen := make(map[int]bool)
	for _, tx := range rows {
		key := dayHour{day: tx.DayOfWeek, hour: tx.InvoiceHour}
		if groups[key] == nil {
			groups[key] = make(invoiceSet)
		}
		groups[key].add(tx.InvoiceNo)
		hourSeen[tx.InvoiceHour] = true
	}

	hours := make([]int, 0, len(hourSeen))
	for h := range hourSeen {
		hours = append(hours, h)
	}
	slices.Sort(hours)

	days := slices.Clone(Weekdays)
	values := make([][]int, len(days))
	for i, day := range days {
		values[i] = make([]int, len(hours))
		for j, hour := range hours {
			values[i][j] = len(groups[dayHour{day: day, hour: hour}])
		}
	}

	return models.Heatmap{Days: days, Hours: hours, Values: values}
}

// compareCustomerID puts digit-only ids first, ordered by numeric value,
// then every other id in string order.
func compareCustomerID(a, b string) int {
	da, db := isDigits(a), isDigits(b)
	switch {
	case da && !db:
		return -1
	case !da && db:
		return 1
	case da && db:
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func limit[T any](items []T, n int) []T {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
