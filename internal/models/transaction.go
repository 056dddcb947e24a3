package models

import "time"

// Transaction is one line item of an invoice.
type Transaction struct {
	InvoiceNo   string    `json:"invoice_no"`
	CustomerID  string    `json:"customer_id"` // empty when the source row has no customer
	Country     string    `json:"country"`
	InvoiceDate time.Time `json:"invoice_date"`
	InvoiceHour int       `json:"invoice_hour"`
	DayOfWeek   string    `json:"day_of_week"`
	DayPeriod   string    `json:"day_period"`
	Quantity    float64   `json:"quantity"`
	Sales       float64   `json:"sales"`
}

type SummaryMetrics struct {
	TotalCustomers    int     `json:"total_customers"`
	TotalOrders       int     `json:"total_orders"`
	TotalProductsSold float64 `json:"total_products_sold"`
	TotalSales        float64 `json:"total_sales"`
}

type MonthlySales struct {
	Month      time.Time `json:"month"`
	TotalSales float64   `json:"total_sales"`
}

type CustomerSales struct {
	CustomerID string  `json:"customer_id"`
	TotalSales float64 `json:"total_sales"`
}

type CustomerOrders struct {
	CustomerID  string `json:"customer_id"`
	TotalOrders int    `json:"total_orders"`
}

type DayPeriodOrders struct {
	DayPeriod   string `json:"day_period"`
	TotalOrders int    `json:"total_orders"`
}

type HourlyOrders struct {
	Hour        int `json:"hour"`
	TotalOrders int `json:"total_orders"`
}

// Heatmap is a dense day-by-hour matrix of distinct invoice counts.
// Values[i][j] is the count for Days[i] at Hours[j].
type Heatmap struct {
	Days   []string `json:"days"`
	Hours  []int    `json:"hours"`
	Values [][]int  `json:"values"`
}

// Dashboard is everything rendered for one filter selection.
type Dashboard struct {
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	Country         string            `json:"country"`
	Summary         SummaryMetrics    `json:"summary"`
	MonthlyTrend    []MonthlySales    `json:"monthly_trend"`
	TopBySales      []CustomerSales   `json:"top_customers_by_sales"`
	TopByOrders     []CustomerOrders  `json:"top_customers_by_orders"`
	DayPeriodOrders []DayPeriodOrders `json:"orders_by_day_period"`
	HourlyOrders    []HourlyOrders    `json:"orders_by_hour"`
	Heatmap         Heatmap           `json:"day_hour_heatmap"`
	Rows            []Transaction     `json:"rows"`
	RowCount        int               `json:"row_count"`
	TotalRows       int               `json:"total_rows"`
}
