package templates

import (
	"context"
	"strings"
	"testing"
	"time"

	"ecommerce-dashboard/internal/models"
)

func testDashboard() *models.Dashboard {
	return &models.Dashboard{
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Country:   "France",
		Summary: models.SummaryMetrics{
			TotalCustomers:    1200,
			TotalOrders:       3,
			TotalProductsSold: 42,
			TotalSales:        1234.5,
		},
		TopBySales:  []models.CustomerSales{{CustomerID: "17850", TotalSales: 99.9}},
		TopByOrders: []models.CustomerOrders{{CustomerID: "12345", TotalOrders: 2}},
		Heatmap: models.Heatmap{
			Days:   []string{"Monday", "Tuesday"},
			Hours:  []int{9, 13},
			Values: [][]int{{4, 0}, {1, 2}},
		},
		Rows: []models.Transaction{
			{InvoiceNo: "536365", Country: "France", InvoiceDate: time.Date(2024, 1, 1, 9, 5, 0, 0, time.UTC), Sales: 15.3},
		},
		RowCount:  3,
		TotalRows: 10,
	}
}

func TestSections(t *testing.T) {
	html, err := RenderString(context.Background(), Sections(testDashboard()))
	if err != nil {
		t.Fatalf("Sections() render failed: %v", err)
	}

	expected := []string{
		`<div id="alert"></div>`,
		"Berdasarkan data dari rentang tanggal <strong>01 Jan 2024</strong> hingga <strong>31 Jan 2024</strong>",
		"1,200",
		"£ 1,234.50",
		"Sales Trend in France",
		"Top 10 Customers by Sales in France",
		"17850",
		`<td class="heat-5">4</td>`,
		`<td class="heat-0">0</td>`,
		"Jumlah baris data yang ditampilkan 3 dari total keseluruhan 10",
		"Showing the first 1 rows.",
		"2024-01-01 09:05",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("expected HTML to contain %q", want)
		}
	}
}

func TestSections_Escapes(t *testing.T) {
	d := testDashboard()
	d.Country = `<script>alert(1)</script>`

	html, err := RenderString(context.Background(), Sections(d))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("country must be escaped")
	}
}

func TestAlert(t *testing.T) {
	tests := []struct {
		severity string
		message  string
		want     string
	}{
		{"warning", "Pilih rentang tanggal yang lengkap (start date dan end date).", `class="alert alert-warning"`},
		{"error", "Tanggal mulai tidak boleh lebih dari tanggal akhir", `class="alert alert-error"`},
		{"", "", `<div id="alert"></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.severity, func(t *testing.T) {
			html, err := RenderString(context.Background(), Alert(tt.severity, tt.message))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(html, tt.want) || !strings.Contains(html, tt.message) {
				t.Errorf("Alert() = %s", html)
			}
		})
	}
}

func TestClearedSections(t *testing.T) {
	html, err := RenderString(context.Background(), ClearedSections())
	if err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"context", "summary", "trend-title", "period-title", "hourly-title", "top-sales", "top-orders", "heatmap", "dataset"} {
		if !strings.Contains(html, `id="`+id+`"`) {
			t.Errorf("ClearedSections() missing #%s", id)
		}
	}
	// the banner is patched on its own after the sections
	for _, unwanted := range []string{`id="alert"`, "<table", "<strong>"} {
		if strings.Contains(html, unwanted) {
			t.Errorf("ClearedSections() should not contain %q", unwanted)
		}
	}
}

func TestDashboardPage(t *testing.T) {
	props := PageProps{
		Countries: []string{"All Countries", "United Kingdom", "France"},
		StartDate: "2010-12-01",
		EndDate:   "2011-12-09",
		Country:   "All Countries",
		MinDate:   "2010-12-01",
		MaxDate:   "2011-12-09",
		TotalRows: 541909,
	}

	html, err := RenderString(context.Background(), Dashboard(props))
	if err != nil {
		t.Fatalf("Dashboard() render failed: %v", err)
	}

	expected := []string{
		"<!DOCTYPE html>",
		`data-bind="startDate"`,
		`min="2010-12-01"`,
		`<option value="All Countries" selected>`,
		`<option value="France">`,
		"/sse/dashboard",
		"/sse/reset",
		"541,909 rows loaded.",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
}

func TestHeatLevel(t *testing.T) {
	tests := []struct {
		value, peak, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{5, 10, 3},
		{10, 10, 5},
		{3, 0, 0},
	}
	for _, tt := range tests {
		if got := heatLevel(tt.value, tt.peak); got != tt.want {
			t.Errorf("heatLevel(%d, %d) = %d, want %d", tt.value, tt.peak, got, tt.want)
		}
	}
}
