package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"ecommerce-dashboard/internal/dataset"
	"ecommerce-dashboard/internal/models"
	"ecommerce-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func createTestAnalytics() *services.Analytics {
	a := services.NewAnalytics(nil, services.WithLogger(testLogger()))
	testData := []models.Transaction{
		{
			InvoiceNo:   "536365",
			CustomerID:  "17850",
			Country:     "United Kingdom",
			InvoiceDate: time.Date(2023, 1, 15, 8, 26, 0, 0, time.UTC),
			InvoiceHour: 8,
			DayOfWeek:   "Sunday",
			DayPeriod:   dataset.PeriodMorning,
			Quantity:    6,
			Sales:       15.3,
		},
		{
			InvoiceNo:   "536366",
			CustomerID:  "13047",
			Country:     "France",
			InvoiceDate: time.Date(2023, 2, 10, 14, 0, 0, 0, time.UTC),
			InvoiceHour: 14,
			DayOfWeek:   "Friday",
			DayPeriod:   dataset.PeriodAfternoon,
			Quantity:    2,
			Sales:       59.98,
		},
		{
			InvoiceNo:   "536367",
			CustomerID:  "",
			Country:     "United Kingdom",
			InvoiceDate: time.Date(2023, 3, 5, 19, 30, 0, 0, time.UTC),
			InvoiceHour: 19,
			DayOfWeek:   "Sunday",
			DayPeriod:   dataset.PeriodEvening,
			Quantity:    1,
			Sales:       79.99,
		},
	}
	a.SetData(testData)
	return a
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected content-type 'application/json', got %q", ct)
	}
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	return env
}

func TestNewAPIHandlers(t *testing.T) {
	analytics := createTestAnalytics()
	handlers := NewAPIHandlers(analytics, slog.Default())

	if handlers == nil {
		t.Fatal("NewAPIHandlers() returned nil")
	}
	if handlers.analytics != analytics {
		t.Error("NewAPIHandlers() should set analytics field")
	}
}

func TestAPIHandlers_HandleDashboard(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantRows   int
		wantOrders int
	}{
		{"defaults to full span", "", http.StatusOK, "", 3, 3},
		{"country only", "?country=United+Kingdom", http.StatusOK, "", 2, 2},
		{"explicit range", "?start=2023-02-01&end=2023-02-28", http.StatusOK, "", 1, 1},
		{"single day", "?start=2023-01-15&end=2023-01-15&country=All+Countries", http.StatusOK, "", 1, 1},
		{"unknown country", "?start=2023-01-01&end=2023-12-31&country=Atlantis", http.StatusOK, "", 0, 0},
		{"missing end", "?start=2023-01-01", http.StatusBadRequest, "INCOMPLETE_RANGE", 0, 0},
		{"start after end", "?start=2023-03-01&end=2023-01-01", http.StatusBadRequest, "INVALID_RANGE", 0, 0},
		{"malformed date", "?start=01/01/2023&end=2023-01-31", http.StatusBadRequest, "INVALID_RANGE", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/dashboard"+tt.query, nil)
			w := httptest.NewRecorder()

			handlers.HandleDashboard(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			env := decodeEnvelope(t, w)

			if tt.wantCode != "" {
				if env.Success || env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("expected error code %s, got %+v", tt.wantCode, env.Error)
				}
				return
			}

			var d models.Dashboard
			if err := json.Unmarshal(env.Data, &d); err != nil {
				t.Fatalf("decode dashboard: %v", err)
			}
			if d.RowCount != tt.wantRows || d.Summary.TotalOrders != tt.wantOrders {
				t.Errorf("rows = %d, orders = %d; want %d, %d", d.RowCount, d.Summary.TotalOrders, tt.wantRows, tt.wantOrders)
			}
			if d.TotalRows != 3 {
				t.Errorf("total rows = %d, want 3", d.TotalRows)
			}
			if len(d.Heatmap.Days) != 7 {
				t.Errorf("heatmap should always have 7 rows, got %d", len(d.Heatmap.Days))
			}
		})
	}
}

func TestAPIHandlers_IncompleteRangeMessage(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard?end=2023-01-01", nil)
	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, req)

	env := decodeEnvelope(t, w)
	want := "Pilih rentang tanggal yang lengkap (start date dan end date)."
	if env.Error == nil || env.Error.Message != want {
		t.Errorf("message = %+v, want %q", env.Error, want)
	}
}

func TestAPIHandlers_HandleCountries(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	w := httptest.NewRecorder()
	handlers.HandleCountries(w, req)

	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=300" {
		t.Errorf("expected cache-control 'public, max-age=300', got %q", cc)
	}

	env := decodeEnvelope(t, w)
	var countries []string
	if err := json.Unmarshal(env.Data, &countries); err != nil {
		t.Fatal(err)
	}
	want := []string{"All Countries", "United Kingdom", "France"}
	if len(countries) != len(want) {
		t.Fatalf("countries = %v, want %v", countries, want)
	}
	for i := range want {
		if countries[i] != want[i] {
			t.Errorf("countries[%d] = %q, want %q", i, countries[i], want[i])
		}
	}
}

func TestAPIHandlers_HandleDateRange(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/date-range", nil)
	w := httptest.NewRecorder()
	handlers.HandleDateRange(w, req)

	env := decodeEnvelope(t, w)
	var span map[string]string
	if err := json.Unmarshal(env.Data, &span); err != nil {
		t.Fatal(err)
	}
	if span["start"] != "2023-01-15" || span["end"] != "2023-03-05" {
		t.Errorf("date range = %v", span)
	}
}

func TestAPIHandlers_HandleHealth(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handlers.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	// Health endpoint should NOT have cache-control header
	if cc := w.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("health endpoint should not set cache-control, got %q", cc)
	}

	env := decodeEnvelope(t, w)
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["status"] != "healthy" {
		t.Errorf("expected status 'healthy', got %q", data["status"])
	}
	if _, err := time.Parse(time.RFC3339, data["timestamp"]); err != nil {
		t.Errorf("invalid timestamp format: %v", err)
	}
}

func TestAPIHandlers_HandleStats(t *testing.T) {
	handlers := NewAPIHandlers(createTestAnalytics(), slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	w := httptest.NewRecorder()

	handlers.HandleStats(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	env := decodeEnvelope(t, w)
	var stats map[string]any
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatal(err)
	}
	if stats["record_count"] != float64(3) {
		t.Errorf("record_count = %v, want 3", stats["record_count"])
	}
}
