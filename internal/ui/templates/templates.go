// Package templates renders the dashboard page and the fragments patched
// into it over SSE.
package templates

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/a-h/templ"

	"ecommerce-dashboard/internal/aggregate"
	"ecommerce-dashboard/internal/models"
)

//go:embed *.html
var files embed.FS

var views = template.Must(template.New("views").Funcs(template.FuncMap{
	"currency":  aggregate.FormatCurrency,
	"count":     aggregate.FormatCount,
	"quantity":  func(v float64) string { return aggregate.FormatNumber(v, 0) },
	"longDate":  func(t time.Time) string { return t.Format("02 Jan 2006") },
	"timestamp": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	"rank":      func(i int) int { return i + 1 },
	"heat":      heatLevel,
	"customer": func(id string) string {
		if id == "" {
			return "-"
		}
		return id
	},
}).ParseFS(files, "*.html"))

const heatLevels = 5

// heatLevel buckets a cell into 0..heatLevels for the colour scale.
func heatLevel(value, peak int) int {
	if value <= 0 || peak <= 0 {
		return 0
	}
	level := (value*heatLevels + peak - 1) / peak
	return min(level, heatLevels)
}

type PageProps struct {
	Countries []string
	StartDate string
	EndDate   string
	Country   string
	MinDate   string
	MaxDate   string
	TotalRows int
}

// Signals is the initial Datastar signal set for the page.
func (p PageProps) Signals() string {
	b, _ := json.Marshal(map[string]any{
		"startDate":     p.StartDate,
		"endDate":       p.EndDate,
		"country":       p.Country,
		"tab":           "dashboard",
		"monthlyData":   map[string]any{"labels": []string{}, "values": []float64{}},
		"dayPeriodData": map[string]any{"labels": []string{}, "values": []int{}},
		"hourlyData":    map[string]any{"labels": []string{}, "values": []int{}},
	})
	return string(b)
}

func Dashboard(p PageProps) templ.Component {
	return templ.FromGoHTML(views.Lookup("page"), p)
}

// Alert replaces the banner above the dashboard. An empty message clears it.
func Alert(severity, message string) templ.Component {
	return templ.FromGoHTML(views.Lookup("alert"), struct {
		Severity string
		Message  string
	}{severity, message})
}

type sectionsView struct {
	*models.Dashboard
	HeatMax int
}

// Sections renders every id-addressed block of the dashboard for d.
func Sections(d *models.Dashboard) templ.Component {
	view := sectionsView{Dashboard: d}
	for _, row := range d.Heatmap.Values {
		for _, v := range row {
			view.HeatMax = max(view.HeatMax, v)
		}
	}
	return templ.FromGoHTML(views.Lookup("sections"), view)
}

// ClearedSections empties every block Sections fills, so a rejected range
// leaves no figures from an earlier one on the page.
func ClearedSections() templ.Component {
	return templ.FromGoHTML(views.Lookup("cleared"), nil)
}

// RenderString renders c into a string for an SSE patch.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
