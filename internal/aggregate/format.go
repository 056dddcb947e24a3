package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "£"

// FormatCurrency renders an amount as "£ 1,234.56".
func FormatCurrency(amount float64) string {
	return currencySymbol + " " + FormatNumber(amount, 2)
}

// FormatNumber rounds to places decimals and adds thousands separators.
func FormatNumber(value float64, places int32) string {
	s := decimal.NewFromFloat(value).StringFixed(places)

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return FormatNumber(float64(n), 0)
}
