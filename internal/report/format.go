package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/pkg/common"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders an amount as US dollars, e.g. "$1,234.56" or "-$3.50".
func FormatCurrency(v decimal.Decimal) string {
	rounded := v.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	whole := rounded.IntPart()
	cents := rounded.Sub(decimal.NewFromInt(whole)).StringFixed(2) // "0.xx"
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + "$" + p.Sprintf("%d", whole) + strings.TrimPrefix(cents, "0")
}

// FormatDate renders a date as "Jan 2, 2006", or N/A when absent.
func FormatDate(d *domain.Date) string {
	if d == nil || d.IsZero() {
		return common.NA
	}
	return d.Time(time.UTC).Format("Jan 2, 2006")
}

// FormatLongDate renders a date as "January 2, 2006".
func FormatLongDate(d domain.Date) string {
	if d.IsZero() {
		return common.NA
	}
	return d.Time(time.UTC).Format("January 2, 2006")
}
