// Package stock classifies products by stock level and expiry.
package stock

import (
	"fmt"

	"github.com/talkincode/toughstock/internal/domain"
)

const (
	// DefaultLowStockThreshold is the quantity at or below which stock is low.
	DefaultLowStockThreshold = 5
	// DefaultExpiryWarningDays is how close an expiry date must be to warn.
	DefaultExpiryWarningDays = 7
)

// Stock status labels.
const (
	OutOfStock = "Out of Stock"
	LowStock   = "Low Stock"
	InStock    = "In Stock"
)

// Expiry status labels.
const (
	NoExpiry = "No Expiry"
	Expired  = "Expired"
)

// Level tells the presentation layer how prominent a status is.
type Level string

const (
	LevelNeutral Level = "neutral"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
	LevelSuccess Level = "success"
)

// Status is a classification result.
type Status struct {
	Label string `json:"label"`
	Level Level  `json:"level"`
	// DaysLeft is the whole number of calendar days until expiry; negative once expired.
	// Zero for stock statuses and products without an expiry date.
	DaysLeft int `json:"daysLeft,omitempty"`
}

// StockStatus classifies qty. A threshold <= 0 falls back to DefaultLowStockThreshold.
func StockStatus(qty, threshold int) Status {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	switch {
	case qty <= 0:
		return Status{Label: OutOfStock, Level: LevelDanger}
	case qty <= threshold:
		return Status{Label: LowStock, Level: LevelWarning}
	default:
		return Status{Label: InStock, Level: LevelSuccess}
	}
}

// ExpiryStatus classifies an optional expiry date against today using the default
// warning window.
func ExpiryStatus(expiry *domain.Date, today domain.Date) Status {
	return ExpiryStatusWithin(expiry, today, DefaultExpiryWarningDays)
}

// ExpiryStatusWithin is ExpiryStatus with an explicit warning window.
func ExpiryStatusWithin(expiry *domain.Date, today domain.Date, warnDays int) Status {
	if expiry == nil || expiry.IsZero() {
		return Status{Label: NoExpiry, Level: LevelNeutral}
	}
	days := today.DaysUntil(*expiry)
	if days < 0 {
		return Status{Label: Expired, Level: LevelDanger, DaysLeft: days}
	}
	level := LevelNeutral
	if days <= warnDays {
		level = LevelWarning
	}
	return Status{Label: fmt.Sprintf("Expires in %d days", days), Level: level, DaysLeft: days}
}

// IsLow reports quantity <= threshold, out of stock included.
func IsLow(qty, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return qty <= threshold
}

// IsOut reports quantity <= 0.
func IsOut(qty int) bool {
	return qty <= 0
}

// IsExpired reports an expiry date strictly before today.
func IsExpired(p domain.Product, today domain.Date) bool {
	return p.HasExpiry() && p.ExpiryDate.Before(today)
}

// IsExpiring reports today <= expiry <= today+days.
func IsExpiring(p domain.Product, today domain.Date, days int) bool {
	if !p.HasExpiry() {
		return false
	}
	d := *p.ExpiryDate
	return !d.Before(today) && !d.After(today.AddDays(days))
}
