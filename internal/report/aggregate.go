// Package report derives read-only statistics from an inventory snapshot.
package report

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/stock"
)

// DefaultTopN is the size of the top-by-value list.
const DefaultTopN = 5

// CategoryStat is the product count and summed quantity of one category.
type CategoryStat struct {
	Category      string `json:"category" csv:"category"`
	Count         int    `json:"count" csv:"count"`
	TotalQuantity int    `json:"totalQuantity" csv:"total_quantity"`
}

// CategoryStats returns one entry per category in the set, in set order, including
// categories without products.
func CategoryStats(snap domain.Snapshot) []CategoryStat {
	idx := make(map[string]int, len(snap.Categories))
	out := make([]CategoryStat, len(snap.Categories))
	for i, c := range snap.Categories {
		out[i] = CategoryStat{Category: c}
		idx[c] = i
	}
	for _, p := range snap.Products {
		i, ok := idx[p.Category]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].TotalQuantity += p.Quantity
	}
	return out
}

// LowStock selects products with quantity at or below threshold.
func LowStock(products []domain.Product, threshold int) []domain.Product {
	return filter(products, func(p domain.Product) bool {
		return stock.IsLow(p.Quantity, threshold)
	})
}

// OutOfStock selects products with no quantity left.
func OutOfStock(products []domain.Product) []domain.Product {
	return filter(products, func(p domain.Product) bool {
		return stock.IsOut(p.Quantity)
	})
}

// Expiring selects products expiring between today and today+days, both inclusive.
func Expiring(products []domain.Product, today domain.Date, days int) []domain.Product {
	if days < 0 {
		days = stock.DefaultExpiryWarningDays
	}
	return filter(products, func(p domain.Product) bool {
		return stock.IsExpiring(p, today, days)
	})
}

// Expired selects products whose expiry date is before today.
func Expired(products []domain.Product, today domain.Date) []domain.Product {
	return filter(products, func(p domain.Product) bool {
		return stock.IsExpired(p, today)
	})
}

// InventoryValue sums price × quantity over all products.
func InventoryValue(products []domain.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Value())
	}
	return total
}

// TotalQuantity sums quantities over all products.
func TotalQuantity(products []domain.Product) int {
	n := 0
	for _, p := range products {
		n += p.Quantity
	}
	return n
}

// ValuedProduct is a product with its computed value.
type ValuedProduct struct {
	domain.Product
	TotalValue decimal.Decimal `json:"totalValue"`
}

// TopByValue returns the n most valuable products, highest first. Equal values keep
// snapshot order. n <= 0 means DefaultTopN.
func TopByValue(products []domain.Product, n int) []ValuedProduct {
	if n <= 0 {
		n = DefaultTopN
	}
	rows := make([]ValuedProduct, len(products))
	for i, p := range products {
		rows[i] = ValuedProduct{Product: p, TotalValue: p.Value()}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalValue.GreaterThan(rows[j].TotalValue)
	})
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// UncategorizedCount returns how many products reference a category outside the set.
// The Store keeps this at zero.
func UncategorizedCount(snap domain.Snapshot) int {
	n := 0
	for _, p := range snap.Products {
		if !snap.HasCategory(p.Category) {
			n++
		}
	}
	return n
}

func filter(products []domain.Product, keep func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
