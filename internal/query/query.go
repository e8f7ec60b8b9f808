// Package query runs the search, filter and sort pipeline over an inventory snapshot.
package query

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/stock"
	"golang.org/x/text/cases"
)

// CategoryAll disables the category filter.
const CategoryAll = "all"

type StockFilter string

const (
	StockAll StockFilter = "all"
	StockLow StockFilter = "low"
	StockOut StockFilter = "out"
)

type SortKey string

const (
	SortName       SortKey = "name"
	SortCategory   SortKey = "category"
	SortQuantity   SortKey = "quantity"
	SortPrice      SortKey = "price"
	SortExpiryDate SortKey = "expiryDate"
	SortCreatedAt  SortKey = "createdAt"
)

// Params selects and orders products. Zero values mean no filter and snapshot order.
type Params struct {
	Search    string
	Category  string
	Stock     StockFilter
	SortBy    SortKey
	Desc      bool
	Threshold int
}

// ParseStockFilter maps a request value to a StockFilter.
func ParseStockFilter(s string) (StockFilter, error) {
	switch StockFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", StockAll:
		return StockAll, nil
	case StockLow:
		return StockLow, nil
	case StockOut:
		return StockOut, nil
	}
	return "", errors.Errorf("unknown stock filter %q", s)
}

// ParseSortKey maps a request value to a SortKey. Blank means no sort.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return "", nil
	case "name":
		return SortName, nil
	case "category":
		return SortCategory, nil
	case "quantity":
		return SortQuantity, nil
	case "price":
		return SortPrice, nil
	case "expirydate", "expiry_date", "expiry":
		return SortExpiryDate, nil
	case "createdat", "created_at":
		return SortCreatedAt, nil
	}
	return "", errors.Errorf("unknown sort key %q", s)
}

// Run filters and sorts products without touching the input slice.
func Run(products []domain.Product, p Params) []domain.Product {
	// a Caser is stateful and must not be shared between goroutines
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(p.Search))
	out := make([]domain.Product, 0, len(products))
	for _, item := range products {
		if needle != "" && !strings.Contains(folder.String(item.Name), needle) {
			continue
		}
		if p.Category != "" && p.Category != CategoryAll && item.Category != p.Category {
			continue
		}
		switch p.Stock {
		case StockLow:
			if !stock.IsLow(item.Quantity, p.Threshold) {
				continue
			}
		case StockOut:
			if !stock.IsOut(item.Quantity) {
				continue
			}
		}
		out = append(out, item)
	}
	if p.SortBy != "" {
		Sort(out, p.SortBy, p.Desc)
	}
	return out
}

// Sort orders products in place, keeping snapshot order for equal keys.
// Products without an expiry date go last in ascending order.
func Sort(products []domain.Product, key SortKey, desc bool) {
	cmp := comparator(key, cases.Fold())
	sort.SliceStable(products, func(i, j int) bool {
		c := cmp(products[i], products[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func comparator(key SortKey, folder cases.Caser) func(a, b domain.Product) int {
	switch key {
	case SortName:
		return func(a, b domain.Product) int { return compareText(folder, a.Name, b.Name) }
	case SortCategory:
		return func(a, b domain.Product) int { return compareText(folder, a.Category, b.Category) }
	case SortQuantity:
		return func(a, b domain.Product) int { return compareInt(a.Quantity, b.Quantity) }
	case SortPrice:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortExpiryDate:
		return compareExpiry
	case SortCreatedAt:
		return func(a, b domain.Product) int {
			switch {
			case a.CreatedAt.Before(b.CreatedAt):
				return -1
			case a.CreatedAt.After(b.CreatedAt):
				return 1
			}
			return 0
		}
	}
	return func(a, b domain.Product) int { return 0 }
}

func compareText(folder cases.Caser, a, b string) int {
	fa, fb := folder.String(a), folder.String(b)
	if c := strings.Compare(fa, fb); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// a missing expiry date compares greater than any date
func compareExpiry(a, b domain.Product) int {
	ha, hb := a.HasExpiry(), b.HasExpiry()
	switch {
	case !ha && !hb:
		return 0
	case !ha:
		return 1
	case !hb:
		return -1
	}
	return a.ExpiryDate.Compare(*b.ExpiryDate)
}
