package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstock/internal/domain"
)

// SampleCategories is the category set seeded on first start.
func SampleCategories() []string {
	return []string{"Electronics", "Clothing", "Food", "Office Supplies", "Furniture"}
}

type sampleRow struct {
	id, name, category string
	qty                int
	price              string
	expiresIn          int // days from today, 0 means no expiry
	notes              string
	createdDaysAgo     int
}

var sampleRows = []sampleRow{
	{"1", "Laptop", "Electronics", 15, "999.99", 0, "High-end models", 30},
	{"2", "Smartphone", "Electronics", 25, "699.99", 0, "Latest models", 45},
	{"3", "T-shirt", "Clothing", 50, "19.99", 0, "Various sizes and colors", 60},
	{"4", "Jeans", "Clothing", 30, "49.99", 0, "All sizes", 15},
	{"5", "Milk", "Food", 4, "2.99", 5, "Refrigerated", 2},
	{"6", "Bread", "Food", 8, "3.49", 3, "Fresh baked", 1},
	{"7", "Notebook", "Office Supplies", 100, "4.99", 0, "Various colors", 90},
	{"8", "Pen", "Office Supplies", 200, "1.99", 0, "Blue ink", 100},
	{"9", "Office Chair", "Furniture", 5, "149.99", 0, "Ergonomic design", 120},
	{"10", "Desk", "Furniture", 3, "249.99", 0, "Wood finish", 150},
}

// SampleProducts builds the fixed seed product list relative to now.
func SampleProducts(now time.Time) []domain.Product {
	today := domain.DateOf(now, time.Local)
	out := make([]domain.Product, 0, len(sampleRows))
	for _, r := range sampleRows {
		p := domain.Product{
			ID:        r.id,
			Name:      r.name,
			Category:  r.category,
			Quantity:  r.qty,
			Price:     decimal.RequireFromString(r.price),
			Notes:     r.notes,
			CreatedAt: now.AddDate(0, 0, -r.createdDaysAgo),
		}
		if r.expiresIn > 0 {
			d := today.AddDays(r.expiresIn)
			p.ExpiryDate = &d
		}
		out = append(out, p)
	}
	return out
}
