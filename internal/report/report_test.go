package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstock/internal/domain"
)

var today = domain.NewDate(2024, 3, 10)

func at(days int) *domain.Date {
	d := today.AddDays(days)
	return &d
}

func product(id, name, category string, qty int, price string, expiry *domain.Date) domain.Product {
	return domain.Product{
		ID:         id,
		Name:       name,
		Category:   category,
		Quantity:   qty,
		Price:      decimal.RequireFromString(price),
		ExpiryDate: expiry,
		CreatedAt:  time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func snapshot() domain.Snapshot {
	return domain.Snapshot{
		Products: []domain.Product{
			product("1", "Laptop", "Electronics", 15, "999.99", nil),
			product("2", "T-shirt", "Clothing", 50, "19.99", nil),
			product("3", "Milk", "Food", 4, "2.99", at(5)),
			product("4", "Bread", "Food", 0, "3.49", at(-2)),
			product("5", "Yogurt", "Food", 10, "1.25", at(0)),
			product("6", "Cheese", "Food", 6, "5.00", at(7)),
			product("7", "Butter", "Food", 8, "4.00", at(8)),
		},
		Categories: []string{"Electronics", "Clothing", "Food", "Garden"},
	}
}

func TestInventoryValueIsCentExact(t *testing.T) {
	products := []domain.Product{
		product("1", "Laptop", "Electronics", 15, "999.99", nil),
		product("2", "T-shirt", "Clothing", 50, "19.99", nil),
	}
	assert.Equal(t, "15999.35", InventoryValue(products).StringFixed(2))

	many := make([]domain.Product, 0, 1000)
	for i := 0; i < 1000; i++ {
		many = append(many, product("x", "Pen", "Office", 1, "0.10", nil))
	}
	assert.True(t, InventoryValue(many).Equal(decimal.NewFromInt(100)))
	assert.True(t, InventoryValue(nil).IsZero())
}

func TestCategoryStats(t *testing.T) {
	stats := CategoryStats(snapshot())
	assert.Equal(t, []CategoryStat{
		{Category: "Electronics", Count: 1, TotalQuantity: 15},
		{Category: "Clothing", Count: 1, TotalQuantity: 50},
		{Category: "Food", Count: 5, TotalQuantity: 28},
		{Category: "Garden", Count: 0, TotalQuantity: 0},
	}, stats)
}

func TestSelectors(t *testing.T) {
	snap := snapshot()
	names := func(products []domain.Product) []string {
		out := make([]string, 0, len(products))
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Milk", "Bread"}, names(LowStock(snap.Products, 5)))
	assert.Equal(t, []string{"Milk", "Bread", "Cheese"}, names(LowStock(snap.Products, 6)))
	assert.Equal(t, []string{"Bread"}, names(OutOfStock(snap.Products)))
	assert.Equal(t, []string{"Milk", "Yogurt", "Cheese"}, names(Expiring(snap.Products, today, 7)))
	assert.Equal(t, []string{"Bread"}, names(Expired(snap.Products, today)))
	assert.Empty(t, Expired(nil, today))
	assert.Equal(t, 93, TotalQuantity(snap.Products))
}

func TestTopByValue(t *testing.T) {
	products := []domain.Product{
		product("1", "A", "X", 2, "10", nil),
		product("2", "B", "X", 1, "100", nil),
		product("3", "C", "X", 4, "5", nil),
		product("4", "D", "X", 20, "1", nil),
		product("5", "E", "X", 0, "500", nil),
	}
	top := TopByValue(products, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].Name)
	// A and C tie at 20.00, D as well; snapshot order wins
	assert.Equal(t, "A", top[1].Name)
	assert.Equal(t, "C", top[2].Name)
	assert.Equal(t, "20", top[1].TotalValue.String())

	assert.Len(t, TopByValue(products, 0), DefaultTopN)
	assert.Len(t, TopByValue(products[:2], 10), 2)
}

func TestBuildOverview(t *testing.T) {
	ov := BuildOverview(snapshot(), today, Options{})
	assert.Equal(t, 7, ov.TotalProducts)
	assert.Equal(t, 93, ov.TotalItems)
	assert.Equal(t, 4, ov.CategoryCount)
	assert.Equal(t, 1, ov.OutOfStock)
	assert.Equal(t, 2, ov.LowStock)
	assert.Equal(t, 3, ov.Expiring)
	assert.Equal(t, 1, ov.Expired)
	assert.Equal(t, 0, ov.Uncategorized)
	assert.Len(t, ov.TopByValue, DefaultTopN)
	assert.Equal(t, "Laptop", ov.TopByValue[0].Name)
	assert.Equal(t, float64(0), ov.Quantities.Min)
	assert.Equal(t, float64(50), ov.Quantities.Max)
	assert.Equal(t, float64(8), ov.Quantities.Median)

	empty := BuildOverview(domain.Snapshot{}, today, DefaultOptions())
	assert.Equal(t, 0, empty.TotalProducts)
	assert.True(t, empty.TotalValue.IsZero())
	assert.Equal(t, Distribution{}, empty.Quantities)
}

func TestUncategorizedCount(t *testing.T) {
	snap := snapshot()
	snap.Products = append(snap.Products, product("8", "Hose", "Outdoor", 1, "12", nil))
	assert.Equal(t, 1, UncategorizedCount(snap))
}

func TestCategoryAnalysis(t *testing.T) {
	snap := domain.Snapshot{
		Products: []domain.Product{
			product("1", "A", "X", 1, "30", nil),
			product("2", "B", "X", 1, "10", nil),
			product("3", "C", "Y", 2, "30", nil),
		},
		Categories: []string{"X", "Y", "Z"},
	}
	rows := CategoryAnalysis(snap)
	require.Len(t, rows, 3)

	assert.Equal(t, "X", rows[0].Category)
	assert.Equal(t, "40", rows[0].TotalValue.String())
	assert.Equal(t, "20", rows[0].AveragePrice.String())
	assert.Equal(t, "66.7", rows[0].ProductShare.String())
	assert.Equal(t, "40", rows[0].ValueShare.String())

	assert.Equal(t, "60", rows[1].ValueShare.String())
	assert.True(t, rows[2].AveragePrice.IsZero())
	assert.True(t, rows[2].ValueShare.IsZero())

	for _, r := range CategoryAnalysis(domain.Snapshot{Categories: []string{"X"}}) {
		assert.True(t, r.ProductShare.IsZero())
		assert.True(t, r.ValueShare.IsZero())
	}
}

func TestExpiryRows(t *testing.T) {
	rows := ExpiryRows(snapshot().Products, today, 7)
	require.Len(t, rows, 5)
	assert.Equal(t, "Milk", rows[0].Name)
	assert.Equal(t, 5, rows[0].DaysLeft)
	assert.Equal(t, -2, rows[1].DaysLeft)
	assert.Equal(t, "Expired", rows[1].Status.Label)
}

func TestFormatCurrency(t *testing.T) {
	testCases := map[string]string{
		"0":        "$0.00",
		"2.99":     "$2.99",
		"1234.5":   "$1,234.50",
		"15999.35": "$15,999.35",
		"1000000":  "$1,000,000.00",
		"-3.5":     "-$3.50",
		"0.005":    "$0.01",
	}
	for in, want := range testCases {
		assert.Equal(t, want, FormatCurrency(decimal.RequireFromString(in)), in)
	}
}

func TestFormatDate(t *testing.T) {
	d := domain.NewDate(2024, 3, 5)
	assert.Equal(t, "Mar 5, 2024", FormatDate(&d))
	assert.Equal(t, "N/A", FormatDate(nil))
	assert.Equal(t, "N/A", FormatDate(&domain.Date{}))
	assert.Equal(t, "March 5, 2024", FormatLongDate(d))
}

func TestWriteProductsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteProductsCSV(&buf, snapshot().Products, today, DefaultOptions()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "id,name,category,quantity,price,value,expiry_date,stock_status,expiry_status,notes,created_at", lines[0])
	assert.Equal(t, "3,Milk,Food,4,2.99,11.96,2024-03-15,Low Stock,Expires in 5 days,,2024-03-01 09:00:00", lines[3])
	assert.Contains(t, lines[1], "No Expiry")
}

func TestWriteCategoriesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCategoriesCSV(&buf, snapshot()))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "category,count,total_quantity,total_value,average_price,product_share_pct,value_share_pct", lines[0])
	assert.True(t, strings.HasPrefix(lines[4], "Garden,0,0,0.00,0.00,0.0,0.0"))
}

func TestWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, snapshot(), today, DefaultOptions()))

	xlsx, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	sheets := map[string]bool{}
	for _, name := range xlsx.GetSheetMap() {
		sheets[name] = true
	}
	assert.True(t, sheets[sheetSummary])
	assert.True(t, sheets[sheetProducts])
	assert.True(t, sheets[sheetCategories])

	assert.Equal(t, "Report Date", xlsx.GetCellValue(sheetSummary, "A1"))
	assert.Equal(t, "March 10, 2024", xlsx.GetCellValue(sheetSummary, "B1"))
	assert.Equal(t, "Name", xlsx.GetCellValue(sheetProducts, "B1"))
	assert.Equal(t, "Laptop", xlsx.GetCellValue(sheetProducts, "B2"))
	assert.Equal(t, "Garden", xlsx.GetCellValue(sheetCategories, "A5"))
}
