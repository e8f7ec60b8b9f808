package query

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talkincode/toughstock/internal/domain"
)

func date(y int, m time.Month, d int) *domain.Date {
	v := domain.NewDate(y, m, d)
	return &v
}

func fixture() []domain.Product {
	return []domain.Product{
		{ID: "1", Name: "Laptop", Category: "Electronics", Quantity: 15, Price: decimal.RequireFromString("999.99")},
		{ID: "2", Name: "laptop bag", Category: "Electronics", Quantity: 3, Price: decimal.RequireFromString("39.99")},
		{ID: "3", Name: "Milk", Category: "Food", Quantity: 4, Price: decimal.RequireFromString("2.99"), ExpiryDate: date(2024, 3, 15)},
		{ID: "4", Name: "Bread", Category: "Food", Quantity: 0, Price: decimal.RequireFromString("3.49"), ExpiryDate: date(2024, 3, 13)},
		{ID: "5", Name: "Desk", Category: "Furniture", Quantity: 3, Price: decimal.RequireFromString("249.99")},
		{ID: "6", Name: "Cheese", Category: "Food", Quantity: 20, Price: decimal.RequireFromString("2.99"), ExpiryDate: date(2024, 3, 13)},
	}
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestRunFilters(t *testing.T) {
	testCases := []struct {
		name   string
		params Params
		want   []string
	}{
		{"no filter keeps order", Params{}, []string{"1", "2", "3", "4", "5", "6"}},
		{"search is case insensitive", Params{Search: "LAPTOP"}, []string{"1", "2"}},
		{"search substring", Params{Search: " ilk"}, []string{"3"}},
		{"category exact", Params{Category: "Food"}, []string{"3", "4", "6"}},
		{"category all", Params{Category: CategoryAll}, []string{"1", "2", "3", "4", "5", "6"}},
		{"category is not a substring match", Params{Category: "Foo"}, []string{}},
		{"low stock", Params{Stock: StockLow}, []string{"2", "3", "4", "5"}},
		{"low stock custom threshold", Params{Stock: StockLow, Threshold: 3}, []string{"2", "4", "5"}},
		{"out of stock", Params{Stock: StockOut}, []string{"4"}},
		{"combined", Params{Category: "Food", Stock: StockLow, Search: "m"}, []string{"3"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Run(fixture(), tc.params)))
		})
	}
}

func TestRunSorts(t *testing.T) {
	testCases := []struct {
		name string
		key  SortKey
		desc bool
		want []string
	}{
		{"name asc", SortName, false, []string{"4", "6", "5", "1", "2", "3"}},
		{"name desc", SortName, true, []string{"3", "2", "1", "5", "6", "4"}},
		{"quantity asc stable", SortQuantity, false, []string{"4", "2", "5", "3", "1", "6"}},
		{"price asc stable", SortPrice, false, []string{"3", "6", "4", "2", "5", "1"}},
		{"category asc stable", SortCategory, false, []string{"1", "2", "3", "4", "6", "5"}},
		{"expiry asc undated last", SortExpiryDate, false, []string{"4", "6", "3", "1", "2", "5"}},
		{"expiry desc undated first", SortExpiryDate, true, []string{"1", "2", "5", "3", "4", "6"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(Run(fixture(), Params{SortBy: tc.key, Desc: tc.desc})))
		})
	}
}

func TestFiltersCommute(t *testing.T) {
	products := fixture()
	a := Run(Run(products, Params{Category: "Food"}), Params{Stock: StockLow})
	b := Run(Run(products, Params{Stock: StockLow}), Params{Category: "Food"})
	assert.Equal(t, ids(a), ids(b))
	assert.Equal(t, ids(a), ids(Run(products, Params{Category: "Food", Stock: StockLow})))
}

func TestRunDoesNotMutateInput(t *testing.T) {
	products := fixture()
	before := ids(products)
	out := Run(products, Params{SortBy: SortName, Desc: true})
	require.NotEmpty(t, out)
	assert.Equal(t, before, ids(products))

	out[0].Name = "changed"
	assert.NotEqual(t, "changed", products[0].Name)
}

func TestRunEmptyInput(t *testing.T) {
	out := Run(nil, Params{Search: "x", SortBy: SortPrice})
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestParseStockFilter(t *testing.T) {
	f, err := ParseStockFilter("")
	require.NoError(t, err)
	assert.Equal(t, StockAll, f)
	f, err = ParseStockFilter("LOW")
	require.NoError(t, err)
	assert.Equal(t, StockLow, f)
	_, err = ParseStockFilter("some")
	assert.Error(t, err)
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{
		"":           "",
		"Name":       SortName,
		"expiryDate": SortExpiryDate,
		"expiry":     SortExpiryDate,
		"created_at": SortCreatedAt,
	} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSortKey("weight")
	assert.Error(t, err)
}
