package report

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/stock"
)

// Options are the thresholds shared by every report.
type Options struct {
	LowStockThreshold int
	ExpiryWindowDays  int
	TopN              int
}

// DefaultOptions mirrors the stock package defaults.
func DefaultOptions() Options {
	return Options{
		LowStockThreshold: stock.DefaultLowStockThreshold,
		ExpiryWindowDays:  stock.DefaultExpiryWarningDays,
		TopN:              DefaultTopN,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.LowStockThreshold <= 0 {
		o.LowStockThreshold = d.LowStockThreshold
	}
	if o.ExpiryWindowDays <= 0 {
		o.ExpiryWindowDays = d.ExpiryWindowDays
	}
	if o.TopN <= 0 {
		o.TopN = d.TopN
	}
	return o
}

// Distribution summarizes per-product quantities.
type Distribution struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	StdDev float64 `json:"stdDev"`
}

// Overview is the dashboard summary.
type Overview struct {
	Date          domain.Date     `json:"date"`
	TotalProducts int             `json:"totalProducts"`
	TotalItems    int             `json:"totalItems"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	CategoryCount int             `json:"categoryCount"`
	OutOfStock    int             `json:"outOfStock"`
	LowStock      int             `json:"lowStock"`
	Expiring      int             `json:"expiring"`
	Expired       int             `json:"expired"`
	Quantities    Distribution    `json:"quantities"`
	CategoryStats []CategoryStat  `json:"categoryStats"`
	TopByValue    []ValuedProduct `json:"topByValue"`
	Uncategorized int             `json:"uncategorized"`
}

// BuildOverview computes the dashboard summary for today.
func BuildOverview(snap domain.Snapshot, today domain.Date, opts Options) Overview {
	opts = opts.withDefaults()
	return Overview{
		Date:          today,
		TotalProducts: len(snap.Products),
		TotalItems:    TotalQuantity(snap.Products),
		TotalValue:    InventoryValue(snap.Products),
		CategoryCount: len(snap.Categories),
		OutOfStock:    len(OutOfStock(snap.Products)),
		LowStock:      len(LowStock(snap.Products, opts.LowStockThreshold)),
		Expiring:      len(Expiring(snap.Products, today, opts.ExpiryWindowDays)),
		Expired:       len(Expired(snap.Products, today)),
		Quantities:    QuantityDistribution(snap.Products),
		CategoryStats: CategoryStats(snap),
		TopByValue:    TopByValue(snap.Products, opts.TopN),
		Uncategorized: UncategorizedCount(snap),
	}
}

// QuantityDistribution returns zero values for an empty product list.
func QuantityDistribution(products []domain.Product) Distribution {
	if len(products) == 0 {
		return Distribution{}
	}
	qty := make(stats.Float64Data, len(products))
	for i, p := range products {
		qty[i] = float64(p.Quantity)
	}
	var d Distribution
	d.Min, _ = qty.Min()
	d.Max, _ = qty.Max()
	d.Mean, _ = qty.Mean()
	d.Median, _ = qty.Median()
	d.P90, _ = qty.Percentile(90)
	d.StdDev, _ = qty.StandardDeviation()
	return d
}

// CategoryAnalysisRow is one category line of the category analysis report.
type CategoryAnalysisRow struct {
	Category      string          `json:"category"`
	Count         int             `json:"count"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
	AveragePrice  decimal.Decimal `json:"averagePrice"`
	ProductShare  decimal.Decimal `json:"productShare"`
	ValueShare    decimal.Decimal `json:"valueShare"`
}

var hundred = decimal.NewFromInt(100)

// CategoryAnalysis extends CategoryStats with value and share figures. Shares are
// percentages rounded to one decimal and are zero when the total is zero.
func CategoryAnalysis(snap domain.Snapshot) []CategoryAnalysisRow {
	base := CategoryStats(snap)
	values := make(map[string]decimal.Decimal, len(base))
	priceSums := make(map[string]decimal.Decimal, len(base))
	for _, p := range snap.Products {
		values[p.Category] = values[p.Category].Add(p.Value())
		priceSums[p.Category] = priceSums[p.Category].Add(p.Price)
	}
	totalValue := InventoryValue(snap.Products)
	totalCount := decimal.NewFromInt(int64(len(snap.Products)))

	out := make([]CategoryAnalysisRow, 0, len(base))
	for _, s := range base {
		row := CategoryAnalysisRow{
			Category:      s.Category,
			Count:         s.Count,
			TotalQuantity: s.TotalQuantity,
			TotalValue:    values[s.Category],
			AveragePrice:  decimal.Zero,
			ProductShare:  decimal.Zero,
			ValueShare:    decimal.Zero,
		}
		count := decimal.NewFromInt(int64(s.Count))
		if s.Count > 0 {
			row.AveragePrice = priceSums[s.Category].Div(count).Round(2)
		}
		if !totalCount.IsZero() {
			row.ProductShare = count.Mul(hundred).Div(totalCount).Round(1)
		}
		if !totalValue.IsZero() {
			row.ValueShare = row.TotalValue.Mul(hundred).Div(totalValue).Round(1)
		}
		out = append(out, row)
	}
	return out
}

// ExpiryRow is a product with its distance to the expiry date.
type ExpiryRow struct {
	domain.Product
	// DaysLeft is negative for expired products.
	DaysLeft int          `json:"daysLeft"`
	Status   stock.Status `json:"status"`
}

// ExpiryRows annotates products that carry an expiry date, in input order.
func ExpiryRows(products []domain.Product, today domain.Date, warnDays int) []ExpiryRow {
	out := make([]ExpiryRow, 0)
	for _, p := range products {
		if !p.HasExpiry() {
			continue
		}
		out = append(out, ExpiryRow{
			Product:  p,
			DaysLeft: today.DaysUntil(*p.ExpiryDate),
			Status:   stock.ExpiryStatusWithin(p.ExpiryDate, today, warnDays),
		})
	}
	return out
}
