package report

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/stock"
)

// ProductRow is the flat export layout of a product.
type ProductRow struct {
	ID           string `csv:"id"`
	Name         string `csv:"name"`
	Category     string `csv:"category"`
	Quantity     int    `csv:"quantity"`
	Price        string `csv:"price"`
	Value        string `csv:"value"`
	ExpiryDate   string `csv:"expiry_date"`
	StockStatus  string `csv:"stock_status"`
	ExpiryStatus string `csv:"expiry_status"`
	Notes        string `csv:"notes"`
	CreatedAt    string `csv:"created_at"`
}

// CategoryRow is the flat export layout of a category analysis line.
type CategoryRow struct {
	Category      string `csv:"category"`
	Count         int    `csv:"count"`
	TotalQuantity int    `csv:"total_quantity"`
	TotalValue    string `csv:"total_value"`
	AveragePrice  string `csv:"average_price"`
	ProductShare  string `csv:"product_share_pct"`
	ValueShare    string `csv:"value_share_pct"`
}

// ProductRows flattens products for export.
func ProductRows(products []domain.Product, today domain.Date, opts Options) []ProductRow {
	opts = opts.withDefaults()
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		expiry := ""
		if p.HasExpiry() {
			expiry = p.ExpiryDate.String()
		}
		rows = append(rows, ProductRow{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.Category,
			Quantity:     p.Quantity,
			Price:        p.Price.StringFixed(2),
			Value:        p.Value().StringFixed(2),
			ExpiryDate:   expiry,
			StockStatus:  stock.StockStatus(p.Quantity, opts.LowStockThreshold).Label,
			ExpiryStatus: stock.ExpiryStatusWithin(p.ExpiryDate, today, opts.ExpiryWindowDays).Label,
			Notes:        p.Notes,
			CreatedAt:    p.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows
}

// CategoryRows flattens the category analysis for export.
func CategoryRows(analysis []CategoryAnalysisRow) []CategoryRow {
	rows := make([]CategoryRow, 0, len(analysis))
	for _, a := range analysis {
		rows = append(rows, CategoryRow{
			Category:      a.Category,
			Count:         a.Count,
			TotalQuantity: a.TotalQuantity,
			TotalValue:    a.TotalValue.StringFixed(2),
			AveragePrice:  a.AveragePrice.StringFixed(2),
			ProductShare:  a.ProductShare.StringFixed(1),
			ValueShare:    a.ValueShare.StringFixed(1),
		})
	}
	return rows
}

// WriteProductsCSV writes the product export with a header line.
func WriteProductsCSV(w io.Writer, products []domain.Product, today domain.Date, opts Options) error {
	rows := ProductRows(products, today, opts)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "write products csv")
	}
	return nil
}

// WriteCategoriesCSV writes the category analysis with a header line.
func WriteCategoriesCSV(w io.Writer, snap domain.Snapshot) error {
	rows := CategoryRows(CategoryAnalysis(snap))
	if err := gocsv.Marshal(&rows, w); err != nil {
		return errors.Wrap(err, "write categories csv")
	}
	return nil
}

const (
	sheetSummary    = "Summary"
	sheetProducts   = "Products"
	sheetCategories = "Categories"
)

// BuildWorkbook lays out the summary, products and category analysis sheets.
func BuildWorkbook(snap domain.Snapshot, today domain.Date, opts Options) *excelize.File {
	opts = opts.withDefaults()
	ov := BuildOverview(snap, today, opts)

	xlsx := excelize.NewFile()
	xlsx.SetSheetName("Sheet1", sheetSummary)
	summary := [][2]interface{}{
		{"Report Date", FormatLongDate(today)},
		{"Total Products", ov.TotalProducts},
		{"Total Items", ov.TotalItems},
		{"Inventory Value", FormatCurrency(ov.TotalValue)},
		{"Categories", ov.CategoryCount},
		{"Out of Stock", ov.OutOfStock},
		{"Low Stock", ov.LowStock},
		{"Expiring Soon", ov.Expiring},
		{"Expired", ov.Expired},
	}
	for i, kv := range summary {
		row := strconv.Itoa(i + 1)
		xlsx.SetCellValue(sheetSummary, "A"+row, kv[0])
		xlsx.SetCellValue(sheetSummary, "B"+row, kv[1])
	}

	xlsx.NewSheet(sheetProducts)
	writeSheet(xlsx, sheetProducts,
		[]string{"ID", "Name", "Category", "Quantity", "Price", "Value", "Expiry Date", "Stock Status", "Expiry Status", "Notes"},
		func(emit func(...interface{})) {
			for _, r := range ProductRows(snap.Products, today, opts) {
				emit(r.ID, r.Name, r.Category, r.Quantity, r.Price, r.Value, r.ExpiryDate, r.StockStatus, r.ExpiryStatus, r.Notes)
			}
		})

	xlsx.NewSheet(sheetCategories)
	writeSheet(xlsx, sheetCategories,
		[]string{"Category", "Products", "Total Quantity", "Total Value", "Average Price", "Product Share %", "Value Share %"},
		func(emit func(...interface{})) {
			for _, r := range CategoryRows(CategoryAnalysis(snap)) {
				emit(r.Category, r.Count, r.TotalQuantity, r.TotalValue, r.AveragePrice, r.ProductShare, r.ValueShare)
			}
		})

	xlsx.SetActiveSheet(xlsx.GetSheetIndex(sheetSummary))
	return xlsx
}

// WriteWorkbook builds the workbook and writes it to w.
func WriteWorkbook(w io.Writer, snap domain.Snapshot, today domain.Date, opts Options) error {
	if err := BuildWorkbook(snap, today, opts).Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func writeSheet(xlsx *excelize.File, sheet string, header []string, rows func(emit func(...interface{}))) {
	for i, h := range header {
		xlsx.SetCellValue(sheet, column(i)+"1", h)
	}
	line := 2
	rows(func(values ...interface{}) {
		for i, v := range values {
			xlsx.SetCellValue(sheet, column(i)+strconv.Itoa(line), v)
		}
		line++
	})
}

// column maps a zero based index to its sheet letter; exports stay under 26 columns.
func column(i int) string {
	return string(rune('A' + i))
}
