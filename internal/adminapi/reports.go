package adminapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstock/internal/report"
	"github.com/talkincode/toughstock/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerReportRoutes() {
	webserver.ApiGET("/reports/overview", reportOverview)
	webserver.ApiGET("/reports/categories", reportCategories)
	webserver.ApiGET("/reports/low-stock", reportLowStock)
	webserver.ApiGET("/reports/expiring", reportExpiring)
	webserver.ApiGET("/reports/expired", reportExpired)
	webserver.ApiGET("/reports/top", reportTop)
	webserver.ApiGET("/reports/export.csv", exportCSV)
	webserver.ApiGET("/reports/export.xlsx", exportXLSX)
}

// reportOptions applies per request overrides of the configured thresholds
func reportOptions(c echo.Context) report.Options {
	opts := GetAppContext(c).ReportOptions()
	if v := cast.ToInt(c.QueryParam("threshold")); v > 0 {
		opts.LowStockThreshold = v
	}
	if v := cast.ToInt(c.QueryParam("days")); v > 0 {
		opts.ExpiryWindowDays = v
	}
	if v := cast.ToInt(c.QueryParam("n")); v > 0 {
		opts.TopN = v
	}
	return opts
}

func reportOverview(c echo.Context) error {
	appCtx := GetAppContext(c)
	ov := report.BuildOverview(appCtx.Store().Snapshot(), appCtx.Today(), reportOptions(c))
	return ok(c, map[string]interface{}{
		"overview":       ov,
		"formattedValue": report.FormatCurrency(ov.TotalValue),
		"reportDate":     report.FormatLongDate(ov.Date),
	})
}

func reportCategories(c echo.Context) error {
	return ok(c, report.CategoryAnalysis(GetAppContext(c).Store().Snapshot()))
}

func reportLowStock(c echo.Context) error {
	snap := GetAppContext(c).Store().Snapshot()
	return ok(c, report.LowStock(snap.Products, reportOptions(c).LowStockThreshold))
}

func reportExpiring(c echo.Context) error {
	appCtx := GetAppContext(c)
	opts := reportOptions(c)
	today := appCtx.Today()
	rows := report.Expiring(appCtx.Store().Snapshot().Products, today, opts.ExpiryWindowDays)
	return ok(c, report.ExpiryRows(rows, today, opts.ExpiryWindowDays))
}

func reportExpired(c echo.Context) error {
	appCtx := GetAppContext(c)
	opts := reportOptions(c)
	today := appCtx.Today()
	rows := report.Expired(appCtx.Store().Snapshot().Products, today)
	return ok(c, report.ExpiryRows(rows, today, opts.ExpiryWindowDays))
}

func reportTop(c echo.Context) error {
	snap := GetAppContext(c).Store().Snapshot()
	return ok(c, report.TopByValue(snap.Products, reportOptions(c).TopN))
}

// exportCSV streams the product export, or the category analysis with type=categories
func exportCSV(c echo.Context) error {
	appCtx := GetAppContext(c)
	snap := appCtx.Store().Snapshot()
	today := appCtx.Today()

	var buf bytes.Buffer
	name := "products"
	var err error
	if c.QueryParam("type") == "categories" {
		name = "categories"
		err = report.WriteCategoriesCSV(&buf, snap)
	} else {
		err = report.WriteProductsCSV(&buf, snap.Products, today, reportOptions(c))
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export report", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s-%s.csv", name, today.String()))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func exportXLSX(c echo.Context) error {
	appCtx := GetAppContext(c)
	today := appCtx.Today()
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, appCtx.Store().Snapshot(), today, reportOptions(c)); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to export report", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=inventory-%s.xlsx", today.String()))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
