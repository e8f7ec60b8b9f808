package adminapi

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/query"
	"github.com/talkincode/toughstock/internal/stock"
	"github.com/talkincode/toughstock/internal/webserver"
)

// productView adds the classification labels to a product.
type productView struct {
	domain.Product
	Value        decimal.Decimal `json:"value"`
	StockStatus  stock.Status    `json:"stockStatus"`
	ExpiryStatus stock.Status    `json:"expiryStatus"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/inventory/products", listProducts)
	webserver.ApiGET("/inventory/products/:id", getProduct)
	webserver.ApiPOST("/inventory/products", createProduct, requirePermission(permission.ActionCreate))
	webserver.ApiPUT("/inventory/products/:id", updateProduct, requirePermission(permission.ActionEdit))
	webserver.ApiPATCH("/inventory/products/:id", updateProduct, requirePermission(permission.ActionEdit))
	webserver.ApiDELETE("/inventory/products/:id", deleteProduct, requirePermission(permission.ActionDelete))
}

func toView(c echo.Context, p domain.Product) productView {
	appCtx := GetAppContext(c)
	opts := appCtx.ReportOptions()
	return productView{
		Product:      p,
		Value:        p.Value(),
		StockStatus:  stock.StockStatus(p.Quantity, opts.LowStockThreshold),
		ExpiryStatus: stock.ExpiryStatusWithin(p.ExpiryDate, appCtx.Today(), opts.ExpiryWindowDays),
	}
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	stockFilter, err := query.ParseStockFilter(c.QueryParam("stock"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid stock filter", err.Error())
	}
	sortKey, err := query.ParseSortKey(c.QueryParam("sort"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid sort field", err.Error())
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "" && order != "ASC" && order != "DESC" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order must be ASC or DESC", nil)
	}

	appCtx := GetAppContext(c)
	snap := appCtx.Store().Snapshot()
	rows := query.Run(snap.Products, query.Params{
		Search:    c.QueryParam("q"),
		Category:  strings.TrimSpace(c.QueryParam("category")),
		Stock:     stockFilter,
		SortBy:    sortKey,
		Desc:      order == "DESC",
		Threshold: appCtx.ReportOptions().LowStockThreshold,
	})

	start, end := pageBounds(len(rows), page, pageSize)
	items := make([]productView, 0, end-start)
	for _, p := range rows[start:end] {
		items = append(items, toView(c, p))
	}
	return paged(c, items, int64(len(rows)), page, pageSize)
}

func getProduct(c echo.Context) error {
	p, err := GetAppContext(c).Store().Get(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}
	return ok(c, toView(c, p))
}

func createProduct(c echo.Context) error {
	var payload domain.ProductDraft
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	payload.Normalize()
	if err := payload.Validate(); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetAppContext(c).Store().Add(c.Request().Context(), payload)
	if err != nil {
		return handleStoreError(c, err, p)
	}
	return created(c, toView(c, p))
}

func updateProduct(c echo.Context) error {
	var raw map[string]interface{}
	// path params must not leak into the patch
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	patch, err := decodePatch(raw)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}

	p, err := GetAppContext(c).Store().Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return handleStoreError(c, err, p)
	}
	return ok(c, toView(c, p))
}

func deleteProduct(c echo.Context) error {
	id := c.Param("id")
	err := GetAppContext(c).Store().Remove(c.Request().Context(), id)
	if err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, map[string]interface{}{"id": id})
}

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(domain.Date{})
)

// decodePatch maps a partial json body onto a ProductPatch. An explicit null or empty
// expiryDate clears the date; absent keys leave fields untouched.
func decodePatch(raw map[string]interface{}) (domain.ProductPatch, error) {
	var patch domain.ProductPatch
	if v, present := raw["expiryDate"]; present && (v == nil || v == "") {
		delete(raw, "expiryDate")
		patch.ClearExpiryDate = true
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &patch,
		TagName:    "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(patchValueHook),
	})
	if err != nil {
		return patch, err
	}
	if err := dec.Decode(raw); err != nil {
		return patch, err
	}
	return patch, nil
}

func patchValueHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to {
	case decimalType:
		switch v := data.(type) {
		case float64:
			return decimal.NewFromFloat(v), nil
		case string:
			return decimal.NewFromString(strings.TrimSpace(v))
		default:
			return decimal.NewFromString(fmt.Sprint(v))
		}
	case dateType:
		return domain.ParseDate(cast.ToString(data))
	}
	if to.Kind() == reflect.Int && from.Kind() == reflect.Float64 {
		f := data.(float64)
		if f != float64(int64(f)) {
			return nil, fmt.Errorf("%v is not a whole number", f)
		}
		return int(f), nil
	}
	return data, nil
}
