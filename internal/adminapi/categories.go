package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/report"
	"github.com/talkincode/toughstock/internal/webserver"
)

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/inventory/categories", listCategories)
	webserver.ApiPOST("/inventory/categories", createCategory, requirePermission(permission.ActionCreate))
}

// listCategories returns the category set with per category counts
func listCategories(c echo.Context) error {
	snap := GetAppContext(c).Store().Snapshot()
	return ok(c, map[string]interface{}{
		"categories": snap.Categories,
		"stats":      report.CategoryStats(snap),
	})
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	added, err := GetAppContext(c).Store().AddCategory(c.Request().Context(), name)
	if err != nil {
		return handleStoreError(c, err, nil)
	}
	if !added {
		return ok(c, map[string]interface{}{"name": name, "added": false})
	}
	return created(c, map[string]interface{}{"name": name, "added": true})
}
