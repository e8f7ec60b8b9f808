package adminapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/talkincode/toughstock/internal/app"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/webserver"
	"go.uber.org/zap"
)

// Response is the envelope of every api reply.
type Response struct {
	Code string      `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// ListResponse is the data part of a paged reply.
type ListResponse struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Msg: "success", Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Code: "OK", Msg: "created", Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, Response{Code: code, Msg: message, Data: detail})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return ok(c, ListResponse{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination reads page and perPage (or the legacy pageSize). perPage=0 means all.
func parsePagination(c echo.Context) (int, int) {
	page := cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	pageSize := cast.ToInt(raw)
	if pageSize < 0 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

// pageBounds returns the slice bounds of a page over n items.
func pageBounds(n, page, pageSize int) (int, int) {
	if pageSize == 0 {
		return 0, n
	}
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}

// GetAppContext returns the application context attached by the web server
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func handleValidationError(c echo.Context, err error) error {
	if verr, isVerr := err.(*domain.ValidationError); isVerr {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", verr.Fields)
	}
	if fieldErrs, isFieldErrs := err.(validator.ValidationErrors); isFieldErrs {
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[strings.ToLower(fe.Field())] = fe.Tag()
		}
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", fields)
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
}

// handleStoreError maps inventory errors to replies. Persistence failures after a
// committed mutation are reported with the mutated data attached.
func handleStoreError(c echo.Context, err error, data interface{}) error {
	switch {
	case err == nil:
		return ok(c, data)
	case domain.IsNotFound(err):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	case isValidation(err):
		return handleValidationError(c, err)
	case domain.IsPersistence(err):
		zap.L().Error("storage write failed", zap.String("namespace", "adminapi"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Change applied but not saved", data)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error", err.Error())
}

func isValidation(err error) bool {
	_, isVerr := err.(*domain.ValidationError)
	return isVerr
}

// requirePermission rejects the request unless the current session role allows action.
func requirePermission(action permission.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := GetAppContext(c).Sessions().Current(c.Request().Context())
			if err != nil {
				if domain.IsNotFound(err) {
					return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Login required", nil)
				}
				return fail(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Failed to read session", err.Error())
			}
			if !permission.IsAllowed(action, sess.Role) {
				return fail(c, http.StatusForbidden, "FORBIDDEN", "Role "+string(sess.Role)+" may not "+string(action), nil)
			}
			return next(c)
		}
	}
}
