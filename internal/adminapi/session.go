package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/toughstock/internal/domain"
	"github.com/talkincode/toughstock/internal/permission"
	"github.com/talkincode/toughstock/internal/webserver"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin manager viewer"`
}

type darkModePayload struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type sessionView struct {
	domain.Session
	Permissions []permission.Action `json:"permissions"`
}

func registerSessionRoutes() {
	webserver.ApiGET("/session", currentSession)
	webserver.ApiPOST("/session", login)
	webserver.ApiDELETE("/session", logout)

	webserver.ApiGET("/preferences/dark-mode", getDarkMode)
	webserver.ApiPUT("/preferences/dark-mode", setDarkMode)
	webserver.ApiPOST("/preferences/dark-mode/toggle", toggleDarkMode)
}

func currentSession(c echo.Context) error {
	sess, err := GetAppContext(c).Sessions().Current(c.Request().Context())
	if domain.IsNotFound(err) {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "No active session", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "PERSISTENCE_ERROR", "Failed to read session", err.Error())
	}
	return ok(c, sessionView{Session: sess, Permissions: permission.Allowed(sess.Role)})
}

// login sets the session role label. No credentials are checked.
func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	sess, err := GetAppContext(c).Sessions().Login(c.Request().Context(), payload.Username, domain.Role(payload.Role))
	if err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, sessionView{Session: sess, Permissions: permission.Allowed(sess.Role)})
}

func logout(c echo.Context) error {
	if err := GetAppContext(c).Sessions().Logout(c.Request().Context()); err != nil {
		return handleStoreError(c, err, nil)
	}
	return c.NoContent(http.StatusNoContent)
}

func getDarkMode(c echo.Context) error {
	on, err := GetAppContext(c).Sessions().DarkMode(c.Request().Context())
	if err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, map[string]bool{"enabled": on})
}

func setDarkMode(c echo.Context) error {
	var payload darkModePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse preference", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := GetAppContext(c).Sessions().SetDarkMode(c.Request().Context(), *payload.Enabled); err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, map[string]bool{"enabled": *payload.Enabled})
}

func toggleDarkMode(c echo.Context) error {
	on, err := GetAppContext(c).Sessions().ToggleDarkMode(c.Request().Context())
	if err != nil {
		return handleStoreError(c, err, nil)
	}
	return ok(c, map[string]bool{"enabled": on})
}
