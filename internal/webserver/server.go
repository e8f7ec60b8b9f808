// Package webserver hosts the echo instance the admin api registers its routes on.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/talkincode/toughstock/config"
	"github.com/talkincode/toughstock/internal/domain"
	"go.uber.org/zap"
)

const (
	ApiPrefix = "/api/v1"
	// AppContextKey is the echo context key holding the application context.
	AppContextKey = "appctx"
)

type AdminServer struct {
	root *echo.Echo
	api  *echo.Group
	addr string
}

var server *AdminServer

type payloadValidator struct {
	v *validator.Validate
}

func (pv *payloadValidator) Validate(i interface{}) error {
	return pv.v.Struct(i)
}

// Init builds the admin server. appCtx is attached to every request under
// AppContextKey.
func Init(cfg *config.AppConfig, appCtx interface{}) *AdminServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &payloadValidator{v: domain.Validator()}
	if cfg.System.Debug {
		e.Logger.SetLevel(log.DEBUG)
	} else {
		e.Logger.SetLevel(log.WARN)
	}
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))
	e.Use(requestLogger)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			return next(c)
		}
	})

	server = &AdminServer{
		root: e,
		api:  e.Group(ApiPrefix),
		addr: fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
	}
	return server
}

// Root exposes the echo instance, mainly for httptest.
func (s *AdminServer) Root() *echo.Echo { return s.root }

// Start serves until ctx is done, then shuts down gracefully.
func (s *AdminServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("admin api listening", zap.String("namespace", "adminapi"), zap.String("addr", s.addr))
		if err := s.root.Start(s.addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.root.Shutdown(shutdownCtx)
	}
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PUT(path, h, m...)
}

func ApiPATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.PATCH(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.DELETE(path, h, m...)
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if !strings.HasPrefix(c.Path(), ApiPrefix) {
			return err
		}
		zap.L().Debug("api request",
			zap.String("namespace", "adminapi"),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("took", time.Since(start)))
		return err
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	}
	if code >= http.StatusInternalServerError {
		zap.L().Error("api error", zap.String("namespace", "adminapi"), zap.Error(err))
	}
	_ = c.JSON(code, map[string]interface{}{
		"code": "HTTP_ERROR",
		"msg":  msg,
	})
}
