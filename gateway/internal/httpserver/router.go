package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/medimarket/gateway/internal/middleware"
	authmw "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/Skotchmaster/medimarket/pkg/middleware/csrf"
	"github.com/labstack/echo/v4"
)

const apiPrefix = "/api/v1"

type Deps struct {
	CatalogURL    string
	SchedulingURL string
	CartURL       string
	OrderURL      string

	JWTSecret  []byte
	CSRFConfig csrf.Config
	Logger     *slog.Logger
}

var writeMethods = []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range middleware.Common(logger) {
		e.Use(m)
	}
	e.Use(csrf.Middleware(d.CSRFConfig))

	catalogProxy, err := newProxy("catalog", d.CatalogURL, apiPrefix)
	if err != nil {
		return err
	}
	schedulingProxy, err := newProxy("scheduling", d.SchedulingURL, apiPrefix)
	if err != nil {
		return err
	}
	cartProxy, err := newProxy("cart", d.CartURL, apiPrefix)
	if err != nil {
		return err
	}
	orderProxy, err := newProxy("order", d.OrderURL, apiPrefix)
	if err != nil {
		return err
	}

	e.GET(apiPrefix+"/catalog", catalogProxy)
	e.GET(apiPrefix+"/catalog/*", catalogProxy)
	e.GET(apiPrefix+"/availability/*", schedulingProxy)

	authMW := authmw.New(d.JWTSecret)
	api := e.Group(apiPrefix, authMW.RequireAuth)

	api.Match(writeMethods, "/catalog/*", catalogProxy)
	api.Any("/appointments", schedulingProxy)
	api.Any("/appointments/*", schedulingProxy)
	api.Any("/cart", cartProxy)
	api.Any("/cart/*", cartProxy)
	api.Any("/orders", orderProxy)
	api.Any("/orders/*", orderProxy)

	return nil
}
