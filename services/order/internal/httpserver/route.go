package httpserver

import (
	"net/http"

	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	DB           *gorm.DB
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.New(d.JWTSecret)

	orders := e.Group("/orders", authMW.RequireAuth)
	orders.POST("", d.OrderHandler.PlaceOrder)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)

	e.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus, authMW.RequireAdmin)
}
