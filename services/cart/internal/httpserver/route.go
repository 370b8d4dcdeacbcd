package httpserver

import (
	"net/http"

	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	CartHandler *CartHTTP
	JWTSecret   []byte
	DB          *gorm.DB
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

	cart := e.Group("/cart")
	cart.Use(authMW.RequireAuth)

	cart.GET("", d.CartHandler.GetCart)
	cart.DELETE("", d.CartHandler.Clear)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PUT("/items/:medicineId", d.CartHandler.SetQuantity)
	cart.DELETE("/items/:medicineId", d.CartHandler.RemoveItem)
}
