package httpserver

import (
	"net/http"

	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	SchedulingHandler *SchedulingHTTP
	JWTSecret         []byte
	DB                *gorm.DB
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

	e.GET("/availability/:doctorId", d.SchedulingHandler.Availability)

	appointments := e.Group("/appointments", authMW.RequireAuth)
	appointments.POST("", d.SchedulingHandler.Book)
	appointments.GET("", d.SchedulingHandler.List)
	appointments.GET("/:id", d.SchedulingHandler.Get)
	appointments.POST("/:id/cancel", d.SchedulingHandler.Cancel)

	e.POST("/appointments/:id/confirm", d.SchedulingHandler.Confirm, authMW.RequireAdmin)
	e.POST("/appointments/:id/complete", d.SchedulingHandler.Complete, authMW.RequireAdmin)
}
