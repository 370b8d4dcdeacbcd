package httpserver

import (
	"net/http"

	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	DB             *gorm.DB
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
	h := d.CatalogHandler

	catalog := e.Group("/catalog")
	catalog.GET("/search", h.Search)

	catalog.GET("/doctors", h.ListDoctors)
	catalog.GET("/doctors/:id", h.GetDoctor)
	catalog.GET("/doctors/:id/reviews", h.ListReviews, authMW.RequireAuth)
	catalog.POST("/doctors/:id/reviews", h.SubmitReview, authMW.RequireAuth)
	catalog.POST("/doctors", h.CreateDoctor, authMW.RequireAdmin)

	catalog.GET("/medicines", h.ListMedicines)
	catalog.GET("/medicines/:id", h.GetMedicine)
	catalog.POST("/medicines", h.CreateMedicine, authMW.RequireAdmin)
	catalog.PATCH("/medicines/:id", h.PatchMedicine, authMW.RequireAdmin)

	catalog.POST("/feedback", h.SubmitFeedback, authMW.RequireAuth)
}
