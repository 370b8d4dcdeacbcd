package apperr

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTP logs err under event and converts it for echo. Business errors keep
// their message and are logged at warn, everything else is hidden behind a
// generic 500 and logged at error.
func HTTP(l *slog.Logger, event string, err error) *echo.HTTPError {
	status := Status(err)
	if status == http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", "internal error", "error", err)
		return echo.NewHTTPError(status, "internal error")
	}
	l.Warn(event, "status", status, "reason", err.Error())
	return echo.NewHTTPError(status, err.Error())
}
