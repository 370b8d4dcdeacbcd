package httpserver

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/models"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/service"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SchedulingHTTP struct {
	Svc *service.AppointmentService
}

func (h *SchedulingHTTP) Availability(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling.availability")

	doctorID, err := uuid.Parse(c.Param("doctorId"))
	if err != nil {
		l.Warn("availability_failed", "status", 400, "reason", "doctor id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "doctor id is not a uuid")
	}
	date := c.QueryParam("date")

	free, err := h.Svc.AvailableSlots(ctx, doctorID, date)
	if err != nil {
		return apperr.HTTP(l, "availability_failed", err)
	}

	return c.JSON(http.StatusOK, transport.AvailabilityResponse{
		DoctorID:       doctorID,
		Date:           date,
		AvailableTimes: free,
	})
}

func (h *SchedulingHTTP) Book(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling.book")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("book_failed", "status", 401, "reason", "no user in context")
		return err
	}

	var req transport.BookRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("book_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.DoctorID == uuid.Nil {
		l.Warn("book_failed", "status", 400, "reason", "doctor_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id required")
	}

	a, err := h.Svc.Book(ctx, service.BookInput{
		UserID:   userID,
		DoctorID: req.DoctorID,
		Date:     req.Date,
		Time:     req.Time,
		Reason:   req.Reason,
	})
	if err != nil {
		return apperr.HTTP(l, "book_failed", err)
	}

	l.Info("book_success", "appointment_id", a.ID)
	return c.JSON(http.StatusCreated, a)
}

func (h *SchedulingHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling.list")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	page, limit, offset := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("limit"), pagination.DefaultLimit),
	)

	total, items, err := h.Svc.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		return apperr.HTTP(l, "list_appointments_failed", err)
	}

	return c.JSON(http.StatusOK, transport.AppointmentsResponse{
		Appointments: items,
		Pagination:   pagination.NewMeta(page, limit, total),
	})
}

func (h *SchedulingHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_appointment_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	a, err := h.Svc.GetByID(ctx, id, userID)
	if err != nil {
		return apperr.HTTP(l, "get_appointment_failed", err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *SchedulingHTTP) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling.cancel")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("cancel_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if _, err := h.Svc.Cancel(ctx, id, userID); err != nil {
		return apperr.HTTP(l, "cancel_failed", err)
	}

	l.Info("cancel_success", "appointment_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "appointment cancelled"})
}

func (h *SchedulingHTTP) Confirm(c echo.Context) error {
	return h.operatorTransition(c, "confirm", h.Svc.Confirm)
}

func (h *SchedulingHTTP) Complete(c echo.Context) error {
	return h.operatorTransition(c, "complete", h.Svc.Complete)
}

func (h *SchedulingHTTP) operatorTransition(c echo.Context, action string, apply func(context.Context, uuid.UUID) (*models.Appointment, error)) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "scheduling."+action)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn(action+"_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	a, err := apply(ctx, id)
	if err != nil {
		return apperr.HTTP(l, action+"_failed", err)
	}

	l.Info(action+"_success", "appointment_id", id)
	return c.JSON(http.StatusOK, a)
}
