package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/service"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *CatalogHTTP) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.submit_review")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("submit_review_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.ReviewRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_review_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	rv, err := h.Svc.SubmitReview(ctx, userID, doctorID, req.Rating, req.Comment)
	if err != nil {
		return apperr.HTTP(l, "submit_review_failed", err)
	}

	l.Info("submit_review_success", "doctor_id", doctorID)
	return c.JSON(http.StatusCreated, rv)
}

func (h *CatalogHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_reviews")

	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("list_reviews_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	page, limit, offset := pageParams(c)
	total, items, err := h.Svc.ListReviews(ctx, doctorID, offset, limit)
	if err != nil {
		return apperr.HTTP(l, "list_reviews_failed", err)
	}
	return c.JSON(http.StatusOK, listResponse{Data: items, Meta: pagination.NewMeta(page, limit, total)})
}

func (h *CatalogHTTP) SubmitFeedback(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.submit_feedback")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("submit_feedback_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	subject, err := service.ParseSubject(req.Type, req.RelatedID)
	if err != nil {
		return apperr.HTTP(l, "submit_feedback_failed", err)
	}

	f, err := h.Svc.SubmitFeedback(ctx, userID, subject, req.Message, req.Rating)
	if err != nil {
		return apperr.HTTP(l, "submit_feedback_failed", err)
	}

	l.Info("submit_feedback_success", "type", f.Type)
	return c.JSON(http.StatusCreated, f)
}
