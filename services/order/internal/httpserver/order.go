package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/order/internal/service"
	"github.com/Skotchmaster/medimarket/services/order/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) PlaceOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.place")

	userID, err := middleware.UserID(c)
	if err != nil {
		l.Warn("place_order_failed", "status", 401, "reason", "no user in context")
		return err
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("place_order_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	lines := make([]service.LineInput, 0, len(req.Lines))
	for _, it := range req.Lines {
		lines = append(lines, service.LineInput{MedicineID: it.MedicineID, Quantity: it.Quantity})
	}

	order, err := h.Svc.PlaceOrder(ctx, service.PlaceOrderInput{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return apperr.HTTP(l, "place_order_failed", err)
	}

	l.Info("place_order_success", "order_id", order.ID, "total", order.TotalPrice.String())
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	page, limit, offset := pagination.Calculate(
		pagination.ParseIntDefault(c.QueryParam("page"), 1),
		pagination.ParseIntDefault(c.QueryParam("limit"), pagination.DefaultLimit),
	)

	total, orders, err := h.Svc.ListForUser(ctx, userID, offset, limit)
	if err != nil {
		return apperr.HTTP(l, "list_orders_failed", err)
	}

	return c.JSON(http.StatusOK, transport.OrdersResponse{
		Orders:     orders,
		Pagination: pagination.NewMeta(page, limit, total),
	})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_order_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	order, err := h.Svc.GetByID(ctx, id, userID)
	if err != nil {
		return apperr.HTTP(l, "get_order_failed", err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("cancel_order_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if _, err := h.Svc.Cancel(ctx, id, userID); err != nil {
		return apperr.HTTP(l, "cancel_order_failed", err)
	}

	l.Info("cancel_order_success", "order_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "order cancelled"})
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}
	var req transport.StatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Advance(ctx, id, req.Status)
	if err != nil {
		return apperr.HTTP(l, "update_status_failed", err)
	}

	l.Info("update_status_success", "order_id", id, "to", order.Status)
	return c.JSON(http.StatusOK, order)
}
