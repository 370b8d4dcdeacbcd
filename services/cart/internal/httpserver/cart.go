package httpserver

import (
	"net/http"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	middleware "github.com/Skotchmaster/medimarket/pkg/middleware/auth"
	"github.com/Skotchmaster/medimarket/services/cart/internal/service"
	"github.com/Skotchmaster/medimarket/services/cart/internal/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return apperr.HTTP(l, "get_cart_failed", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	var req transport.AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.MedicineID == uuid.Nil {
		l.Warn("add_item_failed", "status", 400, "reason", "medicine_id required")
		return echo.NewHTTPError(http.StatusBadRequest, "medicine_id required")
	}

	item, err := h.Svc.Add(ctx, userID, req.MedicineID, req.Quantity)
	if err != nil {
		return apperr.HTTP(l, "add_item_failed", err)
	}

	l.Info("add_item_success", "medicine_id", req.MedicineID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, item)
}

func (h *CartHTTP) SetQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.set_quantity")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		l.Warn("set_quantity_failed", "status", 400, "reason", "medicine id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "medicine id is not a uuid")
	}

	var req transport.SetQuantityRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_quantity_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.SetQuantity(ctx, userID, medicineID, req.Quantity)
	if err != nil {
		return apperr.HTTP(l, "set_quantity_failed", err)
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}
	medicineID, err := uuid.Parse(c.Param("medicineId"))
	if err != nil {
		l.Warn("remove_item_failed", "status", 400, "reason", "medicine id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "medicine id is not a uuid")
	}

	if err := h.Svc.Remove(ctx, userID, medicineID); err != nil {
		return apperr.HTTP(l, "remove_item_failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := middleware.UserID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		return apperr.HTTP(l, "clear_cart_failed", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "cart cleared"})
}
