package transport

import (
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/order/internal/models"
	"github.com/google/uuid"
)

type OrderLineRequest struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
}

type PlaceOrderRequest struct {
	Lines           []OrderLineRequest `json:"lines"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrdersResponse struct {
	Orders     []models.Order  `json:"orders"`
	Pagination pagination.Meta `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
