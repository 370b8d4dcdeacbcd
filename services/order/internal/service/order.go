package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/order/internal/models"
	"github.com/Skotchmaster/medimarket/services/order/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxAddressLen = 500

// maxAmount is the largest value the numeric(12,2) price columns hold.
var maxAmount = decimal.RequireFromString("9999999999.99")

type Medicines interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalogclient.Medicine, error)
}

type OrderService struct {
	Repo      *repo.GormRepo
	Medicines Medicines
	Events    events.Publisher
}

type LineInput struct {
	MedicineID uuid.UUID
	Quantity   int
}

type PlaceOrderInput struct {
	UserID          uuid.UUID
	Lines           []LineInput
	ShippingAddress string
	PaymentMethod   string
}

var paymentMethods = map[string]bool{
	models.PaymentCash:      true,
	models.PaymentCard:      true,
	models.PaymentInsurance: true,
}

// next is the only status an operator may move an order to from each state.
var next = map[models.OrderStatus]models.OrderStatus{
	models.StatusPending:    models.StatusProcessing,
	models.StatusProcessing: models.StatusShipped,
	models.StatusShipped:    models.StatusDelivered,
}

type orderEvent struct {
	OrderID    uuid.UUID          `json:"order_id"`
	UserID     uuid.UUID          `json:"user_id"`
	Status     models.OrderStatus `json:"status"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

func (s *OrderService) publish(ctx context.Context, eventType string, o *models.Order) {
	if s.Events == nil {
		return
	}
	ev := events.New(eventType, orderEvent{OrderID: o.ID, UserID: o.UserID, Status: o.Status, TotalPrice: o.TotalPrice})
	if err := s.Events.Publish(ctx, events.TopicOrders, o.ID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", eventType, "order_id", o.ID, "error", err)
	}
}

// mergeLines sums quantities of repeated medicines, keeping first-seen order.
func mergeLines(lines []LineInput) ([]LineInput, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one line", apperr.ErrInvalidRequest)
	}

	merged := make([]LineInput, 0, len(lines))
	at := map[uuid.UUID]int{}
	for _, l := range lines {
		if l.MedicineID == uuid.Nil {
			return nil, fmt.Errorf("%w: medicine_id required", apperr.ErrInvalidRequest)
		}
		if l.Quantity < 1 || l.Quantity > models.MaxQuantity {
			return nil, fmt.Errorf("%w: quantity must be between 1 and %d", apperr.ErrInvalidRequest, models.MaxQuantity)
		}
		if i, ok := at[l.MedicineID]; ok {
			if merged[i].Quantity > models.MaxQuantity-l.Quantity {
				return nil, fmt.Errorf("%w: total quantity of %s exceeds %d", apperr.ErrInvalidRequest, l.MedicineID, models.MaxQuantity)
			}
			merged[i].Quantity += l.Quantity
			continue
		}
		at[l.MedicineID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// PlaceOrder validates every line against the catalog before writing
// anything; the order and its lines are then stored together with prices
// frozen at their current catalog values.
func (s *OrderService) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	lines, err := mergeLines(in.Lines)
	if err != nil {
		return nil, err
	}
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" || len(address) > maxAddressLen {
		return nil, fmt.Errorf("%w: shipping_address must be 1 to %d characters", apperr.ErrInvalidRequest, maxAddressLen)
	}
	if !paymentMethods[in.PaymentMethod] {
		return nil, fmt.Errorf("%w: payment_method must be cash, card or insurance", apperr.ErrInvalidRequest)
	}

	order := &models.Order{
		UserID:          in.UserID,
		Status:          models.StatusPending,
		ShippingAddress: address,
		PaymentMethod:   in.PaymentMethod,
		TotalPrice:      decimal.Zero,
		Lines:           make([]models.OrderLine, 0, len(lines)),
	}
	for _, l := range lines {
		m, err := s.Medicines.GetMedicine(ctx, l.MedicineID)
		if err != nil {
			return nil, err
		}
		if m.RequiresPrescription {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPrescriptionRequired, m.Name)
		}

		lineTotal := m.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		order.Lines = append(order.Lines, models.OrderLine{
			MedicineID: l.MedicineID,
			Quantity:   l.Quantity,
			UnitPrice:  m.Price,
			LineTotal:  lineTotal,
			Name:       m.Name,
			Dosage:     m.Dosage,
		})
		order.TotalPrice = order.TotalPrice.Add(lineTotal)
	}
	if order.TotalPrice.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("%w: order total exceeds %s", apperr.ErrInvalidRequest, maxAmount)
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, "order_placed", order)
	return order, nil
}

func (s *OrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.Transition(ctx, orderID, &userID, []models.OrderStatus{models.StatusPending}, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "order_cancelled", o)
	return o, nil
}

// Advance moves an order one step along pending, processing, shipped,
// delivered.
func (s *OrderService) Advance(ctx context.Context, orderID uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	var from models.OrderStatus
	for f, t := range next {
		if t == to {
			from = f
		}
	}
	if from == "" {
		return nil, fmt.Errorf("%w: status must be processing, shipped or delivered", apperr.ErrInvalidRequest)
	}

	o, err := s.Repo.Transition(ctx, orderID, nil, []models.OrderStatus{from}, to)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "order_"+string(to), o)
	return o, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, orderID)
	}
	s.describe(ctx, o)
	return o, nil
}

func (s *OrderService) ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	total, orders, err := s.Repo.ListOrders(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, err
	}
	for i := range orders {
		s.describe(ctx, &orders[i])
	}
	return total, orders, nil
}

// describe fills line names and dosages from the live catalog. Prices are
// left as stored.
func (s *OrderService) describe(ctx context.Context, o *models.Order) {
	l := logging.FromContext(ctx)
	for i := range o.Lines {
		m, err := s.Medicines.GetMedicine(ctx, o.Lines[i].MedicineID)
		if err != nil {
			l.Warn("medicine_details_unavailable", "medicine_id", o.Lines[i].MedicineID, "error", err)
			continue
		}
		o.Lines[i].Name = m.Name
		o.Lines[i].Dosage = m.Dosage
	}
}
