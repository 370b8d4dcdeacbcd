package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/cart/internal/models"
	"github.com/Skotchmaster/medimarket/services/cart/internal/repo"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Medicines interface {
	GetMedicine(ctx context.Context, id uuid.UUID) (*catalogclient.Medicine, error)
}

type CartService struct {
	Repo      *repo.GormRepo
	Medicines Medicines
	Events    events.Publisher
}

type CartLine struct {
	Medicine  catalogclient.Medicine `json:"medicine"`
	Quantity  int                    `json:"quantity"`
	LineTotal decimal.Decimal        `json:"line_total"`
}

type UnavailableItem struct {
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int       `json:"quantity"`
}

type Cart struct {
	Items       []CartLine        `json:"items"`
	Unavailable []UnavailableItem `json:"unavailable"`
	Total       decimal.Decimal   `json:"total"`
}

type cartEvent struct {
	UserID     uuid.UUID  `json:"user_id"`
	MedicineID *uuid.UUID `json:"medicine_id,omitempty"`
	Quantity   int        `json:"quantity,omitempty"`
}

func (s *CartService) publish(ctx context.Context, eventType string, data cartEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicCart, data.UserID.String(), events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", eventType, "user_id", data.UserID, "error", err)
	}
}

func validQuantity(q int) error {
	if q < 1 || q > models.MaxQuantity {
		return fmt.Errorf("%w: quantity must be between 1 and %d", apperr.ErrInvalidRequest, models.MaxQuantity)
	}
	return nil
}

// GetCart prices every line at the catalog's current price. Lines whose
// medicine no longer exists are reported separately and left out of Total.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &Cart{Items: []CartLine{}, Unavailable: []UnavailableItem{}, Total: decimal.Zero}
	for _, it := range items {
		m, err := s.Medicines.GetMedicine(ctx, it.MedicineID)
		if errors.Is(err, apperr.ErrNotFound) {
			cart.Unavailable = append(cart.Unavailable, UnavailableItem{MedicineID: it.MedicineID, Quantity: it.Quantity})
			continue
		}
		if err != nil {
			return nil, err
		}

		line := m.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		cart.Items = append(cart.Items, CartLine{Medicine: *m, Quantity: it.Quantity, LineTotal: line})
		cart.Total = cart.Total.Add(line)
	}
	return cart, nil
}

func (s *CartService) Add(ctx context.Context, userID, medicineID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	m, err := s.Medicines.GetMedicine(ctx, medicineID)
	if err != nil {
		return nil, err
	}
	if m.RequiresPrescription {
		return nil, fmt.Errorf("%w: %s", apperr.ErrPrescriptionRequired, m.Name)
	}

	item := &models.CartItem{UserID: userID, MedicineID: medicineID, Quantity: quantity}
	if err := s.Repo.AddToCart(ctx, item, models.MaxQuantity); err != nil {
		return nil, err
	}

	s.publish(ctx, "cart_item_added", cartEvent{UserID: userID, MedicineID: &medicineID, Quantity: item.Quantity})
	return item, nil
}

func (s *CartService) SetQuantity(ctx context.Context, userID, medicineID uuid.UUID, quantity int) (*models.CartItem, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	item, err := s.Repo.SetQuantity(ctx, userID, medicineID, quantity)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "cart_item_updated", cartEvent{UserID: userID, MedicineID: &medicineID, Quantity: quantity})
	return item, nil
}

func (s *CartService) Remove(ctx context.Context, userID, medicineID uuid.UUID) error {
	if err := s.Repo.RemoveFromCart(ctx, userID, medicineID); err != nil {
		return err
	}
	s.publish(ctx, "cart_item_removed", cartEvent{UserID: userID, MedicineID: &medicineID})
	return nil
}

// Clear empties the cart. Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	n, err := s.Repo.ClearCart(ctx, userID)
	if err != nil {
		return err
	}
	if n > 0 {
		s.publish(ctx, "cart_cleared", cartEvent{UserID: userID})
	}
	return nil
}
