package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/services/order/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// CreateOrder writes the order and all of its lines in one transaction.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Create(order).Error; err != nil {
			return err
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
			order.Lines[i].Position = i
		}
		return tx.Create(&order.Lines).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Lines", orderedLines).Where("id = ?", id).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Order, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// Transition moves order id from one of the from statuses to to, optionally
// restricted to owner. The status precondition lives in the UPDATE itself.
func (r *GormRepo) Transition(ctx context.Context, id uuid.UUID, owner *uuid.UUID, from []models.OrderStatus, to models.OrderStatus) (*models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ? AND status IN ?", id, from)
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	res := q.Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}

	current, err := r.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != nil && current.UserID != *owner {
		return nil, fmt.Errorf("%w: order %s", apperr.ErrNotFound, id)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order is %s, cannot become %s", apperr.ErrInvalidTransition, current.Status, to)
	}
	return current, nil
}
