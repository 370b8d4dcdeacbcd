package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	"github.com/Skotchmaster/medimarket/services/cart/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart increments the user's row for the medicine or creates it. The
// row never grows past limit. A concurrent first insert for the same pair
// loses on the unique index and is retried as an increment.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem, limit int) error {
	err := r.addToCart(ctx, item, limit)
	if pkgdb.IsUniqueViolation(err) {
		item.ID = uuid.Nil
		err = r.addToCart(ctx, item, limit)
	}
	return err
}

func (r *GormRepo) addToCart(ctx context.Context, item *models.CartItem, limit int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair := func() *gorm.DB {
			return tx.Model(&models.CartItem{}).Where("user_id = ? AND medicine_id = ?", item.UserID, item.MedicineID)
		}

		res := pair().
			Where("quantity <= ?", limit-item.Quantity).
			Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return pair().First(item).Error
		}

		var n int64
		if err := pair().Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: quantity cannot exceed %d", apperr.ErrInvalidRequest, limit)
		}

		return tx.Create(item).Error
	})
}

func (r *GormRepo) SetQuantity(ctx context.Context, userID, medicineID uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("user_id = ? AND medicine_id = ?", userID, medicineID).
			Update("quantity", quantity)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: medicine %s is not in the cart", apperr.ErrNotFound, medicineID)
		}
		return tx.Where("user_id = ? AND medicine_id = ?", userID, medicineID).First(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, userID, medicineID uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("user_id = ? AND medicine_id = ?", userID, medicineID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: medicine %s is not in the cart", apperr.ErrNotFound, medicineID)
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
