package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxQuantity bounds a single cart row.
const MaxQuantity = 999

// CartItem stores only the medicine reference and quantity; prices are
// always read live from the catalog.
type CartItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"                                  json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_medicine;not null"      json:"user_id"`
	MedicineID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_medicine;not null"      json:"medicine_id"`
	Quantity   int       `gorm:"not null;default:1;check:quantity > 0"                 json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (CartItem) TableName() string {
	return "cart_items"
}
