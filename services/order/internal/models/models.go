package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

const (
	PaymentCash      = "cash"
	PaymentCard      = "card"
	PaymentInsurance = "insurance"
)

// MaxQuantity bounds the quantity of a single order line.
const MaxQuantity = 999

// Order prices are frozen when the order is placed and never recomputed.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"                        json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index"                    json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(16);not null;default:pending"   json:"status"`
	ShippingAddress string          `gorm:"type:text;not null"                          json:"shipping_address"`
	PaymentMethod   string          `gorm:"type:varchar(16);not null"                   json:"payment_method"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null"                 json:"total_price"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt       time.Time       `gorm:"index"                                       json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"                               json:"id"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_medicine" json:"order_id"`
	MedicineID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_order_medicine" json:"medicine_id"`
	Position   int             `gorm:"not null"                                           json:"-"`
	Quantity   int             `gorm:"not null;check:quantity > 0"                        json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"                        json:"unit_price"`
	LineTotal  decimal.Decimal `gorm:"type:numeric(12,2);not null"                        json:"line_total"`

	// Display only, filled from the live catalog on read.
	Name   string `gorm:"-" json:"name,omitempty"`
	Dosage string `gorm:"-" json:"dosage,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (Order) TableName() string     { return "orders" }
func (OrderLine) TableName() string { return "order_lines" }
