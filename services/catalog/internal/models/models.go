package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Doctor struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name           string    `gorm:"not null"                  json:"name"`
	Specialization string    `gorm:"not null;index"            json:"specialization"`
	Bio            string    `gorm:"type:text"                 json:"bio,omitempty"`
	Rating         float64   `gorm:"not null;default:0"        json:"rating"`
	ReviewsCount   int64     `gorm:"not null;default:0"        json:"reviews_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Medicine struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"         json:"id"`
	Name                 string          `gorm:"not null;index"               json:"name"`
	Dosage               string          `gorm:"not null"                     json:"dosage"`
	Description          string          `gorm:"type:text"                    json:"description,omitempty"`
	Price                decimal.Decimal `gorm:"type:numeric(12,2);not null"  json:"price"`
	RequiresPrescription bool            `gorm:"not null;default:false"       json:"requires_prescription"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Review is unique per user and doctor; a second submission replaces the first.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                 json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_doctor" json:"user_id"`
	DoctorID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_doctor;index" json:"doctor_id"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 1 AND 5"                json:"rating"`
	Comment   string    `gorm:"type:text"                                            json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FeedbackDoctor   = "doctor"
	FeedbackMedicine = "medicine"
	FeedbackWebsite  = "website"
	FeedbackService  = "service"
)

type Feedback struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"    json:"user_id"`
	Type      string     `gorm:"type:varchar(16);not null"   json:"type"`
	RelatedID *uuid.UUID `gorm:"type:uuid"                   json:"related_id,omitempty"`
	Message   string     `gorm:"type:text;not null"          json:"message"`
	Rating    *int       `json:"rating,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (d *Doctor) BeforeCreate(tx *gorm.DB) error   { newID(&d.ID); return nil }
func (m *Medicine) BeforeCreate(tx *gorm.DB) error { newID(&m.ID); return nil }
func (r *Review) BeforeCreate(tx *gorm.DB) error   { newID(&r.ID); return nil }
func (f *Feedback) BeforeCreate(tx *gorm.DB) error { newID(&f.ID); return nil }

func All() []any {
	return []any{&Doctor{}, &Medicine{}, &Review{}, &Feedback{}}
}
