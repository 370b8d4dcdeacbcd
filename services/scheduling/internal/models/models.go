package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
)

// Appointment holds one booked slot. The idx_active_slot partial index keeps
// at most one non-cancelled appointment per doctor, date and time.
type Appointment struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"                                                        json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index"                                                    json:"user_id"`
	DoctorID  uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_active_slot,where:status <> 'cancelled'" json:"doctor_id"`
	Date      string            `gorm:"type:varchar(10);not null;uniqueIndex:idx_active_slot"                      json:"date"`
	Time      string            `gorm:"type:varchar(5);not null;uniqueIndex:idx_active_slot"                       json:"time"`
	Reason    string            `gorm:"type:text"                                                                   json:"reason"`
	Status    AppointmentStatus `gorm:"type:varchar(16);not null;default:pending;index"                             json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (Appointment) TableName() string {
	return "appointments"
}
