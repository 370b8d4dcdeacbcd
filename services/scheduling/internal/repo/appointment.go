package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	pkgdb "github.com/Skotchmaster/medimarket/pkg/db"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookedTimes lists the slot labels held by non-cancelled appointments.
func (r *GormRepo) BookedTimes(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	var times []string
	err := r.DB.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("doctor_id = ? AND date = ? AND status <> ?", doctorID, date, models.StatusCancelled).
		Pluck("time", &times).Error
	if err != nil {
		return nil, err
	}
	return times, nil
}

// CreateAppointment inserts a. Losing the race for an active slot surfaces as
// apperr.ErrSlotUnavailable.
func (r *GormRepo) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	if err := r.DB.WithContext(ctx).Create(a).Error; err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s on %s was just taken", apperr.ErrSlotUnavailable, a.Time, a.Date)
		}
		return err
	}
	return nil
}

func (r *GormRepo) GetAppointment(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: appointment %s", apperr.ErrNotFound, id)
		}
		return nil, err
	}
	return &a, nil
}

// Transition moves appointment id to status to when its current status is one
// of from. A non-nil owner restricts the update to that user's appointments.
// The WHERE clause carries the precondition so concurrent transitions cannot
// both succeed.
func (r *GormRepo) Transition(ctx context.Context, id uuid.UUID, owner *uuid.UUID, from []models.AppointmentStatus, to models.AppointmentStatus) (*models.Appointment, error) {
	q := r.DB.WithContext(ctx).Model(&models.Appointment{}).Where("id = ? AND status IN ?", id, from)
	if owner != nil {
		q = q.Where("user_id = ?", *owner)
	}
	res := q.Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}

	current, err := r.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner != nil && current.UserID != *owner {
		return nil, fmt.Errorf("%w: appointment %s", apperr.ErrNotFound, id)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: appointment is %s, cannot become %s", apperr.ErrInvalidTransition, current.Status, to)
	}
	return current, nil
}

func (r *GormRepo) ListAppointments(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []models.Appointment, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Appointment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Appointment, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").Order("time ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
