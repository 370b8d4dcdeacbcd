package service

import (
	"context"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/models"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/slots"
	"github.com/google/uuid"
)

type BookInput struct {
	UserID   uuid.UUID
	DoctorID uuid.UUID
	Date     string
	Time     string
	Reason   string
}

func (s *AppointmentService) Book(ctx context.Context, in BookInput) (*models.Appointment, error) {
	if _, err := slots.ParseDate(in.Date); err != nil {
		return nil, err
	}
	if !s.template().Contains(in.Time) {
		return nil, fmt.Errorf("%w: %q is not a bookable time", apperr.ErrInvalidRequest, in.Time)
	}
	if utf8.RuneCountInString(in.Reason) > maxReasonLen {
		return nil, fmt.Errorf("%w: reason is longer than %d characters", apperr.ErrInvalidRequest, maxReasonLen)
	}
	if in.Date < s.today() {
		return nil, fmt.Errorf("%w: %s is in the past", apperr.ErrInvalidRequest, in.Date)
	}

	free, err := s.AvailableSlots(ctx, in.DoctorID, in.Date)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(free, in.Time) {
		return nil, fmt.Errorf("%w: %s on %s is already booked", apperr.ErrSlotUnavailable, in.Time, in.Date)
	}

	a := &models.Appointment{
		UserID:   in.UserID,
		DoctorID: in.DoctorID,
		Date:     in.Date,
		Time:     in.Time,
		Reason:   in.Reason,
		Status:   models.StatusPending,
	}
	if err := s.Repo.CreateAppointment(ctx, a); err != nil {
		return nil, err
	}

	s.publish(ctx, "appointment_booked", a)
	return a, nil
}

func (s *AppointmentService) Cancel(ctx context.Context, appointmentID, userID uuid.UUID) (*models.Appointment, error) {
	a, err := s.Repo.Transition(ctx, appointmentID, &userID,
		[]models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}, models.StatusCancelled)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "appointment_cancelled", a)
	return a, nil
}

func (s *AppointmentService) Confirm(ctx context.Context, appointmentID uuid.UUID) (*models.Appointment, error) {
	a, err := s.Repo.Transition(ctx, appointmentID, nil,
		[]models.AppointmentStatus{models.StatusPending}, models.StatusConfirmed)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "appointment_confirmed", a)
	return a, nil
}

func (s *AppointmentService) Complete(ctx context.Context, appointmentID uuid.UUID) (*models.Appointment, error) {
	a, err := s.Repo.Transition(ctx, appointmentID, nil,
		[]models.AppointmentStatus{models.StatusConfirmed}, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "appointment_completed", a)
	return a, nil
}

// GetByID hides other users' appointments behind ErrNotFound.
func (s *AppointmentService) GetByID(ctx context.Context, appointmentID, userID uuid.UUID) (*models.Appointment, error) {
	a, err := s.Repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, fmt.Errorf("%w: appointment %s", apperr.ErrNotFound, appointmentID)
	}
	return a, nil
}

type AppointmentView struct {
	models.Appointment
	Doctor *catalogclient.Doctor `json:"doctor,omitempty"`
}

// ListForUser pages through the user's appointments, newest date first. A
// doctor the catalog cannot resolve leaves Doctor empty.
func (s *AppointmentService) ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) (int64, []AppointmentView, error) {
	total, items, err := s.Repo.ListAppointments(ctx, userID, offset, limit)
	if err != nil {
		return 0, nil, err
	}

	l := logging.FromContext(ctx)
	doctors := map[uuid.UUID]*catalogclient.Doctor{}
	views := make([]AppointmentView, 0, len(items))
	for _, a := range items {
		d, seen := doctors[a.DoctorID]
		if !seen {
			d, err = s.Doctors.GetDoctor(ctx, a.DoctorID)
			if err != nil {
				l.Warn("doctor_summary_unavailable", "doctor_id", a.DoctorID, "error", err)
				d = nil
			}
			doctors[a.DoctorID] = d
		}
		views = append(views, AppointmentView{Appointment: a, Doctor: d})
	}
	return total, views, nil
}
