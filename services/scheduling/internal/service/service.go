package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/medimarket/pkg/catalogclient"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/models"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/repo"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/slots"
	"github.com/google/uuid"
)

const maxReasonLen = 1000

type Doctors interface {
	GetDoctor(ctx context.Context, id uuid.UUID) (*catalogclient.Doctor, error)
}

type AppointmentService struct {
	Repo     *repo.GormRepo
	Doctors  Doctors
	Events   events.Publisher
	Template slots.Template
	Now      func() time.Time
}

func (s *AppointmentService) template() slots.Template {
	if s.Template.Len() == 0 {
		return slots.Default
	}
	return s.Template
}

func (s *AppointmentService) today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().UTC().Format(slots.DateLayout)
}

type appointmentEvent struct {
	AppointmentID uuid.UUID                `json:"appointment_id"`
	UserID        uuid.UUID                `json:"user_id"`
	DoctorID      uuid.UUID                `json:"doctor_id"`
	Date          string                   `json:"date"`
	Time          string                   `json:"time"`
	Status        models.AppointmentStatus `json:"status"`
}

func (s *AppointmentService) publish(ctx context.Context, eventType string, a *models.Appointment) {
	if s.Events == nil {
		return
	}
	ev := events.New(eventType, appointmentEvent{
		AppointmentID: a.ID,
		UserID:        a.UserID,
		DoctorID:      a.DoctorID,
		Date:          a.Date,
		Time:          a.Time,
		Status:        a.Status,
	})
	if err := s.Events.Publish(ctx, events.TopicAppointments, a.ID.String(), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", eventType, "appointment_id", a.ID, "error", err)
	}
}
