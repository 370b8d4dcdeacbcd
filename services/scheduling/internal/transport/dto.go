package transport

import (
	"github.com/Skotchmaster/medimarket/pkg/pagination"
	"github.com/Skotchmaster/medimarket/services/scheduling/internal/service"
	"github.com/google/uuid"
)

type BookRequest struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Reason   string    `json:"reason"`
}

type AvailabilityResponse struct {
	DoctorID       uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	AvailableTimes []string  `json:"available_times"`
}

type AppointmentsResponse struct {
	Appointments []service.AppointmentView `json:"appointments"`
	Pagination   pagination.Meta           `json:"pagination"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
