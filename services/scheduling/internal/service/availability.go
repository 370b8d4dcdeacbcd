package service

import (
	"context"

	"github.com/Skotchmaster/medimarket/services/scheduling/internal/slots"
	"github.com/google/uuid"
)

// AvailableSlots returns the free template times of doctorID on date. Past
// dates are answered like any other.
func (s *AppointmentService) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]string, error) {
	if _, err := slots.ParseDate(date); err != nil {
		return nil, err
	}
	if _, err := s.Doctors.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	booked, err := s.Repo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	return s.template().Free(booked), nil
}
