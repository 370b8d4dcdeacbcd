package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/google/uuid"
)

const maxFeedbackLen = 2000

// Subject is what a piece of feedback is about. Doctor and medicine feedback
// point at a catalog entry; website and service feedback point at nothing.
type Subject interface {
	Type() string
	RelatedID() *uuid.UUID
}

type DoctorSubject struct{ DoctorID uuid.UUID }
type MedicineSubject struct{ MedicineID uuid.UUID }
type WebsiteSubject struct{}
type ServiceSubject struct{}

func (s DoctorSubject) Type() string            { return models.FeedbackDoctor }
func (s DoctorSubject) RelatedID() *uuid.UUID   { return &s.DoctorID }
func (s MedicineSubject) Type() string          { return models.FeedbackMedicine }
func (s MedicineSubject) RelatedID() *uuid.UUID { return &s.MedicineID }
func (WebsiteSubject) Type() string             { return models.FeedbackWebsite }
func (WebsiteSubject) RelatedID() *uuid.UUID    { return nil }
func (ServiceSubject) Type() string             { return models.FeedbackService }
func (ServiceSubject) RelatedID() *uuid.UUID    { return nil }

// ParseSubject builds a Subject from its wire form.
func ParseSubject(kind string, relatedID *uuid.UUID) (Subject, error) {
	hasRelated := relatedID != nil && *relatedID != uuid.Nil

	switch kind {
	case models.FeedbackDoctor, models.FeedbackMedicine:
		if !hasRelated {
			return nil, fmt.Errorf("%w: %s feedback needs related_id", apperr.ErrInvalidRequest, kind)
		}
		if kind == models.FeedbackDoctor {
			return DoctorSubject{DoctorID: *relatedID}, nil
		}
		return MedicineSubject{MedicineID: *relatedID}, nil
	case models.FeedbackWebsite, models.FeedbackService:
		if hasRelated {
			return nil, fmt.Errorf("%w: %s feedback takes no related_id", apperr.ErrInvalidRequest, kind)
		}
		if kind == models.FeedbackWebsite {
			return WebsiteSubject{}, nil
		}
		return ServiceSubject{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown feedback type %q", apperr.ErrInvalidRequest, kind)
	}
}

func (s *CatalogService) SubmitFeedback(ctx context.Context, userID uuid.UUID, subject Subject, message string, rating *int) (*models.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", apperr.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(message) > maxFeedbackLen {
		return nil, fmt.Errorf("%w: message is longer than %d characters", apperr.ErrInvalidRequest, maxFeedbackLen)
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrInvalidRequest)
	}

	switch sub := subject.(type) {
	case DoctorSubject:
		if _, err := s.Repo.GetDoctor(ctx, sub.DoctorID); err != nil {
			return nil, err
		}
	case MedicineSubject:
		if _, err := s.Repo.GetMedicine(ctx, sub.MedicineID); err != nil {
			return nil, err
		}
	}

	f := &models.Feedback{
		UserID:    userID,
		Type:      subject.Type(),
		RelatedID: subject.RelatedID(),
		Message:   message,
		Rating:    rating,
	}
	if err := s.Repo.CreateFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
