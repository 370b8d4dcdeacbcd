package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/google/uuid"
)

const maxCommentLen = 2000

type reviewEvent struct {
	ReviewID     uuid.UUID `json:"review_id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	UserID       uuid.UUID `json:"user_id"`
	Rating       int       `json:"rating"`
	DoctorRating float64   `json:"doctor_rating"`
}

// SubmitReview creates or replaces the user's review of a doctor and
// re-indexes the doctor with the recomputed rating.
func (s *CatalogService) SubmitReview(ctx context.Context, userID, doctorID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", apperr.ErrInvalidRequest)
	}
	if utf8.RuneCountInString(comment) > maxCommentLen {
		return nil, fmt.Errorf("%w: comment is longer than %d characters", apperr.ErrInvalidRequest, maxCommentLen)
	}

	rv, doctor, err := s.Repo.UpsertReview(ctx, &models.Review{
		UserID:   userID,
		DoctorID: doctorID,
		Rating:   rating,
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}
	if err := s.index().PutDoctor(ctx, doctor); err != nil {
		logging.FromContext(ctx).Warn("index_doctor_failed", "doctor_id", doctor.ID, "error", err)
	}

	s.publish(ctx, events.TopicReviews, doctorID.String(), "review_submitted", reviewEvent{
		ReviewID:     rv.ID,
		DoctorID:     doctorID,
		UserID:       userID,
		Rating:       rating,
		DoctorRating: doctor.Rating,
	})
	return rv, nil
}

func (s *CatalogService) ListReviews(ctx context.Context, doctorID uuid.UUID, offset, limit int) (int64, []models.Review, error) {
	if _, err := s.Repo.GetDoctor(ctx, doctorID); err != nil {
		return 0, nil, err
	}
	return s.Repo.ListReviews(ctx, doctorID, offset, limit)
}
