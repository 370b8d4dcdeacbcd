package repo

import (
	"context"
	"math"

	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertReview stores rv, replacing the user's earlier review of the same
// doctor, and recomputes the doctor's rating from every stored review.
func (r *GormRepo) UpsertReview(ctx context.Context, rv *models.Review) (*models.Review, *models.Doctor, error) {
	var (
		saved  models.Review
		doctor models.Doctor
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", rv.DoctorID).First(&doctor).Error; err != nil {
			return notFound(err, "doctor", rv.DoctorID)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "doctor_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
		}).Create(rv).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND doctor_id = ?", rv.UserID, rv.DoctorID).First(&saved).Error; err != nil {
			return err
		}

		return recomputeRating(tx, &doctor)
	})
	if err != nil {
		return nil, nil, err
	}
	return &saved, &doctor, nil
}

// recomputeRating rescans all reviews so the stored aggregate never drifts.
func recomputeRating(tx *gorm.DB, d *models.Doctor) error {
	var agg struct {
		Avg   *float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS count").
		Where("doctor_id = ?", d.ID).
		Scan(&agg).Error; err != nil {
		return err
	}

	rating := 0.0
	if agg.Avg != nil {
		rating = math.Round(*agg.Avg*10) / 10
	}
	d.Rating = rating
	d.ReviewsCount = agg.Count

	return tx.Model(&models.Doctor{}).Where("id = ?", d.ID).Updates(map[string]any{
		"rating":        rating,
		"reviews_count": agg.Count,
	}).Error
}

func (r *GormRepo) ListReviews(ctx context.Context, doctorID uuid.UUID, offset, limit int) (int64, []models.Review, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).Where("doctor_id = ?", doctorID).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Review, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("updated_at DESC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Create(f).Error
}
