package repo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *GormRepo) GetDoctor(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err, "doctor", id)
	}
	return &d, nil
}

func (r *GormRepo) ListDoctors(ctx context.Context, specialization string, offset, limit int) (int64, []models.Doctor, error) {
	q := r.DB.WithContext(ctx).Model(&models.Doctor{})
	if specialization != "" {
		q = q.Where("LOWER(specialization) = ?", strings.ToLower(specialization))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Doctor, 0, limit)
	if err := q.Order("name ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateDoctor(ctx context.Context, d *models.Doctor) error {
	return r.DB.WithContext(ctx).Create(d).Error
}

func (r *GormRepo) GetMedicine(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	var m models.Medicine
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err, "medicine", id)
	}
	return &m, nil
}

func (r *GormRepo) ListMedicines(ctx context.Context, offset, limit int) (int64, []models.Medicine, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Medicine{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Medicine, 0, limit)
	if err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateMedicine(ctx context.Context, m *models.Medicine) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// SaveMedicine writes every column of m, including zero values.
func (r *GormRepo) SaveMedicine(ctx context.Context, m *models.Medicine) error {
	return r.DB.WithContext(ctx).Save(m).Error
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(q))) + "%"
}

// SearchDoctors is the substring fallback used when no search index is configured.
func (r *GormRepo) SearchDoctors(ctx context.Context, q string, offset, limit int) (int64, []models.Doctor, error) {
	p := likePattern(q)
	where := r.DB.WithContext(ctx).Model(&models.Doctor{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(specialization) LIKE ? ESCAPE '\'`, p, p).
		Session(&gorm.Session{})

	var total int64
	if err := where.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.Doctor, 0, limit)
	if err := where.Order("rating DESC").Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) SearchMedicines(ctx context.Context, q string, offset, limit int) (int64, []models.Medicine, error) {
	p := likePattern(q)
	where := r.DB.WithContext(ctx).Model(&models.Medicine{}).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, p, p).
		Session(&gorm.Session{})

	var total int64
	if err := where.Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.Medicine, 0, limit)
	if err := where.Order("name ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
