package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/Skotchmaster/medimarket/pkg/events"
	"github.com/Skotchmaster/medimarket/pkg/logging"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/repo"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/search"
	"github.com/Skotchmaster/medimarket/services/catalog/internal/transport"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPrice is the largest value a numeric(12,2) column holds.
var maxPrice = decimal.RequireFromString("9999999999.99")

// normalizePrice rounds to cents, the precision prices are stored at.
func normalizePrice(p decimal.Decimal) (decimal.Decimal, error) {
	p = p.Round(2)
	if p.IsNegative() {
		return p, fmt.Errorf("%w: price cannot be negative", apperr.ErrInvalidRequest)
	}
	if p.GreaterThan(maxPrice) {
		return p, fmt.Errorf("%w: price cannot exceed %s", apperr.ErrInvalidRequest, maxPrice)
	}
	return p, nil
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Index  search.Index
	Events events.Publisher
}

func (s *CatalogService) index() search.Index {
	if s.Index == nil {
		return search.DB{Repo: s.Repo}
	}
	return s.Index
}

func (s *CatalogService) publish(ctx context.Context, topic, key, eventType string, data any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "event", eventType, "key", key, "error", err)
	}
}

func (s *CatalogService) GetDoctor(ctx context.Context, id uuid.UUID) (*models.Doctor, error) {
	return s.Repo.GetDoctor(ctx, id)
}

func (s *CatalogService) ListDoctors(ctx context.Context, specialization string, offset, limit int) (int64, []models.Doctor, error) {
	return s.Repo.ListDoctors(ctx, strings.TrimSpace(specialization), offset, limit)
}

func (s *CatalogService) CreateDoctor(ctx context.Context, req transport.CreateDoctorRequest) (*models.Doctor, error) {
	name := strings.TrimSpace(req.Name)
	spec := strings.TrimSpace(req.Specialization)
	if name == "" || spec == "" {
		return nil, fmt.Errorf("%w: name and specialization are required", apperr.ErrInvalidRequest)
	}

	d := &models.Doctor{Name: name, Specialization: spec, Bio: req.Bio}
	if err := s.Repo.CreateDoctor(ctx, d); err != nil {
		return nil, err
	}
	if err := s.index().PutDoctor(ctx, d); err != nil {
		logging.FromContext(ctx).Warn("index_doctor_failed", "doctor_id", d.ID, "error", err)
	}
	return d, nil
}

func (s *CatalogService) GetMedicine(ctx context.Context, id uuid.UUID) (*models.Medicine, error) {
	return s.Repo.GetMedicine(ctx, id)
}

func (s *CatalogService) ListMedicines(ctx context.Context, offset, limit int) (int64, []models.Medicine, error) {
	return s.Repo.ListMedicines(ctx, offset, limit)
}

func (s *CatalogService) CreateMedicine(ctx context.Context, req transport.CreateMedicineRequest) (*models.Medicine, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.Dosage) == "" {
		return nil, fmt.Errorf("%w: name and dosage are required", apperr.ErrInvalidRequest)
	}
	price, err := normalizePrice(req.Price)
	if err != nil {
		return nil, err
	}

	m := &models.Medicine{
		Name:                 name,
		Dosage:               strings.TrimSpace(req.Dosage),
		Description:          req.Description,
		Price:                price,
		RequiresPrescription: req.RequiresPrescription,
	}
	if err := s.Repo.CreateMedicine(ctx, m); err != nil {
		return nil, err
	}
	if err := s.index().PutMedicine(ctx, m); err != nil {
		logging.FromContext(ctx).Warn("index_medicine_failed", "medicine_id", m.ID, "error", err)
	}
	return m, nil
}

// PatchMedicine changes only the fields present in req. Price changes never
// touch existing orders, which keep the price they were placed at.
func (s *CatalogService) PatchMedicine(ctx context.Context, id uuid.UUID, req transport.PatchMedicineRequest) (*models.Medicine, error) {
	var price decimal.Decimal
	if req.Price != nil {
		var err error
		if price, err = normalizePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperr.ErrInvalidRequest)
	}

	m, err := s.Repo.GetMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Dosage != nil {
		m.Dosage = *req.Dosage
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Price != nil {
		m.Price = price
	}
	if req.RequiresPrescription != nil {
		m.RequiresPrescription = *req.RequiresPrescription
	}

	if err := s.Repo.SaveMedicine(ctx, m); err != nil {
		return nil, err
	}
	if err := s.index().PutMedicine(ctx, m); err != nil {
		logging.FromContext(ctx).Warn("index_medicine_failed", "medicine_id", m.ID, "error", err)
	}
	return m, nil
}

type SearchResult struct {
	Total     int64             `json:"total"`
	Doctors   []models.Doctor   `json:"doctors,omitempty"`
	Medicines []models.Medicine `json:"medicines,omitempty"`
}

// Search looks in one kind, or in both when kind is empty; Total is then the
// sum of both.
func (s *CatalogService) Search(ctx context.Context, q, kind string, offset, limit int) (*SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("%w: q is required", apperr.ErrInvalidRequest)
	}
	if kind != "" && kind != search.KindDoctors && kind != search.KindMedicines {
		return nil, fmt.Errorf("%w: kind must be doctors or medicines", apperr.ErrInvalidRequest)
	}

	res := &SearchResult{}
	if kind == "" || kind == search.KindDoctors {
		total, items, err := s.index().Doctors(ctx, q, offset, limit)
		if err != nil {
			return nil, err
		}
		res.Total += total
		res.Doctors = items
	}
	if kind == "" || kind == search.KindMedicines {
		total, items, err := s.index().Medicines(ctx, q, offset, limit)
		if err != nil {
			return nil, err
		}
		res.Total += total
		res.Medicines = items
	}
	return res, nil
}
