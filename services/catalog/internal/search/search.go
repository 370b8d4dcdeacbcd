// Package search finds doctors and medicines by free text. ES is used when an
// Elasticsearch cluster is configured, DB otherwise.
package search

import (
	"context"

	"github.com/Skotchmaster/medimarket/services/catalog/internal/models"
)

const (
	KindDoctors   = "doctors"
	KindMedicines = "medicines"
)

type Index interface {
	Doctors(ctx context.Context, q string, offset, limit int) (int64, []models.Doctor, error)
	Medicines(ctx context.Context, q string, offset, limit int) (int64, []models.Medicine, error)
	PutDoctor(ctx context.Context, d *models.Doctor) error
	PutMedicine(ctx context.Context, m *models.Medicine) error
}

type dbSearcher interface {
	SearchDoctors(ctx context.Context, q string, offset, limit int) (int64, []models.Doctor, error)
	SearchMedicines(ctx context.Context, q string, offset, limit int) (int64, []models.Medicine, error)
}

// DB answers queries with substring matches straight from the catalog tables.
type DB struct {
	Repo dbSearcher
}

func (s DB) Doctors(ctx context.Context, q string, offset, limit int) (int64, []models.Doctor, error) {
	return s.Repo.SearchDoctors(ctx, q, offset, limit)
}

func (s DB) Medicines(ctx context.Context, q string, offset, limit int) (int64, []models.Medicine, error) {
	return s.Repo.SearchMedicines(ctx, q, offset, limit)
}

func (DB) PutDoctor(context.Context, *models.Doctor) error     { return nil }
func (DB) PutMedicine(context.Context, *models.Medicine) error { return nil }
