package transport

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Bio            string `json:"bio"`
}

type CreateMedicineRequest struct {
	Name                 string          `json:"name"`
	Dosage               string          `json:"dosage"`
	Description          string          `json:"description"`
	Price                decimal.Decimal `json:"price"`
	RequiresPrescription bool            `json:"requires_prescription"`
}

type PatchMedicineRequest struct {
	Name                 *string          `json:"name"`
	Dosage               *string          `json:"dosage"`
	Description          *string          `json:"description"`
	Price                *decimal.Decimal `json:"price"`
	RequiresPrescription *bool            `json:"requires_prescription"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type FeedbackRequest struct {
	Type      string     `json:"type"`
	RelatedID *uuid.UUID `json:"related_id"`
	Message   string     `json:"message"`
	Rating    *int       `json:"rating"`
}
