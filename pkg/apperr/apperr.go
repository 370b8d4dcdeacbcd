package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound             = errors.New("not found")             // 404
	ErrInvalidRequest       = errors.New("invalid request")       // 400
	ErrSlotUnavailable      = errors.New("slot unavailable")      // 409
	ErrPrescriptionRequired = errors.New("prescription required") // 422
	ErrInvalidTransition    = errors.New("invalid transition")    // 409
)

// Status maps a business error to its HTTP status. Errors outside the
// taxonomy are storage or programming failures and map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrPrescriptionRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsBusiness reports whether err belongs to the caller-facing taxonomy.
func IsBusiness(err error) bool {
	return Status(err) != http.StatusInternalServerError
}
