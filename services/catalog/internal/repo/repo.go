package repo

import (
	"errors"
	"fmt"

	"github.com/Skotchmaster/medimarket/pkg/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func notFound(err error, what string, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, what, id)
	}
	return err
}
