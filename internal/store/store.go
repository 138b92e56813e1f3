// Package store holds the gorm-backed credential store and delivery ledger.
package store

import (
	"errors"

	"gorm.io/gorm"

	"commission_tracker/internal/apperr"
)

// translate maps gorm failures onto the application error taxonomy.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.New(apperr.KindConflict, "duplicate record", err)
	default:
		return apperr.Internal("database error", err)
	}
}
