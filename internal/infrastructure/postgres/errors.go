package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/villa-booking-api/internal/domain"
)

// Postgres error codes this layer translates into domain errors.
const (
	codeUniqueViolation      = "23505"
	codeExclusionViolation   = "23P01"
	codeSerializationFailure = "40001"
)

// translate maps store-level failures onto the domain error taxonomy so
// callers never see driver internals. Unique and exclusion violations both
// surface as ErrConflict; so do serialization failures, since the competing
// transaction has already claimed the rows.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case codeUniqueViolation, codeExclusionViolation, codeSerializationFailure:
			return fmt.Errorf("%s: %w", op, domain.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
