package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/villa-booking-api/internal/domain"
)

// ContactRepo persists contact-form submissions.
type ContactRepo struct {
	db *sqlx.DB
}

func NewContactRepo(db *sqlx.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Put(ctx context.Context, c *domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (contact_id, full_name, email, persons, visit_date, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ContactID, c.FullName, c.Email, c.Persons, c.VisitDate, c.Message, c.CreatedAt,
	)
	return translate("insert contact", err)
}
