package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/villa-booking-api/internal/domain"
)

// ReviewRepo persists reviews. The (villa_id, user_id) unique constraint is
// the one-review-per-guest rule; violations surface as domain.ErrConflict.
type ReviewRepo struct {
	db *sqlx.DB
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

func (r *ReviewRepo) Put(ctx context.Context, rv *domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (review_id, villa_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rv.ReviewID, rv.VillaID, rv.UserID, rv.Rating, rv.Comment, rv.CreatedAt,
	)
	return translate("insert review", err)
}

// GetWithVillaOwner returns the review plus the owner of the reviewed
// villa, for delete authorization.
func (r *ReviewRepo) GetWithVillaOwner(ctx context.Context, reviewID string) (*domain.Review, string, error) {
	var row struct {
		domain.Review
		VillaOwnerID string `db:"villa_owner_id"`
	}
	err := r.db.GetContext(ctx, &row, `
		SELECT r.review_id, r.villa_id, r.user_id, r.rating, r.comment, r.created_at,
			v.owner_id AS villa_owner_id
		FROM reviews r JOIN villas v ON v.villa_id = r.villa_id
		WHERE r.review_id = $1`, reviewID)
	if err != nil {
		return nil, "", translate("get review", err)
	}
	return &row.Review, row.VillaOwnerID, nil
}

func (r *ReviewRepo) ListByVilla(ctx context.Context, villaID string) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.SelectContext(ctx, &reviews, `
		SELECT review_id, villa_id, user_id, rating, comment, created_at
		FROM reviews WHERE villa_id = $1 ORDER BY created_at DESC`, villaID)
	if err != nil {
		return nil, translate("list reviews", err)
	}
	return reviews, nil
}

// Summary computes the villa's average rating and review count.
func (r *ReviewRepo) Summary(ctx context.Context, villaID string) (*domain.ReviewSummary, error) {
	var s domain.ReviewSummary
	err := r.db.GetContext(ctx, &s, `
		SELECT COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS count
		FROM reviews WHERE villa_id = $1`, villaID)
	if err != nil {
		return nil, translate("review summary", err)
	}
	return &s, nil
}

func (r *ReviewRepo) Delete(ctx context.Context, reviewID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE review_id = $1`, reviewID)
	if err != nil {
		return translate("delete review", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete review: %w", domain.ErrNotFound)
	}
	return nil
}
