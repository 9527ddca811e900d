package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/villa-booking-api/internal/domain"
)

const userColumns = `user_id, name, email, phone, password_hash, role,
	reset_token, reset_token_expires, created_at, updated_at`

// UserRepo persists users.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Put(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, name, email, phone, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.UserID, u.Name, u.Email, u.Phone, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt,
	)
	return translate("insert user", err)
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return nil, translate("get user", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, translate("get user by email", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, translate("list users", err)
	}
	return users, nil
}

// Update applies a partial update; keys are column names.
func (r *UserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	sets := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+2)
	i := 1
	for col, val := range updates {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", i))
	args = append(args, time.Now().UTC())
	i++
	args = append(args, userID)

	query := fmt.Sprintf("UPDATE users SET %s WHERE user_id = $%d", strings.Join(sets, ", "), i)
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate("update user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update user: %w", domain.ErrNotFound)
	}
	return nil
}

// SetResetToken stores a password-reset token and its expiry on the user.
func (r *UserRepo) SetResetToken(ctx context.Context, userID, tok string, expires time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET reset_token = $1, reset_token_expires = $2, updated_at = $3
		WHERE user_id = $4`,
		tok, expires, time.Now().UTC(), userID,
	)
	return translate("set reset token", err)
}

// ResetPassword swaps in the new hash if the token matches and has not
// expired, clearing the token either way for the matched row.
func (r *UserRepo) ResetPassword(ctx context.Context, email, tok, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, reset_token = NULL, reset_token_expires = NULL, updated_at = $2
		WHERE email = $3 AND reset_token = $4 AND reset_token_expires > NOW()`,
		newHash, time.Now().UTC(), email, tok,
	)
	if err != nil {
		return translate("reset password", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("reset token invalid or expired: %w", domain.ErrBadRequest)
	}
	return nil
}

// Delete removes the user and, in the same transaction, every row that
// hangs off them: their bookings and reviews, their villas, and the
// bookings and reviews on those villas.
func (r *UserRepo) Delete(ctx context.Context, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate("begin delete user", err)
	}
	defer tx.Rollback()

	steps := []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM bookings WHERE villa_id IN (SELECT villa_id FROM villas WHERE owner_id = $1)`, []interface{}{userID}},
		{`DELETE FROM reviews WHERE villa_id IN (SELECT villa_id FROM villas WHERE owner_id = $1)`, []interface{}{userID}},
		{`DELETE FROM bookings WHERE user_id = $1`, []interface{}{userID}},
		{`DELETE FROM reviews WHERE user_id = $1`, []interface{}{userID}},
		{`DELETE FROM villas WHERE owner_id = $1`, []interface{}{userID}},
	}
	for _, s := range steps {
		if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
			return translate("delete user dependents", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return translate("delete user", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete user: %w", domain.ErrNotFound)
	}
	return translate("commit delete user", tx.Commit())
}
