package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/villa-booking-api/internal/domain"
)

// VillaRepo persists villa listings. The JSONB image and feature columns
// are marshalled at this boundary so the domain type stays plain slices.
type VillaRepo struct {
	db *sqlx.DB
}

func NewVillaRepo(db *sqlx.DB) *VillaRepo { return &VillaRepo{db: db} }

// villaRow mirrors the villas table, with JSONB columns as raw bytes.
type villaRow struct {
	domain.Villa
	AdditionalImageURLs []byte `db:"additional_image_urls"`
	Features            []byte `db:"features"`
}

func (row *villaRow) toDomain() (*domain.Villa, error) {
	v := row.Villa
	if err := json.Unmarshal(row.AdditionalImageURLs, &v.AdditionalImageURLs); err != nil {
		return nil, fmt.Errorf("decode additional images: %w", err)
	}
	if err := json.Unmarshal(row.Features, &v.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return &v, nil
}

func jsonStrings(ss []string) []byte {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return b
}

const villaColumns = `villa_id, owner_id, name, location, description, guest_capacity,
	price_per_night, size, bed_type, main_image_url, additional_image_urls, features,
	status, created_at, updated_at`

func (r *VillaRepo) Put(ctx context.Context, v *domain.Villa) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO villas (`+villaColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		v.VillaID, v.OwnerID, v.Name, v.Location, v.Description, v.GuestCapacity,
		v.PricePerNight, v.Size, v.BedType, v.MainImageURL,
		jsonStrings(v.AdditionalImageURLs), jsonStrings(v.Features),
		v.Status, v.CreatedAt, v.UpdatedAt,
	)
	return translate("insert villa", err)
}

func (r *VillaRepo) Get(ctx context.Context, villaID string) (*domain.Villa, error) {
	var row villaRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+villaColumns+` FROM villas WHERE villa_id = $1`, villaID)
	if err != nil {
		return nil, translate("get villa", err)
	}
	return row.toDomain()
}

func (r *VillaRepo) list(ctx context.Context, query string, args ...interface{}) ([]domain.Villa, error) {
	var rows []villaRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translate("list villas", err)
	}
	villas := make([]domain.Villa, 0, len(rows))
	for i := range rows {
		v, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		villas = append(villas, *v)
	}
	return villas, nil
}

func (r *VillaRepo) ListAll(ctx context.Context) ([]domain.Villa, error) {
	return r.list(ctx, `SELECT `+villaColumns+` FROM villas ORDER BY created_at DESC`)
}

func (r *VillaRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Villa, error) {
	return r.list(ctx,
		`SELECT `+villaColumns+` FROM villas WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (r *VillaRepo) ListByStatus(ctx context.Context, status string) ([]domain.Villa, error) {
	return r.list(ctx,
		`SELECT `+villaColumns+` FROM villas WHERE status = $1 ORDER BY created_at DESC`, status)
}

// Update writes every mutable column; the service merges partial input
// into the loaded villa before calling this.
func (r *VillaRepo) Update(ctx context.Context, v *domain.Villa) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE villas SET
			name = $1, location = $2, description = $3, guest_capacity = $4,
			price_per_night = $5, size = $6, bed_type = $7, main_image_url = $8,
			additional_image_urls = $9, features = $10, status = $11, updated_at = $12
		WHERE villa_id = $13`,
		v.Name, v.Location, v.Description, v.GuestCapacity,
		v.PricePerNight, v.Size, v.BedType, v.MainImageURL,
		jsonStrings(v.AdditionalImageURLs), jsonStrings(v.Features),
		v.Status, v.UpdatedAt, v.VillaID,
	)
	if err != nil {
		return translate("update villa", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update villa: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *VillaRepo) UpdateStatus(ctx context.Context, villaID, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE villas SET status = $1, updated_at = NOW() WHERE villa_id = $2`,
		status, villaID)
	if err != nil {
		return translate("update villa status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update villa status: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the villa and its bookings and reviews atomically.
func (r *VillaRepo) Delete(ctx context.Context, villaID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return translate("begin delete villa", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE villa_id = $1`, villaID); err != nil {
		return translate("delete villa bookings", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE villa_id = $1`, villaID); err != nil {
		return translate("delete villa reviews", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM villas WHERE villa_id = $1`, villaID)
	if err != nil {
		return translate("delete villa", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete villa: %w", domain.ErrNotFound)
	}
	return translate("commit delete villa", tx.Commit())
}

// OwnerID resolves just the owner of a villa.
func (r *VillaRepo) OwnerID(ctx context.Context, villaID string) (string, error) {
	var ownerID string
	err := r.db.GetContext(ctx, &ownerID,
		`SELECT owner_id FROM villas WHERE villa_id = $1`, villaID)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("villa owner: %w", domain.ErrNotFound)
	}
	if err != nil {
		return "", translate("villa owner", err)
	}
	return ownerID, nil
}
