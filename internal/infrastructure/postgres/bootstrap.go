package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Bootstrap creates the schema if it does not exist yet. The exclusion
// constraint on bookings is the store-level guarantee that no two
// pending/confirmed bookings for the same villa ever hold overlapping
// half-open date ranges, even under concurrent inserts.
func Bootstrap(ctx context.Context, db *sqlx.DB) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,

		`CREATE TABLE IF NOT EXISTS users (
			user_id             TEXT PRIMARY KEY,
			name                TEXT NOT NULL,
			email               TEXT NOT NULL UNIQUE,
			phone               TEXT,
			password_hash       TEXT NOT NULL,
			role                TEXT NOT NULL CHECK (role IN ('user','owner','admin')),
			reset_token         TEXT,
			reset_token_expires TIMESTAMPTZ,
			created_at          TIMESTAMPTZ NOT NULL,
			updated_at          TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS villas (
			villa_id              TEXT PRIMARY KEY,
			owner_id              TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			name                  TEXT NOT NULL,
			location              TEXT NOT NULL,
			description           TEXT NOT NULL,
			guest_capacity        INTEGER NOT NULL CHECK (guest_capacity > 0),
			price_per_night       NUMERIC(12,2) NOT NULL CHECK (price_per_night > 0),
			size                  TEXT NOT NULL DEFAULT '',
			bed_type              TEXT NOT NULL DEFAULT '',
			main_image_url        TEXT NOT NULL,
			additional_image_urls JSONB NOT NULL DEFAULT '[]',
			features              JSONB NOT NULL DEFAULT '[]',
			status                TEXT NOT NULL CHECK (status IN ('pending','verified','rejected')),
			created_at            TIMESTAMPTZ NOT NULL,
			updated_at            TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			booking_id        TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			villa_id          TEXT NOT NULL REFERENCES villas(villa_id) ON DELETE CASCADE,
			check_in_date     DATE NOT NULL,
			check_out_date    DATE NOT NULL,
			total_price       NUMERIC(12,2) NOT NULL,
			status            TEXT NOT NULL CHECK (status IN ('pending','confirmed','cancelled','completed')),
			payment_proof_url TEXT,
			created_at        TIMESTAMPTZ NOT NULL,
			updated_at        TIMESTAMPTZ NOT NULL,
			CHECK (check_in_date < check_out_date),
			CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
				villa_id WITH =,
				daterange(check_in_date, check_out_date) WITH &&
			) WHERE (status IN ('pending','confirmed'))
		)`,

		`CREATE INDEX IF NOT EXISTS bookings_villa_id_idx ON bookings (villa_id)`,
		`CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			review_id  TEXT PRIMARY KEY,
			villa_id   TEXT NOT NULL REFERENCES villas(villa_id) ON DELETE CASCADE,
			user_id    TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			rating     INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
			comment    TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (villa_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			contact_id TEXT PRIMARY KEY,
			full_name  TEXT NOT NULL,
			email      TEXT NOT NULL,
			persons    INTEGER NOT NULL DEFAULT 0,
			visit_date TEXT NOT NULL DEFAULT '',
			message    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
