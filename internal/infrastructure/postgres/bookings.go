package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/villa-booking-api/internal/domain"
)

// BookingRepo persists bookings. Reads join in the booked villa's owner so
// transition authorization never needs a second lookup.
type BookingRepo struct {
	db *sqlx.DB
}

func NewBookingRepo(db *sqlx.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `b.booking_id, b.user_id, b.villa_id, b.check_in_date, b.check_out_date,
	b.total_price, b.status, b.payment_proof_url, v.owner_id AS villa_owner_id,
	b.created_at, b.updated_at`

const bookingFrom = ` FROM bookings b JOIN villas v ON v.villa_id = b.villa_id `

// CreateIfAvailable inserts the booking only if no pending or confirmed
// booking for the same villa overlaps its half-open [check-in, check-out)
// range. The check and the insert run in one SERIALIZABLE transaction, and
// the bookings_no_overlap exclusion constraint backstops it, so two
// concurrent requests for the same dates cannot both succeed. Overlap
// surfaces as domain.ErrConflict.
func (r *BookingRepo) CreateIfAvailable(ctx context.Context, b *domain.Booking) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return translate("begin create booking", err)
	}
	defer tx.Rollback()

	var overlaps bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE villa_id = $1
			  AND status IN ('pending','confirmed')
			  AND check_in_date < $3
			  AND check_out_date > $2
		)`,
		b.VillaID, b.CheckInDate, b.CheckOutDate,
	).Scan(&overlaps)
	if err != nil {
		return translate("check booking overlap", err)
	}
	if overlaps {
		return fmt.Errorf("villa unavailable for selected dates: %w", domain.ErrConflict)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (booking_id, user_id, villa_id, check_in_date, check_out_date,
			total_price, status, payment_proof_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.BookingID, b.UserID, b.VillaID, b.CheckInDate, b.CheckOutDate,
		b.TotalPrice, b.Status, b.PaymentProofURL, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return translate("insert booking", err)
	}
	return translate("commit create booking", tx.Commit())
}

func (r *BookingRepo) Get(ctx context.Context, bookingID string) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT `+bookingColumns+bookingFrom+`WHERE b.booking_id = $1`, bookingID)
	if err != nil {
		return nil, translate("get booking", err)
	}
	return &b, nil
}

func (r *BookingRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+bookingFrom+`ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, translate("list bookings", err)
	}
	return bookings, nil
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+bookingFrom+`WHERE b.user_id = $1 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, translate("list bookings by user", err)
	}
	return bookings, nil
}

// ListByVillaOwner returns bookings on every villa the owner holds.
func (r *BookingRepo) ListByVillaOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+bookingFrom+`WHERE v.owner_id = $1 ORDER BY b.created_at DESC`, ownerID)
	if err != nil {
		return nil, translate("list bookings by owner", err)
	}
	return bookings, nil
}

// UpdateStatus moves the booking from fromStatus to toStatus and, when
// proofURL is non-nil, attaches the payment proof in the same statement.
// The status guard in the WHERE clause rejects a transition whose decision
// was made against a row another request has already moved: zero affected
// rows surfaces as ErrConflict.
func (r *BookingRepo) UpdateStatus(ctx context.Context, bookingID, fromStatus, toStatus string, proofURL *string) error {
	var (
		res sql.Result
		err error
	)
	if proofURL != nil {
		res, err = r.db.ExecContext(ctx, `
			UPDATE bookings SET status = $1, payment_proof_url = $2, updated_at = NOW()
			WHERE booking_id = $3 AND status = $4`, toStatus, *proofURL, bookingID, fromStatus)
	} else {
		res, err = r.db.ExecContext(ctx, `
			UPDATE bookings SET status = $1, updated_at = NOW()
			WHERE booking_id = $2 AND status = $3`, toStatus, bookingID, fromStatus)
	}
	if err != nil {
		return translate("update booking status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("booking status changed concurrently: %w", domain.ErrConflict)
	}
	return nil
}
