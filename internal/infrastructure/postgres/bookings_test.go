package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/villa-booking-api/internal/domain"
)

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	db := sqlx.NewDb(mockDB, "postgres")
	return NewBookingRepo(db), mock
}

func date(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

// The availability predicate over the half-open [check-in, check-out)
// range, with check-in bound $2 and check-out bound $3. Pinned here so a
// reordering of the arguments or a drift to closed-interval comparisons
// fails loudly.
const overlapQuery = `SELECT EXISTS \(\s*SELECT 1 FROM bookings\s+` +
	`WHERE villa_id = \$1\s+` +
	`AND status IN \('pending','confirmed'\)\s+` +
	`AND check_in_date < \$3\s+` +
	`AND check_out_date > \$2\s*\)`

const insertBookingQuery = `INSERT INTO bookings \(booking_id, user_id, villa_id, check_in_date, check_out_date,\s*` +
	`total_price, status, payment_proof_url, created_at, updated_at\)`

func stay(checkIn, checkOut string) *domain.Booking {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Booking{
		BookingID:    "b1",
		UserID:       "u1",
		VillaID:      "v1",
		CheckInDate:  date(checkIn),
		CheckOutDate: date(checkOut),
		TotalPrice:   300,
		Status:       domain.BookingStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// --- CreateIfAvailable ---

func TestCreateIfAvailable_OverlappingStayConflicts(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// An existing [2025-06-19, 2025-06-22) stay shares the night of the
	// 21st with this request, so the availability check reports overlap.
	b := stay("2025-06-21", "2025-06-23")

	mock.ExpectBegin()
	mock.ExpectQuery(overlapQuery).
		WithArgs(b.VillaID, b.CheckInDate, b.CheckOutDate).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := repo.CreateIfAvailable(context.Background(), b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailable_CheckInOnExistingCheckOutSucceeds(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Half-open ranges make back-to-back stays legal: checking in on the
	// 22nd does not collide with a stay that checks out on the 22nd, so
	// the predicate reports no overlap and the insert commits.
	b := stay("2025-06-22", "2025-06-25")

	mock.ExpectBegin()
	mock.ExpectQuery(overlapQuery).
		WithArgs(b.VillaID, b.CheckInDate, b.CheckOutDate).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertBookingQuery).
		WithArgs(b.BookingID, b.UserID, b.VillaID, b.CheckInDate, b.CheckOutDate,
			b.TotalPrice, b.Status, b.PaymentProofURL, b.CreatedAt, b.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateIfAvailable(context.Background(), b)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateIfAvailable_ExclusionConstraintMapsToConflict(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// A racing transaction can slip between the check and the insert; the
	// bookings_no_overlap constraint then rejects the insert and the
	// driver error still surfaces as a conflict.
	b := stay("2025-06-21", "2025-06-23")

	mock.ExpectBegin()
	mock.ExpectQuery(overlapQuery).
		WithArgs(b.VillaID, b.CheckInDate, b.CheckOutDate).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(insertBookingQuery).
		WithArgs(b.BookingID, b.UserID, b.VillaID, b.CheckInDate, b.CheckOutDate,
			b.TotalPrice, b.Status, b.PaymentProofURL, b.CreatedAt, b.UpdatedAt).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	err := repo.CreateIfAvailable(context.Background(), b)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateStatus ---

func TestUpdateStatus_GuardsOnPriorStatus(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\)\s+`+
		`WHERE booking_id = \$2 AND status = \$3`).
		WithArgs(domain.BookingStatusConfirmed, "b1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "b1", domain.BookingStatusPending, domain.BookingStatusConfirmed, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_StaleStatusConflicts(t *testing.T) {
	repo, mock := newBookingRepo(t)

	// Zero affected rows means another request already moved the booking
	// out of the status this transition was decided against.
	mock.ExpectExec(`UPDATE bookings SET status = \$1, updated_at = NOW\(\)`).
		WithArgs(domain.BookingStatusConfirmed, "b1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "b1", domain.BookingStatusPending, domain.BookingStatusConfirmed, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_AttachesProofInSameStatement(t *testing.T) {
	repo, mock := newBookingRepo(t)

	proof := "/uploads/payment-proofs/p1.jpg"
	mock.ExpectExec(`UPDATE bookings SET status = \$1, payment_proof_url = \$2, updated_at = NOW\(\)\s+`+
		`WHERE booking_id = \$3 AND status = \$4`).
		WithArgs(domain.BookingStatusPending, proof, "b1", domain.BookingStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "b1", domain.BookingStatusPending, domain.BookingStatusPending, &proof)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
