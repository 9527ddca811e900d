package domain

import "time"

// Booking statuses. cancelled and completed are terminal for ordinary
// roles; only admins may force a transition out of them.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ValidBookingStatus reports whether s is one of the known booking statuses.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// DateFormat is the wire format for check-in/check-out dates.
const DateFormat = "2006-01-02"

type Booking struct {
	BookingID       string    `json:"id" db:"booking_id"`
	UserID          string    `json:"user_id" db:"user_id"`
	VillaID         string    `json:"villa_id" db:"villa_id"`
	CheckInDate     time.Time `json:"check_in_date" db:"check_in_date"`
	CheckOutDate    time.Time `json:"check_out_date" db:"check_out_date"`
	TotalPrice      float64   `json:"total_price" db:"total_price"`
	Status          string    `json:"status" db:"status"`
	PaymentProofURL *string   `json:"payment_proof_url" db:"payment_proof_url"`
	// VillaOwnerID is joined in on reads so transition authorization does
	// not need a second villa lookup.
	VillaOwnerID string    `json:"-" db:"villa_owner_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Nights is the whole-day length of the half-open stay [CheckInDate, CheckOutDate).
func (b *Booking) Nights() int {
	return int(b.CheckOutDate.Sub(b.CheckInDate) / (24 * time.Hour))
}

// CreateBookingRequest deliberately has no price field: the total is
// always computed server-side from the villa's nightly rate.
type CreateBookingRequest struct {
	VillaID      string `json:"villa_id" validate:"required"`
	CheckInDate  string `json:"check_in_date" validate:"required"`
	CheckOutDate string `json:"check_out_date" validate:"required"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
	// PaymentProofURL is set by the transport layer when a proof file
	// accompanies the status change.
	PaymentProofURL *string `json:"-"`
}
