package domain

import "errors"

// Sentinel errors shared across the marketplace services. Stores and
// services wrap them with context ("villa is not public: %w") and the HTTP
// layer maps each onto a status code, so nothing above the handlers ever
// inspects driver or transport errors.
var (
	// ErrNotFound covers missing users, listings, bookings and reviews.
	ErrNotFound = errors.New("not found")
	// ErrConflict covers duplicate emails, double-booked dates and status
	// transitions raced by another request.
	ErrConflict = errors.New("conflict")

	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)
