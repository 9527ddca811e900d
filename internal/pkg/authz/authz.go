// Package authz is the single authorization predicate for the whole API.
// Handlers and services call into it instead of re-implementing role checks
// per operation.
package authz

import "github.com/villa-booking-api/internal/domain"

// CanViewVilla reports whether p (nil for anonymous) may read the villa.
// Verified listings are public; pending/rejected ones are visible only to
// the owning owner and admins.
func CanViewVilla(p *domain.Principal, v *domain.Villa) bool {
	if v.Status == domain.VillaStatusVerified {
		return true
	}
	if p == nil {
		return false
	}
	return p.Role == domain.RoleAdmin || (p.Role == domain.RoleOwner && p.UserID == v.OwnerID)
}

// CanManageVilla reports whether p may mutate a villa owned by ownerID
// (content update, delete).
func CanManageVilla(p *domain.Principal, ownerID string) bool {
	if p == nil {
		return false
	}
	return p.Role == domain.RoleAdmin || p.UserID == ownerID
}

// CanViewBooking reports whether p may read the booking: the requester,
// the owner of the booked villa, or an admin.
func CanViewBooking(p *domain.Principal, b *domain.Booking) bool {
	if p == nil {
		return false
	}
	switch {
	case p.Role == domain.RoleAdmin:
		return true
	case p.UserID == b.UserID:
		return true
	case p.Role == domain.RoleOwner && p.UserID == b.VillaOwnerID:
		return true
	}
	return false
}

// CanTransition decides whether p may move the booking from its current
// status to next.
//
//	pending   -> confirmed            owner-of-villa, admin
//	pending   -> cancelled            requester, owner-of-villa, admin
//	pending   -> pending              requester (re-attach payment proof)
//	confirmed -> cancelled|completed  owner-of-villa, admin
//	anything  -> anything             admin
//
// Returns domain.ErrForbidden for every pair not listed.
func CanTransition(p *domain.Principal, b *domain.Booking, next string) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	if p.Role == domain.RoleAdmin {
		return nil
	}
	if p.Role == domain.RoleOwner && p.UserID == b.VillaOwnerID {
		switch {
		case b.Status == domain.BookingStatusPending &&
			(next == domain.BookingStatusConfirmed || next == domain.BookingStatusCancelled):
			return nil
		case b.Status == domain.BookingStatusConfirmed &&
			(next == domain.BookingStatusCancelled || next == domain.BookingStatusCompleted):
			return nil
		}
		return domain.ErrForbidden
	}
	if p.UserID == b.UserID {
		if b.Status == domain.BookingStatusPending &&
			(next == domain.BookingStatusCancelled || next == domain.BookingStatusPending) {
			return nil
		}
		return domain.ErrForbidden
	}
	return domain.ErrForbidden
}

// CanDeleteReview reports whether p may delete a review on a villa owned
// by villaOwnerID: admins and the villa's owner.
func CanDeleteReview(p *domain.Principal, villaOwnerID string) bool {
	if p == nil {
		return false
	}
	return p.Role == domain.RoleAdmin || (p.Role == domain.RoleOwner && p.UserID == villaOwnerID)
}
