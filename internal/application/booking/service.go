package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/authz"
	"github.com/villa-booking-api/internal/pkg/id"
	"github.com/villa-booking-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, p *domain.Principal, req domain.CreateBookingRequest) (*domain.Booking, error)
	Get(ctx context.Context, p *domain.Principal, bookingID string) (*domain.Booking, error)
	List(ctx context.Context, p *domain.Principal) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, p *domain.Principal, bookingID string, req domain.UpdateBookingStatusRequest) (*domain.Booking, error)
}

type bookingStore interface {
	CreateIfAvailable(ctx context.Context, b *domain.Booking) error
	Get(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListByVillaOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, fromStatus, toStatus string, proofURL *string) error
}

type villaStore interface {
	Get(ctx context.Context, villaID string) (*domain.Villa, error)
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type service struct {
	repo      bookingStore
	villaRepo villaStore
	userRepo  userStore
	sms       smsSender
	now       func() time.Time
}

type ServiceDeps struct {
	BookingRepo bookingStore
	VillaRepo   villaStore
	UserRepo    userStore
	SMSSender   smsSender // optional
	Now         func() time.Time
}

func NewService(deps ServiceDeps) Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      deps.BookingRepo,
		villaRepo: deps.VillaRepo,
		userRepo:  deps.UserRepo,
		sms:       deps.SMSSender,
		now:       now,
	}
}

// Create books a verified villa for the half-open range
// [check-in, check-out). The total is computed here from the villa's
// nightly rate; any price the client sent never reaches this point.
func (s *service) Create(ctx context.Context, p *domain.Principal, req domain.CreateBookingRequest) (*domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}

	v, err := s.villaRepo.Get(ctx, req.VillaID)
	if err != nil {
		return nil, err
	}
	if v.Status != domain.VillaStatusVerified {
		return nil, fmt.Errorf("villa is not verified and cannot be booked: %w", domain.ErrForbidden)
	}

	checkIn, err := time.Parse(domain.DateFormat, req.CheckInDate)
	if err != nil {
		return nil, fmt.Errorf("check-in date must be YYYY-MM-DD: %w", domain.ErrBadRequest)
	}
	checkOut, err := time.Parse(domain.DateFormat, req.CheckOutDate)
	if err != nil {
		return nil, fmt.Errorf("check-out date must be YYYY-MM-DD: %w", domain.ErrBadRequest)
	}
	if !checkIn.Before(checkOut) {
		return nil, fmt.Errorf("check-out must be after check-in: %w", domain.ErrBadRequest)
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if checkIn.Before(today) {
		return nil, fmt.Errorf("check-in cannot be in the past: %w", domain.ErrBadRequest)
	}

	nights := int(checkOut.Sub(checkIn) / (24 * time.Hour))
	totalPrice := v.PricePerNight * float64(nights)

	now := s.now().UTC()
	b := &domain.Booking{
		BookingID:    id.New(),
		UserID:       p.UserID,
		VillaID:      v.VillaID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   totalPrice,
		Status:       domain.BookingStatusPending,
		VillaOwnerID: v.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateIfAvailable(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Get(ctx context.Context, p *domain.Principal, bookingID string) (*domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewBooking(p, b) {
		return nil, fmt.Errorf("not your booking: %w", domain.ErrForbidden)
	}
	return b, nil
}

// List returns bookings newest-first, scoped by role: admins see all,
// owners see bookings on their villas, users see their own.
func (s *service) List(ctx context.Context, p *domain.Principal) ([]domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	switch p.Role {
	case domain.RoleAdmin:
		return s.repo.ListAll(ctx)
	case domain.RoleOwner:
		return s.repo.ListByVillaOwner(ctx, p.UserID)
	default:
		return s.repo.ListByUser(ctx, p.UserID)
	}
}

// UpdateStatus applies the transition table and attaches the payment proof
// when one accompanies the change. Confirming a booking notifies the guest
// by SMS when a sender is configured; delivery failures are logged, never
// surfaced.
func (s *service) UpdateStatus(ctx context.Context, p *domain.Principal, bookingID string, req domain.UpdateBookingStatusRequest) (*domain.Booking, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if !domain.ValidBookingStatus(req.Status) {
		return nil, fmt.Errorf("invalid booking status %q: %w", req.Status, domain.ErrBadRequest)
	}

	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanTransition(p, b, req.Status); err != nil {
		return nil, fmt.Errorf("transition %s -> %s not permitted: %w", b.Status, req.Status, err)
	}
	// The repo guards on the status the decision was made against, so a
	// transition raced by another request fails with ErrConflict instead
	// of silently overwriting it.
	if err := s.repo.UpdateStatus(ctx, bookingID, b.Status, req.Status, req.PaymentProofURL); err != nil {
		return nil, err
	}

	confirmed := b.Status != domain.BookingStatusConfirmed && req.Status == domain.BookingStatusConfirmed
	b, err = s.repo.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if confirmed {
		s.notifyConfirmed(ctx, b)
	}
	return b, nil
}

func (s *service) notifyConfirmed(ctx context.Context, b *domain.Booking) {
	if s.sms == nil || s.userRepo == nil {
		return
	}
	guest, err := s.userRepo.Get(ctx, b.UserID)
	if err != nil || guest.Phone == nil || *guest.Phone == "" {
		return
	}
	msg := fmt.Sprintf("Your booking %s to %s has been confirmed.",
		b.CheckInDate.Format(domain.DateFormat), b.CheckOutDate.Format(domain.DateFormat))
	if err := s.sms.SendSMS(ctx, *guest.Phone, msg); err != nil {
		log.Printf("WARN: booking confirmation SMS failed: %v", err)
	}
}
