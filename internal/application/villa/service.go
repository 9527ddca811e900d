package villa

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/authz"
	"github.com/villa-booking-api/internal/pkg/id"
	"github.com/villa-booking-api/internal/pkg/validate"
)

type Service interface {
	Submit(ctx context.Context, owner *domain.Principal, req domain.SubmitVillaRequest) (*domain.Villa, error)
	List(ctx context.Context, p *domain.Principal) ([]domain.Villa, error)
	Get(ctx context.Context, p *domain.Principal, villaID string) (*domain.Villa, error)
	Update(ctx context.Context, p *domain.Principal, villaID string, req domain.UpdateVillaRequest) (*domain.Villa, error)
	Delete(ctx context.Context, p *domain.Principal, villaID string) error
	SetStatus(ctx context.Context, villaID, status string) (*domain.Villa, error)
}

type villaStore interface {
	Put(ctx context.Context, v *domain.Villa) error
	Get(ctx context.Context, villaID string) (*domain.Villa, error)
	ListAll(ctx context.Context) ([]domain.Villa, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Villa, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Villa, error)
	Update(ctx context.Context, v *domain.Villa) error
	UpdateStatus(ctx context.Context, villaID, status string) error
	Delete(ctx context.Context, villaID string) error
}

// blobDeleter removes a stored object by key. Nil disables image cleanup.
type blobDeleter interface {
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo  villaStore
	blobs blobDeleter
}

func NewService(repo villaStore, blobs blobDeleter) Service {
	return &service{repo: repo, blobs: blobs}
}

// Submit creates a listing for the calling owner. New listings always wait
// in pending until an admin verifies them.
func (s *service) Submit(ctx context.Context, owner *domain.Principal, req domain.SubmitVillaRequest) (*domain.Villa, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	v := &domain.Villa{
		VillaID:             id.New(),
		OwnerID:             owner.UserID,
		Name:                req.Name,
		Location:            req.Location,
		Description:         req.Description,
		GuestCapacity:       req.GuestCapacity,
		PricePerNight:       req.PricePerNight,
		Size:                req.Size,
		BedType:             req.BedType,
		MainImageURL:        req.MainImageURL,
		AdditionalImageURLs: req.AdditionalImageURLs,
		Features:            req.Features,
		Status:              domain.VillaStatusPending,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Put(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List applies the visibility filter: admins see everything, owners see
// their own listings in any status, everyone else sees verified listings.
func (s *service) List(ctx context.Context, p *domain.Principal) ([]domain.Villa, error) {
	switch {
	case p != nil && p.Role == domain.RoleAdmin:
		return s.repo.ListAll(ctx)
	case p != nil && p.Role == domain.RoleOwner:
		return s.repo.ListByOwner(ctx, p.UserID)
	default:
		return s.repo.ListByStatus(ctx, domain.VillaStatusVerified)
	}
}

func (s *service) Get(ctx context.Context, p *domain.Principal, villaID string) (*domain.Villa, error) {
	v, err := s.repo.Get(ctx, villaID)
	if err != nil {
		return nil, err
	}
	if !authz.CanViewVilla(p, v) {
		return nil, fmt.Errorf("villa is not public: %w", domain.ErrForbidden)
	}
	return v, nil
}

// Update merges non-nil fields over the stored listing, appends any new
// additional images, and drops the listing back to pending for re-review.
func (s *service) Update(ctx context.Context, p *domain.Principal, villaID string, req domain.UpdateVillaRequest) (*domain.Villa, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	v, err := s.repo.Get(ctx, villaID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageVilla(p, v.OwnerID) {
		return nil, fmt.Errorf("not the owner of this villa: %w", domain.ErrForbidden)
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Location != nil {
		v.Location = *req.Location
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.GuestCapacity != nil {
		v.GuestCapacity = *req.GuestCapacity
	}
	if req.PricePerNight != nil {
		v.PricePerNight = *req.PricePerNight
	}
	if req.Size != nil {
		v.Size = *req.Size
	}
	if req.BedType != nil {
		v.BedType = *req.BedType
	}
	if req.Features != nil {
		v.Features = req.Features
	}
	if req.MainImageURL != nil {
		v.MainImageURL = *req.MainImageURL
	}
	if len(req.NewAdditionalImages) > 0 {
		v.AdditionalImageURLs = append(v.AdditionalImageURLs, req.NewAdditionalImages...)
	}

	// Content changed, so the listing needs admin re-verification.
	v.Status = domain.VillaStatusPending
	v.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes the listing and everything booked or reviewed against it,
// then clears the listing's stored images. Blob cleanup is best effort: the
// row is already gone, so a failed object delete only leaves an orphan.
func (s *service) Delete(ctx context.Context, p *domain.Principal, villaID string) error {
	v, err := s.repo.Get(ctx, villaID)
	if err != nil {
		return err
	}
	if !authz.CanManageVilla(p, v.OwnerID) {
		return fmt.Errorf("not the owner of this villa: %w", domain.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, villaID); err != nil {
		return err
	}
	s.deleteImages(ctx, v)
	return nil
}

func (s *service) deleteImages(ctx context.Context, v *domain.Villa) {
	if s.blobs == nil {
		return
	}
	for _, url := range append([]string{v.MainImageURL}, v.AdditionalImageURLs...) {
		key, ok := strings.CutPrefix(url, "/uploads/")
		if !ok {
			continue
		}
		if err := s.blobs.Delete(ctx, key); err != nil {
			log.Printf("WARN: delete villa image %s failed: %v", key, err)
		}
	}
}

// SetStatus is the admin verification decision.
func (s *service) SetStatus(ctx context.Context, villaID, status string) (*domain.Villa, error) {
	if !domain.ValidVillaStatus(status) {
		return nil, fmt.Errorf("status must be pending, verified or rejected: %w", domain.ErrBadRequest)
	}
	if err := s.repo.UpdateStatus(ctx, villaID, status); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, villaID)
}
