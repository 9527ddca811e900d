package review

import (
	"context"
	"fmt"
	"time"

	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/authz"
	"github.com/villa-booking-api/internal/pkg/id"
	"github.com/villa-booking-api/internal/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, p *domain.Principal, req domain.CreateReviewRequest) (*domain.Review, error)
	Delete(ctx context.Context, p *domain.Principal, reviewID string) error
	ListForVilla(ctx context.Context, villaID string) ([]domain.Review, *domain.ReviewSummary, error)
}

type reviewStore interface {
	Put(ctx context.Context, r *domain.Review) error
	GetWithVillaOwner(ctx context.Context, reviewID string) (*domain.Review, string, error)
	ListByVilla(ctx context.Context, villaID string) ([]domain.Review, error)
	Summary(ctx context.Context, villaID string) (*domain.ReviewSummary, error)
	Delete(ctx context.Context, reviewID string) error
}

type villaStore interface {
	Get(ctx context.Context, villaID string) (*domain.Villa, error)
}

type service struct {
	repo      reviewStore
	villaRepo villaStore
}

func NewService(repo reviewStore, villaRepo villaStore) Service {
	return &service{repo: repo, villaRepo: villaRepo}
}

// Create records one rating per (villa, user). The store's uniqueness
// constraint turns a second attempt into ErrConflict.
func (s *service) Create(ctx context.Context, p *domain.Principal, req domain.CreateReviewRequest) (*domain.Review, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	if _, err := s.villaRepo.Get(ctx, req.VillaID); err != nil {
		return nil, err
	}
	rv := &domain.Review{
		ReviewID:  id.New(),
		VillaID:   req.VillaID,
		UserID:    p.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

// Delete is allowed for admins and the owner of the reviewed villa.
func (s *service) Delete(ctx context.Context, p *domain.Principal, reviewID string) error {
	if p == nil {
		return domain.ErrUnauthorized
	}
	_, villaOwnerID, err := s.repo.GetWithVillaOwner(ctx, reviewID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteReview(p, villaOwnerID) {
		return fmt.Errorf("cannot delete reviews on this villa: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, reviewID)
}

// ListForVilla is public: reviews newest-first plus the aggregate.
func (s *service) ListForVilla(ctx context.Context, villaID string) ([]domain.Review, *domain.ReviewSummary, error) {
	reviews, err := s.repo.ListByVilla(ctx, villaID)
	if err != nil {
		return nil, nil, err
	}
	summary, err := s.repo.Summary(ctx, villaID)
	if err != nil {
		return nil, nil, err
	}
	return reviews, summary, nil
}
