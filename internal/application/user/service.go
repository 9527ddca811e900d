package user

import (
	"context"
	"fmt"

	"github.com/villa-booking-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Column names used in partial update maps.
const (
	fieldName         = "name"
	fieldEmail        = "email"
	fieldPhone        = "phone"
	fieldRole         = "role"
	fieldPasswordHash = "password_hash"
)

type Service interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, p *domain.Principal, userID string) (*domain.User, error)
	Update(ctx context.Context, p *domain.Principal, userID string, req domain.UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
}

type userStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	Delete(ctx context.Context, userID string) error
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns a user profile. Non-admins may only read their own.
func (s *service) Get(ctx context.Context, p *domain.Principal, userID string) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if p.Role != domain.RoleAdmin && p.UserID != userID {
		return nil, fmt.Errorf("cannot view another user's profile: %w", domain.ErrForbidden)
	}
	return s.repo.Get(ctx, userID)
}

// Update applies a partial profile update. Role changes are admin-only;
// everything else is self-or-admin.
func (s *service) Update(ctx context.Context, p *domain.Principal, userID string, req domain.UpdateUserRequest) (*domain.User, error) {
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if p.Role != domain.RoleAdmin && p.UserID != userID {
		return nil, fmt.Errorf("cannot update another user: %w", domain.ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates[fieldName] = *req.Name
	}
	if req.Email != nil {
		updates[fieldEmail] = *req.Email
	}
	if req.Phone != nil {
		updates[fieldPhone] = *req.Phone
	}
	if req.Role != nil {
		if p.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("only admins may change roles: %w", domain.ErrForbidden)
		}
		if !domain.ValidRole(*req.Role) {
			return nil, fmt.Errorf("invalid role: %w", domain.ErrBadRequest)
		}
		updates[fieldRole] = *req.Role
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates[fieldPasswordHash] = string(hash)
	}
	if len(updates) == 0 {
		return s.repo.Get(ctx, userID)
	}
	if err := s.repo.Update(ctx, userID, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Delete removes the user and all dependent rows; the repository runs the
// cascade in one transaction.
func (s *service) Delete(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
