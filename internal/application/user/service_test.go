package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/villa-booking-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// --- mock ---

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if us, _ := args.Get(0).([]domain.User); us != nil {
		return us, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}
func (m *mockUserStore) Delete(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func strPtr(s string) *string { return &s }

// --- Get ---

func TestGet_Self_Allowed(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(repo)
	u, err := svc.Get(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
}

func TestGet_OtherUser_Forbidden(t *testing.T) {
	svc := NewService(&mockUserStore{})
	_, err := svc.Get(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u2")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestGet_Admin_MayReadAnyone(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)

	svc := NewService(repo)
	_, err := svc.Get(context.Background(), &domain.Principal{UserID: "a1", Role: domain.RoleAdmin}, "u2")
	require.NoError(t, err)
}

// --- Update ---

func TestUpdate_SelfProfileFields(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldName] == "New Name" && m[fieldPhone] == "+15550000"
	})).Return(nil)
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: "New Name"}, nil)

	svc := NewService(repo)
	u, err := svc.Update(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u1",
		domain.UpdateUserRequest{Name: strPtr("New Name"), Phone: strPtr("+15550000")})
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.Name)
	repo.AssertExpectations(t)
}

func TestUpdate_RoleChangeByNonAdmin_Forbidden(t *testing.T) {
	svc := NewService(&mockUserStore{})
	_, err := svc.Update(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u1",
		domain.UpdateUserRequest{Role: strPtr(domain.RoleAdmin)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_RoleChangeByAdmin_Allowed(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		return m[fieldRole] == domain.RoleOwner
	})).Return(nil)
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Role: domain.RoleOwner}, nil)

	svc := NewService(repo)
	u, err := svc.Update(context.Background(), &domain.Principal{UserID: "a1", Role: domain.RoleAdmin}, "u1",
		domain.UpdateUserRequest{Role: strPtr(domain.RoleOwner)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, u.Role)
}

func TestUpdate_InvalidRole_ReturnsBadRequest(t *testing.T) {
	svc := NewService(&mockUserStore{})
	_, err := svc.Update(context.Background(), &domain.Principal{UserID: "a1", Role: domain.RoleAdmin}, "u1",
		domain.UpdateUserRequest{Role: strPtr("superuser")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_OtherUserByNonAdmin_Forbidden(t *testing.T) {
	svc := NewService(&mockUserStore{})
	_, err := svc.Update(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u2",
		domain.UpdateUserRequest{Name: strPtr("x")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestUpdate_PasswordIsHashed(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Update", mock.Anything, "u1", mock.MatchedBy(func(m map[string]interface{}) bool {
		hash, ok := m[fieldPasswordHash].(string)
		return ok && bcrypt.CompareHashAndPassword([]byte(hash), []byte("new-secret")) == nil
	})).Return(nil)
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(repo)
	_, err := svc.Update(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u1",
		domain.UpdateUserRequest{Password: strPtr("new-secret")})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdate_NoFields_ReturnsCurrentProfile(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)

	svc := NewService(repo)
	u, err := svc.Update(context.Background(), &domain.Principal{UserID: "u1", Role: domain.RoleUser}, "u1",
		domain.UpdateUserRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.UserID)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

// --- Delete ---

func TestDelete_DelegatesToStore(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Delete", mock.Anything, "u1").Return(nil)

	svc := NewService(repo)
	require.NoError(t, svc.Delete(context.Background(), "u1"))
	repo.AssertExpectations(t)
}
