package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/villa-booking-api/internal/domain"
	"github.com/villa-booking-api/internal/pkg/id"
	pkgtoken "github.com/villa-booking-api/internal/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
}

type userStore interface {
	Put(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetResetToken(ctx context.Context, userID, tok string, expires time.Time) error
	ResetPassword(ctx context.Context, email, tok, newHash string) error
}

type jwtSigner interface {
	Sign(userID, role string) (string, error)
}

type mailer interface {
	SendEmail(to, subject, htmlBody string) error
}

type service struct {
	repo        userStore
	jwtProvider jwtSigner
	mailer      mailer
	frontendURL string
	resetTTL    time.Duration
}

type ServiceDeps struct {
	UserRepo    userStore
	JWTProvider jwtSigner
	Mailer      mailer
	FrontendURL string
	ResetTTL    time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:        deps.UserRepo,
		jwtProvider: deps.JWTProvider,
		mailer:      deps.Mailer,
		frontendURL: deps.FrontendURL,
		resetTTL:    deps.ResetTTL,
	}
}

// Register creates an account with role user or owner; admin accounts are
// provisioned out of band, never self-assigned.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	if req.Role != domain.RoleUser && req.Role != domain.RoleOwner {
		return nil, "", fmt.Errorf("role must be user or owner: %w", domain.ErrBadRequest)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, u); err != nil {
		return nil, "", err
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, bearer, nil
}

// Login verifies credentials and issues a bearer token. The error message
// never reveals whether the email exists.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	}
	bearer, err := s.jwtProvider.Sign(u.UserID, u.Role)
	if err != nil {
		return nil, "", err
	}
	return u, bearer, nil
}

// ForgotPassword mails a reset link when the email is registered. An
// unknown email reports success too, so the endpoint cannot be used to
// enumerate accounts.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	tok, err := pkgtoken.NewResetToken()
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(s.resetTTL)
	if err := s.repo.SetResetToken(ctx, u.UserID, tok, expires); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.frontendURL, tok, u.Email)
	body := fmt.Sprintf(`
		<p>You are receiving this because a password reset was requested for your account.</p>
		<p>Click the link below to choose a new password. It expires in one hour.</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not request this, ignore this email and your password will stay the same.</p>`,
		resetURL, resetURL)
	return s.mailer.SendEmail(u.Email, "Password reset request", body)
}

func (s *service) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.ResetPassword(ctx, req.Email, req.Token, string(hash))
}
