package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/villa-booking-api/internal/domain"
	jwtinfra "github.com/villa-booking-api/internal/infrastructure/jwt"
)

type contextKey string

const principalKey contextKey = "principal"

type verifier interface {
	Verify(tokenStr string) (*jwtinfra.Claims, error)
}

// Auth returns middleware that validates the Bearer JWT and injects the
// principal into context. Requests without a valid token are rejected.
func Auth(provider verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := principalFromHeader(provider, r)
			if !ok {
				http.Error(w, `{"error":"missing or invalid authorization header"}`, http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injects a principal when a valid Bearer token is present and
// lets the request through anonymously otherwise. Public villa reads use
// this so owners and admins see their scoped view of the same endpoint.
func OptionalAuth(provider verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p, ok := principalFromHeader(provider, r); ok {
				r = r.WithContext(context.WithValue(r.Context(), principalKey, p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFromHeader(provider verifier, r *http.Request) (*domain.Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	claims, err := provider.Verify(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		return nil, false
	}
	return &domain.Principal{UserID: claims.UserID, Role: claims.Role}, true
}

// PrincipalFromContext extracts the authenticated principal from the
// request context; nil means anonymous.
func PrincipalFromContext(ctx context.Context) *domain.Principal {
	p, _ := ctx.Value(principalKey).(*domain.Principal)
	return p
}

// WithPrincipal returns a context carrying the given principal. Test helper.
func WithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
