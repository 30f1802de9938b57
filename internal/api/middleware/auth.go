package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/futig/tutor-backend/internal/entity"
	"github.com/futig/tutor-backend/internal/pkg/auth"
	"github.com/futig/tutor-backend/internal/pkg/logger"
	"github.com/futig/tutor-backend/internal/pkg/response"
)

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type identityKey struct{}

// Identity is the authenticated caller.
type Identity struct {
	Username string
	Role     entity.UserRole
}

// IdentityFromContext returns the caller set by Authenticate.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Caller is IdentityFromContext for handlers behind Authenticate.
func Caller(ctx context.Context) (Identity, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok || id.Username == "" {
		return Identity{}, entity.ErrUnauthorized
	}
	return id, nil
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// Authenticate rejects requests without a valid bearer token.
func Authenticate(tokens TokenValidator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := auth.ExtractTokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				response.HandleUsecaseError(ctx, w, err)
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				response.HandleUsecaseError(ctx, w, err)
				return
			}

			ctx = logger.WithUser(ctx, claims.Username(), string(claims.Role))
			ctx = WithIdentity(ctx, Identity{Username: claims.Username(), Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets through only callers with role. It must run after Authenticate.
func RequireRole(role entity.UserRole) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				response.HandleUsecaseError(r.Context(), w, entity.ErrUnauthorized)
				return
			}
			if id.Role != role {
				response.HandleUsecaseError(r.Context(), w, fmt.Errorf("%w: requires role %s", entity.ErrForbidden, role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
