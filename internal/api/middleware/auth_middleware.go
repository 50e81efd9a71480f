package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront-checkout/internal/errors"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/identity"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/models"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/utils/response"
)

type identityContextKey struct{}

type AuthMiddleware struct {
	verifier  identity.Verifier
	adminRole string
}

func NewAuthMiddleware(verifier identity.Verifier, adminRole string) *AuthMiddleware {

	return &AuthMiddleware{verifier: verifier, adminRole: adminRole}

}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		user, err := m.verifier.Verify(r.Context(), tokenParts[1])
		if err != nil {
			logger.Warn("Token verification failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		requestScopedLogger := logger.With(slog.String("userId", user.ID))

		ctx := WithIdentity(r.Context(), user)
		ctx = WithLogger(ctx, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated")

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, ok := IdentityFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if user.Role != m.adminRole {
			LoggerFromContext(r.Context()).Warn("Admin access denied", slog.String("role", user.Role))
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}
}

func WithIdentity(ctx context.Context, user *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, user)
}

func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	user, ok := ctx.Value(identityContextKey{}).(*models.Identity)

	return user, ok && user != nil
}
