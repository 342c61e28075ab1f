package middleware

import (
	"context"
	"net/http"

	"storefront-backend/internal/domain"
	"storefront-backend/pkg/logger"
	"storefront-backend/pkg/utils"
)

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: "+err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims)))
	})
}

// OptionalAuth attaches the user when a valid token is present and never rejects.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := utils.ExtractClaims(r); err == nil {
			r = r.WithContext(withUser(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// Claims are trusted as-is to avoid a lookup on every request.
func withUser(ctx context.Context, claims *utils.Claims) context.Context {
	user := &domain.User{
		ID:    claims.UserID(),
		Email: claims.Email,
		Role:  claims.Role,
	}
	l := logger.WithUserID(*logger.WithContext(ctx), user.ID)
	ctx = logger.NewContext(ctx, &l)
	return context.WithValue(ctx, domain.UserContextKey, user)
}

// UserFromContext returns the authenticated user, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(domain.UserContextKey).(*domain.User)
	return user
}
