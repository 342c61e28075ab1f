package middleware

import (
	"context"
	"net/http"
	"time"

	"storefront-backend/pkg/logger"

	"github.com/google/uuid"
)

const CartSessionCookie = "cart_session"

type sessionKey struct{}

// CartSession makes sure every request carries a cart session id, issuing a
// cookie when the client has none or sends one that is not a uuid.
func CartSession(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(CartSessionCookie); err == nil {
				if _, perr := uuid.Parse(c.Value); perr == nil {
					sessionID = c.Value
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			// Refresh on every request so the cookie outlives the cart.
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
			l := logger.WithSessionID(*logger.WithContext(ctx), sessionID)
			ctx = logger.NewContext(ctx, &l)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
