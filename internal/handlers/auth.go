package handlers

import (
	"net/http"

	"github.com/oaklinehq/scheduler/internal/permission"
	"github.com/oaklinehq/scheduler/libs/auth"
	"github.com/oaklinehq/scheduler/libs/httpx"
)

// WithAuth verifies the bearer JWT and stamps the user id on the request
// context. Staff membership itself is checked per-request by the permission
// provider.
func WithAuth(secret string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			claims, err := auth.VerifyHS256(token, secret)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			userID := claims.UserID()
			if userID == 0 {
				http.Error(w, "invalid token subject", http.StatusUnauthorized)
				return
			}
			ctx := permission.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
