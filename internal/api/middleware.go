package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/athenaeum/portal/internal/auth"
)

type contextKey string

const userContextKey contextKey = "portal.user"

// RequireAdmin authenticates the request through the gate and stores the
// admin user in the context. Missing or bad tokens yield 401, valid
// tokens without the admin role 403.
func RequireAdmin(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := gate.Authenticate(r)
			if err != nil {
				if errors.Is(err, auth.ErrNotAdmin) {
					writeError(w, r, http.StatusForbidden, "admin role required")
					return
				}
				writeError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the admin stored by RequireAdmin, or nil.
func UserFromContext(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userContextKey).(*auth.User)
	return user
}
