package handlers

import (
	"context"
	"net/http"
	"strings"

	"mediashelf/services/users"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFrom returns the authenticated user ID stored by RequireUser, or
// the empty string outside a protected route.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// RequireUser verifies the bearer token and stashes the user ID in the
// request context. Requests without a valid token get 401.
func RequireUser(tokens users.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				http.Error(w, "authorization required", http.StatusUnauthorized)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
