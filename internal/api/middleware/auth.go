package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/estate-ease/api/internal/auth"
	"github.com/estate-ease/api/internal/utils"
	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id set by Auth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// Auth verifies the session token and injects the user id into the
// request context. The token is read from the access_token cookie or,
// failing that, a Bearer Authorization header.
func Auth(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := ""
			if cookie, err := r.Cookie("access_token"); err == nil {
				tokenStr = cookie.Value
			} else if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
				tokenStr = strings.TrimPrefix(header, "Bearer ")
			}

			if tokenStr == "" {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
