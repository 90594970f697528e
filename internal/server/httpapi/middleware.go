package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/samuelireke/hoaxify/internal/server/services"
)

type ctxKey string

const ctxUserIDKey ctxKey = "auth_user_id"

// BearerToken extracts the opaque token from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" {
		return ""
	}
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// TokenAuthentication tags the request context with the owner of a valid
// bearer token. It never rejects: requests with a missing, malformed, or
// stale token simply proceed without a principal, and handlers that need
// one decide what that means for them.
func TokenAuthentication(tokens *services.TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if value := BearerToken(r); value != "" {
				if userID, err := tokens.Verify(r.Context(), value); err == nil {
					ctx := context.WithValue(r.Context(), ctxUserIDKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext returns the authenticated user's id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(ctxUserIDKey).(string)
	return s, ok && s != ""
}
