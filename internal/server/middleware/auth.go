package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/solemate/solemate/internal/model"
	"github.com/solemate/solemate/internal/service"
)

type contextKeyAuth string

// currentUserKey is the context key for the authenticated user.
const currentUserKey contextKeyAuth = "current_user"

// Authenticate returns an HTTP middleware that resolves the request's
// Authorization bearer token to a user account. On success the user is
// attached to the request context; on any token failure a generic 401 is
// returned. Missing header, malformed token, expired token, unknown subject,
// and deactivated subject are all indistinguishable to the caller. A store
// failure while resolving the subject is not a token failure and surfaces as
// a 500, so clients keep their tokens and retry.
func Authenticate(authSvc *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			user, err := authSvc.ResolveToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrInvalidToken) {
					writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
					return
				}
				writeAuthError(w, http.StatusInternalServerError, "Authentication error")
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns an HTTP middleware that enforces the admin role. It
// must run after Authenticate. A known but non-admin caller gets 403, never
// 401: the identity is established, only the privilege is missing.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !user.IsAdmin() {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser extracts the authenticated user from the context. Returns nil
// for unauthenticated requests.
func CurrentUser(ctx context.Context) *model.User {
	if u, ok := ctx.Value(currentUserKey).(*model.User); ok {
		return u
	}
	return nil
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Manually construct JSON to avoid an import cycle with the handler package.
	w.Write([]byte(`{"error":{"code":` + statusString(status) + `,"message":"` + message + `"}}`))
}

func statusString(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "401"
	case http.StatusForbidden:
		return "403"
	default:
		return "500"
	}
}
