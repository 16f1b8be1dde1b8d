package middleware

import (
	"net/http"

	"github.com/squadup/squadup/internal/api/response"
)

// SessionChecker reports whether a session token belongs to a live admin
// session.
type SessionChecker interface {
	Valid(token string) bool
}

// AdminTokenHeader carries the admin session token on admin-only routes.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuth is middleware that gates admin-only mutations behind a valid
// admin session token. Missing or unknown tokens return 401.
func AdminAuth(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			token := r.Header.Get(AdminTokenHeader)
			if token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Admin session token is required", requestID)
				return
			}
			if !sessions.Valid(token) {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired admin session", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
