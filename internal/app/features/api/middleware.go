// internal/app/features/api/middleware.go
package api

import (
	"net/http"

	"github.com/homesync/homesync/internal/app/system/apperr"
	"github.com/homesync/homesync/internal/app/system/authtoken"
)

// RequireAuth verifies the bearer token and puts the authenticated user
// ID into the request context. Requests without a valid token get a 401
// envelope and never reach the handler.
func RequireAuth(v *authtoken.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := v.FromRequest(r)
			if err != nil {
				Fail(w, http.StatusUnauthorized, apperr.CodeAccessDenied, "Sign in required.")
				return
			}
			next.ServeHTTP(w, r.WithContext(authtoken.WithUserID(r.Context(), userID)))
		})
	}
}
