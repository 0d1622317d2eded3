// Package middleware provides HTTP middleware for the payments API.
package middleware

import (
	"encoding/json"
	"net/http"

	authpkg "github.com/vr-ski/TransactionManager/pkg/auth"
)

// Auth rejects requests without a valid bearer token and stores the user
// context for the handlers.
func Auth(validator authpkg.TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := authpkg.ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			userCtx, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(authpkg.WithUser(r.Context(), userCtx)))
		})
	}
}

// GetUserFromRequest retrieves user context from the HTTP request context
func GetUserFromRequest(r *http.Request) (*authpkg.UserContext, error) {
	return authpkg.GetUserFromContext(r.Context())
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
