package handlers

import (
	"net/http"
	"strings"

	"medicare/auth"
)

// AuthedHandler is a handler that requires a resolved caller identity.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, caller *auth.Identity)

// RequireAuth wraps a handler with bearer-token authentication. The
// token comes from the Authorization header; missing or invalid tokens
// get 401 before the wrapped handler runs.
func RequireAuth(tokens *auth.TokenService, next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw := strings.TrimPrefix(header, "Bearer ")
		if raw == "" || raw == header {
			writeError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		caller, err := tokens.Verify(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authorized, token failed")
			return
		}

		next(w, r, caller)
	}
}
