// internal/platform/auth/middleware.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

// CtxAdminKey carries the authenticated admin username.
const CtxAdminKey contextKey = "admin"

// Middleware rejects requests that do not carry a valid Bearer token.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r.Header.Get("Authorization"))
		if !ok {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		admin, err := s.Verify(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), CtxAdminKey, admin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HandleLogin exchanges admin credentials for a session token.
func (s *Service) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	token, err := s.Login(req.Username, req.Password)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusUnauthorized)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
