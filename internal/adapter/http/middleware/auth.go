package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quimal/dteledger/internal/infrastructure/auth"
	"github.com/quimal/dteledger/internal/tenant"
)

// AuthMiddleware verifies bearer tokens and scopes the request to a company.
type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

// Wrap wraps an http.Handler with token verification. Every request past
// this point carries a company RUT in its context.
func (m *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			unauthorized(w, "authorization header must be a bearer token")
			return
		}

		claims, err := m.jwtManager.Verify(token)
		if err != nil {
			unauthorized(w, err.Error())
			return
		}

		ctx := tenant.WithCompany(r.Context(), claims.CompanyRUT)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
