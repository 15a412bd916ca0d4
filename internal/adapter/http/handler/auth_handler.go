package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/infrastructure/auth"
)

// AuthHandler issues company-scoped API tokens.
type AuthHandler struct {
	jwtManager *auth.JWTManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{jwtManager: jwtManager}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, err := h.jwtManager.Generate(req.CompanyRUT, req.Subject)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}
