package handler

import (
	"io"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// cafMaxBytes caps the accepted upload size. Real CAF files are a few KB.
const cafMaxBytes = 1 << 20

// CAFHandler uploads folio authorization files.
type CAFHandler struct {
	cafUC *usecase.CAFUseCase
}

// NewCAFHandler creates a new CAFHandler.
func NewCAFHandler(cafUC *usecase.CAFUseCase) *CAFHandler {
	return &CAFHandler{cafUC: cafUC}
}

// Upload handles POST /api/v1/caf. The body is the raw XML file as
// downloaded from the SII.
func (h *CAFHandler) Upload(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, cafMaxBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "could not read body")
		return
	}

	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "empty body")
		return
	}

	auth, err := h.cafUC.Upload(r.Context(), companyRUT, raw)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CAFFromDomain(auth))
}
