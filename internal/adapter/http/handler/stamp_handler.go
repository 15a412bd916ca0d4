package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// StampHandler issues tax stamps and their barcode renderings.
type StampHandler struct {
	stampUC *usecase.StampUseCase
}

// NewStampHandler creates a new StampHandler.
func NewStampHandler(stampUC *usecase.StampUseCase) *StampHandler {
	return &StampHandler{stampUC: stampUC}
}

// Issue handles POST /api/v1/stamps.
func (h *StampHandler) Issue(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	var req dto.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	stamp, err := h.stampUC.IssueStamp(r.Context(), req.ToDomain(companyRUT))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.StampFromDomain(stamp))
}

// Barcode handles POST /api/v1/stamps/barcode. It issues the stamp and
// responds with the PDF417 rendering as a PNG.
func (h *StampHandler) Barcode(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	var req dto.InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	stamp, err := h.stampUC.IssueStamp(r.Context(), req.ToDomain(companyRUT))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	png, err := h.stampUC.Barcode(stamp)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
