package handler

import (
	"encoding/json"
	"net/http"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// InvoiceHandler posts invoices into the ledger.
type InvoiceHandler struct {
	postingUC *usecase.PostingUseCase
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(postingUC *usecase.PostingUseCase) *InvoiceHandler {
	return &InvoiceHandler{postingUC: postingUC}
}

// Post handles POST /api/v1/invoices.
func (h *InvoiceHandler) Post(w http.ResponseWriter, r *http.Request) {
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

	entry, err := h.postingUC.PostInvoice(r.Context(), req.ToDomain(companyRUT))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
