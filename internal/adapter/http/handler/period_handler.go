package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// PeriodHandler manages accounting period closures.
type PeriodHandler struct {
	closingUC *usecase.ClosingUseCase
}

// NewPeriodHandler creates a new PeriodHandler.
func NewPeriodHandler(closingUC *usecase.ClosingUseCase) *PeriodHandler {
	return &PeriodHandler{closingUC: closingUC}
}

// Close handles POST /api/v1/periods/{period}/close.
func (h *PeriodHandler) Close(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	period, err := domain.ParseYearMonth(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "period must be YYYY-MM")
		return
	}

	var req dto.ClosePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ClosedBy == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "closed_by is required")
		return
	}

	closed, err := h.closingUC.ClosePeriod(r.Context(), companyRUT, period, req.ClosedBy)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ClosedPeriodFromDomain(closed))
}

// Status handles GET /api/v1/periods/{period}.
func (h *PeriodHandler) Status(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	period, err := domain.ParseYearMonth(chi.URLParam(r, "period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "period must be YYYY-MM")
		return
	}

	closed, err := h.closingUC.IsClosed(r.Context(), companyRUT, period)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"period": period.String(),
		"closed": closed,
	})
}
