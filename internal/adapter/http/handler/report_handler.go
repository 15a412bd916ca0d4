package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// ReportHandler serves monthly tax reports.
type ReportHandler struct {
	f29UC *usecase.F29UseCase
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(f29UC *usecase.F29UseCase) *ReportHandler {
	return &ReportHandler{f29UC: f29UC}
}

// F29 handles GET /api/v1/reports/f29/{period}.
func (h *ReportHandler) F29(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.f29UC.Calculate(r.Context(), companyRUT, period)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
