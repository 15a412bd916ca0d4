package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// EntryHandler serves ledger reads.
type EntryHandler struct {
	entryUC *usecase.EntryUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// List handles GET /api/v1/entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	input := usecase.ListEntriesInput{
		CompanyRUT: companyRUT,
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	}

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "from must be RFC 3339")
			return
		}
		input.From = t
	}

	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "to must be RFC 3339")
			return
		}
		input.To = t
	}

	entries, err := h.entryUC.ListEntries(r.Context(), input)
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"entries": dto.EntriesFromDomain(entries),
		"limit":   input.Limit,
		"offset":  input.Offset,
	})
}

// Get handles GET /api/v1/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyRUT, err := tenant.Company(r.Context())
	if err != nil {
		mapDomainError(w, err)
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), companyRUT, chi.URLParam(r, "id"))
	if err != nil {
		mapDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}
