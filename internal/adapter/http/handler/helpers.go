package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, errMsg, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   errMsg,
		Message: message,
	})
}

// mapDomainError converts domain errors to HTTP status codes.
func mapDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrFolioNotAuthorized):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidInvoice),
		errors.Is(err, domain.ErrMissingAmount),
		errors.Is(err, domain.ErrNegativeExempt),
		errors.Is(err, domain.ErrInvalidVATSplit),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrUnbalancedEntry),
		errors.Is(err, domain.ErrEmptyEntry),
		errors.Is(err, domain.ErrCAFParse),
		errors.Is(err, domain.ErrInvalidFolioRange),
		errors.Is(err, domain.ErrInvalidPeriod):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrPeriodClosed),
		errors.Is(err, domain.ErrPeriodAlreadyClosed):
		writeError(w, http.StatusConflict, "period_conflict", err.Error())
	case errors.Is(err, domain.ErrMissingCompany),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, domain.ErrSigningFailure):
		writeError(w, http.StatusInternalServerError, "signing_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "an internal error occurred")
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, name string, defaultValue int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultValue
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}

	return v
}
