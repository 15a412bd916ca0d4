package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quimal/dteledger/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"entry not found", domain.ErrEntryNotFound, http.StatusNotFound},
		{"folio not authorized", domain.ErrFolioNotAuthorized, http.StatusNotFound},
		{"invalid invoice", domain.ErrInvalidInvoice, http.StatusBadRequest},
		{"vat split", domain.ErrInvalidVATSplit, http.StatusBadRequest},
		{"caf parse", domain.ErrCAFParse, http.StatusBadRequest},
		{"invalid period", domain.ErrInvalidPeriod, http.StatusBadRequest},
		{"period closed", domain.ErrPeriodClosed, http.StatusConflict},
		{"already closed", domain.ErrPeriodAlreadyClosed, http.StatusConflict},
		{"missing company", domain.ErrMissingCompany, http.StatusUnauthorized},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized},
		{"signing failure", domain.ErrSigningFailure, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("posting: %w", domain.ErrPeriodClosed), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapDomainError(rec, tt.err)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMapDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	mapDomainError(rec, errors.New("pq: connection refused"))

	if body := rec.Body.String(); strings.Contains(body, "connection refused") {
		t.Errorf("internal error leaked into response: %s", body)
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries?limit=50&offset=abc", nil)

	if got := parseIntQuery(req, "limit", 20); got != 50 {
		t.Errorf("limit = %d, want 50", got)
	}

	if got := parseIntQuery(req, "offset", 0); got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}

	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Errorf("missing = %d, want 7", got)
	}
}
