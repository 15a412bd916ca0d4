package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quimal/dteledger/internal/usecase"
	"github.com/quimal/dteledger/internal/usecase/mocks"
)

func newCAFHandler() *CAFHandler {
	uc := usecase.NewCAFUseCase(mocks.NewMockCAFRepository(), mocks.NewMockIDGenerator())
	return NewCAFHandler(uc)
}

func TestCAFHandler_Upload_EmptyBody(t *testing.T) {
	h := newCAFHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/caf", bytes.NewReader(nil))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCAFHandler_Upload_MalformedFile(t *testing.T) {
	h := newCAFHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/caf", bytes.NewBufferString("<NOTCAF/>"))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCAFHandler_Upload_MissingCompany(t *testing.T) {
	h := newCAFHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/caf", bytes.NewBufferString("<AUTORIZACION/>"))
	rec := httptest.NewRecorder()

	h.Upload(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
