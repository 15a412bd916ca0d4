package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/adapter/http/dto"
	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
	"github.com/quimal/dteledger/internal/usecase/mocks"
)

func newPostingUseCase() (*usecase.PostingUseCase, *mocks.MockClosedPeriodRepository) {
	periodRepo := mocks.NewMockClosedPeriodRepository()
	uc := usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockEntryRepository(),
		periodRepo,
		mocks.NewMockRuleRepository(),
		mocks.NewMockIDGenerator(),
		nil,
	)

	return uc, periodRepo
}

func saleInvoiceRequest() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		Direction:        string(domain.DirectionSale),
		IssuerRUT:        "76543210-K",
		CounterpartyRUT:  "11111111-1",
		CounterpartyName: "Cliente Uno",
		DocType:          33,
		Folio:            101,
		Net:              decimal.NewFromInt(1000),
		Tax:              decimal.NewFromInt(190),
		Total:            decimal.NewFromInt(1190),
		IssuedAt:         time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}
}

func withCompany(r *http.Request, rut string) *http.Request {
	return r.WithContext(tenant.WithCompany(r.Context(), rut))
}

func TestInvoiceHandler_Post_Success(t *testing.T) {
	uc, _ := newPostingUseCase()
	h := NewInvoiceHandler(uc)

	body, _ := json.Marshal(saleInvoiceRequest())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if resp.ID == "" {
		t.Error("expected entry id to be set")
	}

	if len(resp.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
	}

	if !resp.TotalDebit.Equal(resp.TotalCredit) {
		t.Errorf("entry not balanced: debit %s credit %s", resp.TotalDebit, resp.TotalCredit)
	}
}

func TestInvoiceHandler_Post_MissingCompany(t *testing.T) {
	uc, _ := newPostingUseCase()
	h := NewInvoiceHandler(uc)

	body, _ := json.Marshal(saleInvoiceRequest())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestInvoiceHandler_Post_InvalidBody(t *testing.T) {
	uc, _ := newPostingUseCase()
	h := NewInvoiceHandler(uc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString("{not json"))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInvoiceHandler_Post_UnbalancedInvoice(t *testing.T) {
	uc, _ := newPostingUseCase()
	h := NewInvoiceHandler(uc)

	invReq := saleInvoiceRequest()
	invReq.Total = decimal.NewFromInt(1000)
	body, _ := json.Marshal(invReq)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInvoiceHandler_Post_ClosedPeriod(t *testing.T) {
	uc, periodRepo := newPostingUseCase()
	h := NewInvoiceHandler(uc)

	closed := &domain.ClosedPeriod{
		ID:         "cp-1",
		CompanyRUT: "76543210-K",
		Period:     domain.YearMonth{Year: 2025, Month: 3},
		ClosedBy:   "contadora",
		ClosedAt:   time.Now(),
		ProfitLoss: decimal.Zero,
	}
	if err := periodRepo.Create(context.Background(), nil, closed); err != nil {
		t.Fatalf("seeding closed period: %v", err)
	}

	body, _ := json.Marshal(saleInvoiceRequest())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewReader(body))
	req = withCompany(req, "76543210-K")
	rec := httptest.NewRecorder()

	h.Post(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}
