package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quimal/dteledger/internal/infrastructure/auth"
	"github.com/quimal/dteledger/internal/tenant"
)

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	mw := NewAuthMiddleware(auth.NewJWTManager("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddleware_SetsCompanyFromToken(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	mw := NewAuthMiddleware(jwtManager)

	token, err := jwtManager.Generate("76543210-K", "contadora")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	var gotRUT string
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRUT, err = tenant.Company(r.Context())
	})).ServeHTTP(rr, req)

	if err != nil {
		t.Fatalf("company missing from context: %v", err)
	}
	if gotRUT != "76543210-K" {
		t.Fatalf("expected company 76543210-K, got %q", gotRUT)
	}
}

func TestAuthMiddleware_RejectsBadToken(t *testing.T) {
	mw := NewAuthMiddleware(auth.NewJWTManager("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rr := httptest.NewRecorder()

	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run with an invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUnauthorized_EscapesMessage(t *testing.T) {
	rr := httptest.NewRecorder()

	unauthorized(rr, `token "x" rejected`+"\n")

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v: %s", err, rr.Body.String())
	}
	if body["error"] != "unauthorized" {
		t.Fatalf("unexpected error field: %q", body["error"])
	}
	if body["message"] != `token "x" rejected`+"\n" {
		t.Fatalf("message mangled: %q", body["message"])
	}
}
