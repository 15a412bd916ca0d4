package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/quimal/dteledger/internal/domain"
)

func TestCompany(t *testing.T) {
	ctx := WithCompany(context.Background(), "76000000-K")

	rut, err := Company(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rut != "76000000-K" {
		t.Fatalf("got %q", rut)
	}
}

func TestCompany_Missing(t *testing.T) {
	if _, err := Company(context.Background()); !errors.Is(err, domain.ErrMissingCompany) {
		t.Fatalf("expected ErrMissingCompany, got %v", err)
	}
}

func TestCompany_NoLeakAcrossContexts(t *testing.T) {
	a := WithCompany(context.Background(), "76000000-K")
	b := WithCompany(context.Background(), "77111111-1")

	got, _ := Company(a)
	if got != "76000000-K" {
		t.Fatalf("context a leaked: %q", got)
	}

	got, _ = Company(b)
	if got != "77111111-1" {
		t.Fatalf("context b leaked: %q", got)
	}
}
