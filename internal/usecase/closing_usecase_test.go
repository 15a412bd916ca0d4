package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/usecase"
	"github.com/quimal/dteledger/internal/usecase/mocks"
)

func seedEntry(t *testing.T, repo *mocks.MockEntryRepository, invoice domain.Invoice, id string) *domain.AccountingEntry {
	t.Helper()

	entry, err := usecase.BuildEntry(invoice, id, time.Now().UTC(), nil)
	if err != nil {
		t.Fatalf("building entry: %v", err)
	}

	if err := repo.Create(context.Background(), nil, entry); err != nil {
		t.Fatalf("seeding entry: %v", err)
	}

	return entry
}

func TestClosingUseCase_ClosePeriod(t *testing.T) {
	entryRepo := mocks.NewMockEntryRepository()
	periodRepo := mocks.NewMockClosedPeriodRepository()

	seedEntry(t, entryRepo, saleInvoice(), "e1")
	seedEntry(t, entryRepo, purchaseInvoice(), "e2")

	uc := usecase.NewClosingUseCase(
		mocks.NewMockTransactionManager(),
		entryRepo,
		periodRepo,
		mocks.NewMockIDGenerator(),
	)

	period := domain.YearMonth{Year: 2025, Month: 3}

	closed, err := uc.ClosePeriod(context.Background(), "76543210-K", period, "contador@example.cl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Sale revenue 1000 minus the purchase's 600 expense portion.
	if !closed.ProfitLoss.Equal(decimal.NewFromInt(400)) {
		t.Errorf("profit/loss = %s, want 400", closed.ProfitLoss)
	}

	if closed.ClosedBy != "contador@example.cl" {
		t.Errorf("closedBy = %s", closed.ClosedBy)
	}

	isClosed, err := uc.IsClosed(context.Background(), "76543210-K", period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !isClosed {
		t.Error("period should be closed")
	}
}

func TestClosingUseCase_ClosePeriod_AlreadyClosed(t *testing.T) {
	periodRepo := mocks.NewMockClosedPeriodRepository()

	uc := usecase.NewClosingUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockEntryRepository(),
		periodRepo,
		mocks.NewMockIDGenerator(),
	)

	period := domain.YearMonth{Year: 2025, Month: 3}

	if _, err := uc.ClosePeriod(context.Background(), "76543210-K", period, "first"); err != nil {
		t.Fatalf("first close failed: %v", err)
	}

	_, err := uc.ClosePeriod(context.Background(), "76543210-K", period, "second")
	if !errors.Is(err, domain.ErrPeriodAlreadyClosed) {
		t.Fatalf("expected ErrPeriodAlreadyClosed, got %v", err)
	}
}

func TestClosingUseCase_ClosePeriod_OtherCompanyUnaffected(t *testing.T) {
	periodRepo := mocks.NewMockClosedPeriodRepository()

	uc := usecase.NewClosingUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockEntryRepository(),
		periodRepo,
		mocks.NewMockIDGenerator(),
	)

	period := domain.YearMonth{Year: 2025, Month: 3}

	if _, err := uc.ClosePeriod(context.Background(), "76543210-K", period, "contador"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	isClosed, err := uc.IsClosed(context.Background(), "99999999-9", period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if isClosed {
		t.Error("closure must be scoped to one company")
	}
}

func TestClosingUseCase_ValidateOpen(t *testing.T) {
	periodRepo := mocks.NewMockClosedPeriodRepository()

	uc := usecase.NewClosingUseCase(
		mocks.NewMockTransactionManager(),
		mocks.NewMockEntryRepository(),
		periodRepo,
		mocks.NewMockIDGenerator(),
	)

	period := domain.YearMonth{Year: 2025, Month: 3}

	if err := uc.ValidateOpen(context.Background(), "76543210-K", period); err != nil {
		t.Fatalf("open period should validate: %v", err)
	}

	if _, err := uc.ClosePeriod(context.Background(), "76543210-K", period, "contador"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := uc.ValidateOpen(context.Background(), "76543210-K", period)
	if !errors.Is(err, domain.ErrPeriodClosed) {
		t.Fatalf("expected ErrPeriodClosed, got %v", err)
	}
}

func TestProfitLoss(t *testing.T) {
	mustEntry := func(lines []domain.EntryLine) *domain.AccountingEntry {
		entry, err := domain.NewAccountingEntry(domain.NewAccountingEntryInput{
			ID:         "e1",
			CompanyRUT: "76543210-K",
			Date:       time.Now(),
			Lines:      lines,
		})
		if err != nil {
			t.Fatalf("building entry: %v", err)
		}

		return entry
	}

	debit := func(account domain.Account, amount int64) domain.EntryLine {
		line, err := domain.DebitLine(account, decimal.NewFromInt(amount))
		if err != nil {
			t.Fatalf("debit line: %v", err)
		}

		return line
	}

	credit := func(account domain.Account, amount int64) domain.EntryLine {
		line, err := domain.CreditLine(account, decimal.NewFromInt(amount))
		if err != nil {
			t.Fatalf("credit line: %v", err)
		}

		return line
	}

	entries := []*domain.AccountingEntry{
		mustEntry([]domain.EntryLine{
			debit(domain.AccountReceivables, 1190),
			credit(domain.AccountRevenue, 1000),
			credit(domain.AccountVATDebit, 190),
		}),
		mustEntry([]domain.EntryLine{
			debit(domain.AccountExpenses, 300),
			credit(domain.AccountPayables, 300),
		}),
		// Contra posting reduces revenue.
		mustEntry([]domain.EntryLine{
			debit(domain.AccountRevenue, 100),
			credit(domain.AccountReceivables, 100),
		}),
	}

	got := usecase.ProfitLoss(entries)
	if !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("ProfitLoss() = %s, want 600", got)
	}

	if !usecase.ProfitLoss(nil).Equal(decimal.Zero) {
		t.Error("empty period should report zero")
	}
}
