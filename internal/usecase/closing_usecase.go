package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
)

// ClosingUseCase manages the one-way period-closing gate.
type ClosingUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	periodRepo ClosedPeriodRepository
	idGen      IDGenerator
}

// NewClosingUseCase creates a new ClosingUseCase.
func NewClosingUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	periodRepo ClosedPeriodRepository,
	idGen IDGenerator,
) *ClosingUseCase {
	return &ClosingUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		periodRepo: periodRepo,
		idGen:      idGen,
	}
}

// ClosePeriod closes (company, period) terminally, recording the profit/loss
// snapshot at closure. Closing an already-closed period fails; callers that
// want idempotence must check IsClosed first. There is no reopen.
func (uc *ClosingUseCase) ClosePeriod(ctx context.Context, companyRUT string, period domain.YearMonth, closedBy string) (*domain.ClosedPeriod, error) {
	if companyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.periodRepo.Lock(ctx, tx, companyRUT, period); err != nil {
		return nil, err
	}

	closed, err := uc.periodRepo.IsClosedTx(ctx, tx, companyRUT, period)
	if err != nil {
		return nil, err
	}

	if closed {
		return nil, fmt.Errorf("%w: %s %s", domain.ErrPeriodAlreadyClosed, companyRUT, period)
	}

	entries, err := uc.entryRepo.ListByPeriodTx(ctx, tx, companyRUT, period)
	if err != nil {
		return nil, err
	}

	closedPeriod := &domain.ClosedPeriod{
		ID:         uc.idGen.Generate(),
		CompanyRUT: companyRUT,
		Period:     period,
		ClosedBy:   closedBy,
		ClosedAt:   time.Now().UTC(),
		ProfitLoss: ProfitLoss(entries),
	}

	if err := uc.periodRepo.Create(ctx, tx, closedPeriod); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return closedPeriod, nil
}

// IsClosed reports whether the period is closed.
func (uc *ClosingUseCase) IsClosed(ctx context.Context, companyRUT string, period domain.YearMonth) (bool, error) {
	return uc.periodRepo.IsClosed(ctx, companyRUT, period)
}

// ValidateOpen fails with the period-closed error when the period no longer
// accepts postings.
func (uc *ClosingUseCase) ValidateOpen(ctx context.Context, companyRUT string, period domain.YearMonth) error {
	closed, err := uc.periodRepo.IsClosed(ctx, companyRUT, period)
	if err != nil {
		return err
	}

	if closed {
		return fmt.Errorf("%w: %s %s", domain.ErrPeriodClosed, companyRUT, period)
	}

	return nil
}

// ProfitLoss computes the result snapshot over a set of entries: revenue
// class credits minus expense class debits, net of contra postings.
func ProfitLoss(entries []*domain.AccountingEntry) decimal.Decimal {
	revenue := decimal.Zero
	expenses := decimal.Zero

	for _, entry := range entries {
		for _, line := range entry.Lines {
			switch {
			case domain.IsRevenueCode(line.AccountCode):
				revenue = revenue.Add(line.Credit).Sub(line.Debit)
			case domain.IsExpenseCode(line.AccountCode):
				expenses = expenses.Add(line.Debit).Sub(line.Credit)
			}
		}
	}

	return revenue.Sub(expenses)
}
