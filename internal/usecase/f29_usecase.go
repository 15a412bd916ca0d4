package usecase

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
)

// F29UseCase aggregates the monthly VAT declaration figures.
type F29UseCase struct {
	entryRepo  EntryRepository
	periodRepo ClosedPeriodRepository
	cache      Cache
}

// NewF29UseCase creates a new F29UseCase. cache may be nil.
func NewF29UseCase(entryRepo EntryRepository, periodRepo ClosedPeriodRepository, cache Cache) *F29UseCase {
	return &F29UseCase{
		entryRepo:  entryRepo,
		periodRepo: periodRepo,
		cache:      cache,
	}
}

// Calculate scans the period's posted entries and sums the VAT and
// revenue/expense figures. Deterministic: two runs over the same closed
// period return identical totals and evidence. Reports for closed periods
// are cached since the underlying entries can no longer change.
func (uc *F29UseCase) Calculate(ctx context.Context, companyRUT string, period domain.YearMonth) (*domain.TaxPeriodReport, error) {
	if companyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	closed, err := uc.periodRepo.IsClosed(ctx, companyRUT, period)
	if err != nil {
		return nil, err
	}

	cacheKey := "f29:" + companyRUT + ":" + period.String()

	if closed && uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var report domain.TaxPeriodReport
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	entries, err := uc.entryRepo.ListByPeriod(ctx, companyRUT, period)
	if err != nil {
		return nil, err
	}

	report := aggregate(companyRUT, period, entries)

	if closed && uc.cache != nil {
		if encoded, err := json.Marshal(report); err == nil {
			// Best effort; a cache failure never blocks the report.
			_ = uc.cache.Set(ctx, cacheKey, string(encoded), reportCacheTTL)
		}
	}

	return report, nil
}

func aggregate(companyRUT string, period domain.YearMonth, entries []*domain.AccountingEntry) *domain.TaxPeriodReport {
	report := &domain.TaxPeriodReport{
		CompanyRUT:       companyRUT,
		Period:           period.String(),
		SalesTaxable:     decimal.Zero,
		SalesExempt:      decimal.Zero,
		PurchasesTaxable: decimal.Zero,
		PurchasesExempt:  decimal.Zero,
		VATDebit:         decimal.Zero,
		VATCredit:        decimal.Zero,
		EvidenceIDs:      []string{},
	}

	for _, entry := range entries {
		contributed := false

		for _, line := range entry.Lines {
			switch {
			case line.AccountCode == domain.AccountVATDebit.Code:
				report.VATDebit = report.VATDebit.Add(line.Credit).Sub(line.Debit)
				contributed = true
			case line.AccountCode == domain.AccountVATCredit.Code:
				report.VATCredit = report.VATCredit.Add(line.Debit).Sub(line.Credit)
				contributed = true
			case line.AccountCode == domain.AccountRevenueEx.Code:
				report.SalesExempt = report.SalesExempt.Add(line.Credit).Sub(line.Debit)
				contributed = true
			case domain.IsRevenueCode(line.AccountCode):
				report.SalesTaxable = report.SalesTaxable.Add(line.Credit).Sub(line.Debit)
				contributed = true
			case line.AccountCode == domain.AccountExpensesEx.Code:
				report.PurchasesExempt = report.PurchasesExempt.Add(line.Debit).Sub(line.Credit)
				contributed = true
			case domain.IsExpenseCode(line.AccountCode):
				report.PurchasesTaxable = report.PurchasesTaxable.Add(line.Debit).Sub(line.Credit)
				contributed = true
			}
		}

		if contributed {
			report.EvidenceIDs = append(report.EvidenceIDs, entry.ID)
		}
	}

	// Evidence order must not depend on scan order.
	sort.Strings(report.EvidenceIDs)

	payable := report.VATDebit.Sub(report.VATCredit)
	if payable.IsNegative() {
		payable = decimal.Zero
	}

	report.VATPayable = payable

	return report
}
