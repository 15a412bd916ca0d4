package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/infrastructure/metrics"
)

// PostingUseCase turns invoice facts into balanced ledger entries.
type PostingUseCase struct {
	txManager  TransactionManager
	entryRepo  EntryRepository
	periodRepo ClosedPeriodRepository
	ruleRepo   RuleRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewPostingUseCase creates a new PostingUseCase. metrics may be nil.
func NewPostingUseCase(
	txManager TransactionManager,
	entryRepo EntryRepository,
	periodRepo ClosedPeriodRepository,
	ruleRepo RuleRepository,
	idGen IDGenerator,
	m *metrics.Metrics,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:  txManager,
		entryRepo:  entryRepo,
		periodRepo: periodRepo,
		ruleRepo:   ruleRepo,
		idGen:      idGen,
		metrics:    m,
	}
}

// PostInvoice builds the entry for an invoice and appends it to the ledger.
// The period-open check and the append run in one transaction, serialized
// against period closing, so an entry can never land after closure completes.
func (uc *PostingUseCase) PostInvoice(ctx context.Context, invoice domain.Invoice) (*domain.AccountingEntry, error) {
	start := time.Now()

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	rules, err := uc.ruleRepo.ListByCompany(ctx, invoice.CompanyRUT)
	if err != nil {
		return nil, err
	}

	entry, err := BuildEntry(invoice, uc.idGen.Generate(), time.Now().UTC(), rules)
	if err != nil {
		return nil, err
	}

	period := domain.YearMonthOf(invoice.IssuedAt)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.periodRepo.Lock(ctx, tx, invoice.CompanyRUT, period); err != nil {
		return nil, err
	}

	closed, err := uc.periodRepo.IsClosedTx(ctx, tx, invoice.CompanyRUT, period)
	if err != nil {
		return nil, err
	}

	if closed {
		if uc.metrics != nil {
			uc.metrics.ClosedPeriodHits.Inc()
		}
		return nil, fmt.Errorf("%w: %s %s", domain.ErrPeriodClosed, invoice.CompanyRUT, period)
	}

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.WithLabelValues(string(invoice.Direction)).Inc()
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}

	return entry, nil
}

// BuildEntry is the pure posting engine: deterministic and side-effect-free
// given the invoice and the rule snapshot. Construction of the entry enforces
// the balance invariant, so an arithmetic bug here surfaces immediately
// instead of producing an unbalanced ledger.
func BuildEntry(invoice domain.Invoice, id string, now time.Time, rules []*domain.LearnedRule) (*domain.AccountingEntry, error) {
	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	var (
		lines []domain.EntryLine
		err   error
	)

	switch invoice.Direction {
	case domain.DirectionSale:
		lines, err = saleLines(invoice, rules)
	case domain.DirectionPurchase:
		lines, err = purchaseLines(invoice, rules)
	}

	if err != nil {
		return nil, err
	}

	return domain.NewAccountingEntry(domain.NewAccountingEntryInput{
		ID:               id,
		CompanyRUT:       invoice.CompanyRUT,
		Date:             invoice.IssuedAt,
		Description:      description(invoice),
		RefType:          "INVOICE",
		RefID:            fmt.Sprintf("%d-%d", invoice.DocType, invoice.Folio),
		CounterpartyRUT:  invoice.CounterpartyRUT,
		CounterpartyName: invoice.CounterpartyName,
		DocType:          invoice.DocType,
		DocNumber:        invoice.Folio,
		Kind:             domain.EntryKindNormal,
		Lines:            lines,
		CreatedAt:        now,
	})
}

func saleLines(invoice domain.Invoice, rules []*domain.LearnedRule) ([]domain.EntryLine, error) {
	revenue := Classify(invoice.ClassificationKey(), rules, domain.AccountRevenue)
	exempt := invoice.ExemptAmount()

	var lines []domain.EntryLine

	receivable, err := domain.DebitLine(domain.AccountReceivables, invoice.Total)
	if err != nil {
		return nil, err
	}

	lines = append(lines, receivable)

	if invoice.Net.IsPositive() {
		line, err := domain.CreditLine(revenue, invoice.Net)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if exempt.IsPositive() {
		line, err := domain.CreditLine(domain.AccountRevenueEx, exempt)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	if invoice.Tax.IsPositive() {
		line, err := domain.CreditLine(domain.AccountVATDebit, invoice.Tax)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func purchaseLines(invoice domain.Invoice, rules []*domain.LearnedRule) ([]domain.EntryLine, error) {
	expense := Classify(invoice.ClassificationKey(), rules, domain.AccountExpenses)
	exempt := invoice.ExemptAmount()
	standardVAT := invoice.Tax.Sub(invoice.CommonUseVAT)

	var lines []domain.EntryLine

	appendDebit := func(account domain.Account, amount decimal.Decimal) error {
		if !amount.IsPositive() {
			return nil
		}

		line, err := domain.DebitLine(account, amount)
		if err != nil {
			return err
		}

		lines = append(lines, line)

		return nil
	}

	if err := appendDebit(domain.AccountFixedAssets, invoice.FixedAsset); err != nil {
		return nil, err
	}

	if err := appendDebit(expense, invoice.Net.Sub(invoice.FixedAsset)); err != nil {
		return nil, err
	}

	if err := appendDebit(domain.AccountExpensesEx, exempt); err != nil {
		return nil, err
	}

	if err := appendDebit(domain.AccountVATCommonUse, invoice.CommonUseVAT); err != nil {
		return nil, err
	}

	if err := appendDebit(domain.AccountVATCredit, standardVAT); err != nil {
		return nil, err
	}

	payable, err := domain.CreditLine(domain.AccountPayables, invoice.Total)
	if err != nil {
		return nil, err
	}

	lines = append(lines, payable)

	return lines, nil
}

func description(invoice domain.Invoice) string {
	verb := "Venta"
	if invoice.Direction == domain.DirectionPurchase {
		verb = "Compra"
	}

	return fmt.Sprintf("%s DTE %d folio %d %s", verb, invoice.DocType, invoice.Folio, invoice.CounterpartyName)
}
