package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus tags the lifecycle state of an accounting entry.
type EntryStatus string

const (
	EntryStatusPosted EntryStatus = "posted"
)

// EntryKind distinguishes ordinary postings from manual adjustments.
type EntryKind string

const (
	EntryKindNormal     EntryKind = "normal"
	EntryKindAdjustment EntryKind = "adjustment"
)

// EntryLine is a single debit or credit against an account. Exactly one of
// Debit/Credit is non-zero by convention; both are always non-negative.
type EntryLine struct {
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// DebitLine builds a debit line, rejecting negative amounts.
func DebitLine(account Account, amount decimal.Decimal) (EntryLine, error) {
	if amount.IsNegative() {
		return EntryLine{}, fmt.Errorf("%w: debit %s on account %s", ErrNegativeAmount, amount, account.Code)
	}

	return EntryLine{
		AccountCode: account.Code,
		AccountName: account.Name,
		Debit:       amount,
		Credit:      decimal.Zero,
	}, nil
}

// CreditLine builds a credit line, rejecting negative amounts.
func CreditLine(account Account, amount decimal.Decimal) (EntryLine, error) {
	if amount.IsNegative() {
		return EntryLine{}, fmt.Errorf("%w: credit %s on account %s", ErrNegativeAmount, amount, account.Code)
	}

	return EntryLine{
		AccountCode: account.Code,
		AccountName: account.Name,
		Debit:       decimal.Zero,
		Credit:      amount,
	}, nil
}

// AccountingEntry is one immutable journal entry. It can only be obtained
// through NewAccountingEntry, which enforces the balance invariant, so an
// unbalanced entry can never exist.
type AccountingEntry struct {
	CreatedAt        time.Time
	Date             time.Time
	ID               string
	CompanyRUT       string
	Description      string
	RefType          string
	RefID            string
	CounterpartyRUT  string
	CounterpartyName string
	DocType          int
	DocNumber        int64
	Status           EntryStatus
	Kind             EntryKind
	Lines            []EntryLine
}

// NewAccountingEntryInput carries the fields of an entry under construction.
type NewAccountingEntryInput struct {
	Date             time.Time
	CreatedAt        time.Time
	ID               string
	CompanyRUT       string
	Description      string
	RefType          string
	RefID            string
	CounterpartyRUT  string
	CounterpartyName string
	DocType          int
	DocNumber        int64
	Kind             EntryKind
	Lines            []EntryLine
}

// NewAccountingEntry validates and constructs an entry. The debit and credit
// totals must match exactly; a mismatch is an invariant violation, never a
// stored state.
func NewAccountingEntry(input NewAccountingEntryInput) (*AccountingEntry, error) {
	if len(input.Lines) == 0 {
		return nil, ErrEmptyEntry
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, line := range input.Lines {
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, fmt.Errorf("%w: account %s", ErrNegativeAmount, line.AccountCode)
		}

		totalDebit = totalDebit.Add(line.Debit)
		totalCredit = totalCredit.Add(line.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return nil, fmt.Errorf("%w: debit %s, credit %s", ErrUnbalancedEntry, totalDebit, totalCredit)
	}

	kind := input.Kind
	if kind == "" {
		kind = EntryKindNormal
	}

	return &AccountingEntry{
		ID:               input.ID,
		CompanyRUT:       input.CompanyRUT,
		Date:             input.Date,
		Description:      input.Description,
		RefType:          input.RefType,
		RefID:            input.RefID,
		CounterpartyRUT:  input.CounterpartyRUT,
		CounterpartyName: input.CounterpartyName,
		DocType:          input.DocType,
		DocNumber:        input.DocNumber,
		Status:           EntryStatusPosted,
		Kind:             kind,
		Lines:            input.Lines,
		CreatedAt:        input.CreatedAt,
	}, nil
}

// TotalDebit sums the debit side of the entry.
func (e *AccountingEntry) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Debit)
	}

	return total
}

// TotalCredit sums the credit side of the entry.
func (e *AccountingEntry) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, line := range e.Lines {
		total = total.Add(line.Credit)
	}

	return total
}
