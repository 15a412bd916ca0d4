package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewAccountingEntry_Balance(t *testing.T) {
	debit, _ := DebitLine(AccountReceivables, decimal.NewFromInt(1190))
	creditNet, _ := CreditLine(AccountRevenue, decimal.NewFromInt(1000))
	creditVAT, _ := CreditLine(AccountVATDebit, decimal.NewFromInt(190))

	tests := []struct {
		name        string
		lines       []EntryLine
		expectedErr error
	}{
		{
			name:  "balanced entry",
			lines: []EntryLine{debit, creditNet, creditVAT},
		},
		{
			name:        "unbalanced entry",
			lines:       []EntryLine{debit, creditNet},
			expectedErr: ErrUnbalancedEntry,
		},
		{
			name:        "no lines",
			lines:       nil,
			expectedErr: ErrEmptyEntry,
		},
		{
			name: "negative amount smuggled past constructors",
			lines: []EntryLine{
				{AccountCode: "1105", Debit: decimal.NewFromInt(-10), Credit: decimal.Zero},
				{AccountCode: "4101", Debit: decimal.Zero, Credit: decimal.NewFromInt(-10)},
			},
			expectedErr: ErrNegativeAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := NewAccountingEntry(NewAccountingEntryInput{
				ID:         "01TEST",
				CompanyRUT: "76000000-K",
				Date:       time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
				Lines:      tt.lines,
			})

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
				}

				if entry != nil {
					t.Fatal("invalid entry must never be constructed")
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !entry.TotalDebit().Equal(entry.TotalCredit()) {
				t.Fatalf("constructed entry is unbalanced: debit %s credit %s",
					entry.TotalDebit(), entry.TotalCredit())
			}

			if entry.Status != EntryStatusPosted {
				t.Fatalf("expected status posted, got %s", entry.Status)
			}

			if entry.Kind != EntryKindNormal {
				t.Fatalf("expected default kind normal, got %s", entry.Kind)
			}
		})
	}
}

func TestDebitCreditLine_RejectNegative(t *testing.T) {
	if _, err := DebitLine(AccountExpenses, decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	if _, err := CreditLine(AccountRevenue, decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("expected ErrNegativeAmount, got %v", err)
	}

	line, err := DebitLine(AccountExpenses, decimal.Zero)
	if err != nil {
		t.Fatalf("zero amount must be allowed: %v", err)
	}

	if !line.Credit.IsZero() {
		t.Fatal("debit line must carry a zero credit")
	}
}
