package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether an invoice is a sale or a purchase from the
// company's point of view.
type Direction string

const (
	DirectionSale     Direction = "sale"
	DirectionPurchase Direction = "purchase"
)

// Invoice is the "invoice created" fact delivered by a collaborator. Amounts
// follow SII conventions: Total = Net + Tax + exempt portion, where the exempt
// portion is derived, never carried on the wire.
type Invoice struct {
	IssuedAt         time.Time
	CompanyRUT       string
	IssuerRUT        string
	CounterpartyRUT  string
	CounterpartyName string
	FirstItem        string
	DocType          int
	Folio            int64
	Net              decimal.Decimal
	Tax              decimal.Decimal
	Total            decimal.Decimal
	FixedAsset       decimal.Decimal
	CommonUseVAT     decimal.Decimal
	Direction        Direction
}

// Validate rejects invoices whose monetary fields cannot produce a well-formed
// entry. Validation happens before any line is built, so a bad invoice never
// reaches the ledger.
func (i *Invoice) Validate() error {
	if i.CompanyRUT == "" {
		return fmt.Errorf("%w: missing company RUT", ErrInvalidInvoice)
	}

	if i.DocType <= 0 {
		return fmt.Errorf("%w: missing document type", ErrInvalidInvoice)
	}

	if i.Folio <= 0 {
		return fmt.Errorf("%w: missing folio", ErrInvalidInvoice)
	}

	if i.Direction != DirectionSale && i.Direction != DirectionPurchase {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidInvoice, i.Direction)
	}

	if i.IssuedAt.IsZero() {
		return fmt.Errorf("%w: missing issue date", ErrInvalidInvoice)
	}

	for _, amount := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"net", i.Net},
		{"tax", i.Tax},
		{"total", i.Total},
		{"fixed asset", i.FixedAsset},
		{"common-use VAT", i.CommonUseVAT},
	} {
		if amount.value.IsNegative() {
			return fmt.Errorf("%w: %s is negative", ErrMissingAmount, amount.name)
		}
	}

	if i.Total.IsZero() {
		return fmt.Errorf("%w: total is zero", ErrMissingAmount)
	}

	if i.ExemptAmount().IsNegative() {
		return fmt.Errorf("%w: total %s < net %s + tax %s", ErrNegativeExempt, i.Total, i.Net, i.Tax)
	}

	if i.CommonUseVAT.GreaterThan(i.Tax) {
		return fmt.Errorf("%w: common-use %s > tax %s", ErrInvalidVATSplit, i.CommonUseVAT, i.Tax)
	}

	if i.FixedAsset.GreaterThan(i.Net) {
		return fmt.Errorf("%w: fixed asset %s > net %s", ErrInvalidInvoice, i.FixedAsset, i.Net)
	}

	return nil
}

// ExemptAmount derives the exempt portion of the invoice.
func (i *Invoice) ExemptAmount() decimal.Decimal {
	return i.Total.Sub(i.Net).Sub(i.Tax)
}

// ClassificationKey builds the text the learned-rule matcher runs against.
func (i *Invoice) ClassificationKey() string {
	return fmt.Sprintf("%d|%d|%s|%s", i.DocType, i.Folio, i.IssuerRUT, i.CounterpartyName)
}
