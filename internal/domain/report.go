package domain

import (
	"github.com/shopspring/decimal"
)

// TaxStamp is the TED: the canonical digest of an emitted document plus its
// signature, rendered as the fixed XML shape the SII verifies. Computed fresh
// per emission and embedded into the outbound document; never stored alone.
type TaxStamp struct {
	// Digest is the signed DD block, ISO-8859-1 encoded.
	Digest []byte
	// Signature is the base64 RSA-SHA1 signature over Digest.
	Signature string
	// XML is the complete <TED> element.
	XML []byte
}

// TaxPeriodReport is the monthly VAT (F29) aggregation for one company and
// period. EvidenceIDs lists every entry that contributed to the totals so the
// figures are always traceable back to source postings.
type TaxPeriodReport struct {
	CompanyRUT       string          `json:"company_rut"`
	Period           string          `json:"period"`
	SalesTaxable     decimal.Decimal `json:"sales_taxable"`
	SalesExempt      decimal.Decimal `json:"sales_exempt"`
	PurchasesTaxable decimal.Decimal `json:"purchases_taxable"`
	PurchasesExempt  decimal.Decimal `json:"purchases_exempt"`
	VATDebit         decimal.Decimal `json:"vat_debit"`
	VATCredit        decimal.Decimal `json:"vat_credit"`
	VATPayable       decimal.Decimal `json:"vat_payable"`
	EvidenceIDs      []string        `json:"evidence_ids"`
}
