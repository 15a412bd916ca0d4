package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/usecase"
)

// InvoiceRequest carries the invoice facts for posting and stamping.
type InvoiceRequest struct {
	Direction        string          `json:"direction"`
	IssuerRUT        string          `json:"issuer_rut"`
	CounterpartyRUT  string          `json:"counterparty_rut"`
	CounterpartyName string          `json:"counterparty_name"`
	FirstItem        string          `json:"first_item,omitempty"`
	DocType          int             `json:"doc_type"`
	Folio            int64           `json:"folio"`
	Net              decimal.Decimal `json:"net"`
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	FixedAsset       decimal.Decimal `json:"fixed_asset,omitempty"`
	CommonUseVAT     decimal.Decimal `json:"common_use_vat,omitempty"`
	IssuedAt         time.Time       `json:"issued_at"`
}

// ToDomain converts to the domain invoice, scoped to the request's company.
func (r *InvoiceRequest) ToDomain(companyRUT string) domain.Invoice {
	return domain.Invoice{
		CompanyRUT:       companyRUT,
		Direction:        domain.Direction(r.Direction),
		IssuerRUT:        r.IssuerRUT,
		CounterpartyRUT:  r.CounterpartyRUT,
		CounterpartyName: r.CounterpartyName,
		FirstItem:        r.FirstItem,
		DocType:          r.DocType,
		Folio:            r.Folio,
		Net:              r.Net,
		Tax:              r.Tax,
		Total:            r.Total,
		FixedAsset:       r.FixedAsset,
		CommonUseVAT:     r.CommonUseVAT,
		IssuedAt:         r.IssuedAt,
	}
}

// ClosePeriodRequest carries the closure metadata.
type ClosePeriodRequest struct {
	ClosedBy string `json:"closed_by"`
}

// RecordRuleRequest represents a classification correction.
type RecordRuleRequest struct {
	Pattern     string  `json:"pattern"`
	AccountCode string  `json:"account_code"`
	AccountName string  `json:"account_name"`
	Confidence  float64 `json:"confidence"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordRuleRequest) ToUseCaseInput(companyRUT string) usecase.RecordCorrectionInput {
	return usecase.RecordCorrectionInput{
		CompanyRUT:  companyRUT,
		Pattern:     r.Pattern,
		AccountCode: r.AccountCode,
		AccountName: r.AccountName,
		Confidence:  r.Confidence,
	}
}

// SignSeedRequest carries the authentication seed to sign.
type SignSeedRequest struct {
	Seed string `json:"seed"`
}

// SignEnvelopeRequest carries an outbound envelope to sign.
type SignEnvelopeRequest struct {
	Envelope    string `json:"envelope"`
	ReferenceID string `json:"reference_id"`
}

// TokenRequest asks for a company-scoped API token.
type TokenRequest struct {
	CompanyRUT string `json:"company_rut"`
	Subject    string `json:"subject"`
}
