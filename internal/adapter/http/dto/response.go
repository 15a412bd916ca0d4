package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quimal/dteledger/internal/domain"
)

// EntryLineResponse represents one debit or credit line.
type EntryLineResponse struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// EntryResponse represents an accounting entry in API responses.
type EntryResponse struct {
	ID               string              `json:"id"`
	Date             time.Time           `json:"date"`
	Description      string              `json:"description"`
	RefType          string              `json:"ref_type"`
	RefID            string              `json:"ref_id"`
	CounterpartyRUT  string              `json:"counterparty_rut,omitempty"`
	CounterpartyName string              `json:"counterparty_name,omitempty"`
	DocType          int                 `json:"doc_type,omitempty"`
	DocNumber        int64               `json:"doc_number,omitempty"`
	Status           string              `json:"status"`
	Kind             string              `json:"kind"`
	Lines            []EntryLineResponse `json:"lines"`
	TotalDebit       decimal.Decimal     `json:"total_debit"`
	TotalCredit      decimal.Decimal     `json:"total_credit"`
	CreatedAt        time.Time           `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.AccountingEntry) *EntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		lines[i] = EntryLineResponse{
			AccountCode: line.AccountCode,
			AccountName: line.AccountName,
			Debit:       line.Debit,
			Credit:      line.Credit,
		}
	}

	return &EntryResponse{
		ID:               e.ID,
		Date:             e.Date,
		Description:      e.Description,
		RefType:          e.RefType,
		RefID:            e.RefID,
		CounterpartyRUT:  e.CounterpartyRUT,
		CounterpartyName: e.CounterpartyName,
		DocType:          e.DocType,
		DocNumber:        e.DocNumber,
		Status:           string(e.Status),
		Kind:             string(e.Kind),
		Lines:            lines,
		TotalDebit:       e.TotalDebit(),
		TotalCredit:      e.TotalCredit(),
		CreatedAt:        e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.AccountingEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// ClosedPeriodResponse represents a period closure in API responses.
type ClosedPeriodResponse struct {
	ID         string          `json:"id"`
	Period     string          `json:"period"`
	ClosedBy   string          `json:"closed_by"`
	ClosedAt   time.Time       `json:"closed_at"`
	ProfitLoss decimal.Decimal `json:"profit_loss"`
}

// ClosedPeriodFromDomain converts a domain closure to a response.
func ClosedPeriodFromDomain(p *domain.ClosedPeriod) *ClosedPeriodResponse {
	return &ClosedPeriodResponse{
		ID:         p.ID,
		Period:     p.Period.String(),
		ClosedBy:   p.ClosedBy,
		ClosedAt:   p.ClosedAt,
		ProfitLoss: p.ProfitLoss,
	}
}

// CAFResponse represents a stored folio authorization. The key never leaves
// the server.
type CAFResponse struct {
	ID        string    `json:"id"`
	DocType   int       `json:"doc_type"`
	FolioFrom int64     `json:"folio_from"`
	FolioTo   int64     `json:"folio_to"`
	CreatedAt time.Time `json:"created_at"`
}

// CAFFromDomain converts a domain authorization to a response.
func CAFFromDomain(a *domain.FolioAuthorization) *CAFResponse {
	return &CAFResponse{
		ID:        a.ID,
		DocType:   a.DocType,
		FolioFrom: a.FolioFrom,
		FolioTo:   a.FolioTo,
		CreatedAt: a.CreatedAt,
	}
}

// RuleResponse represents a learned rule in API responses.
type RuleResponse struct {
	ID          string    `json:"id"`
	Pattern     string    `json:"pattern"`
	AccountCode string    `json:"account_code"`
	AccountName string    `json:"account_name"`
	Confidence  float64   `json:"confidence"`
	CreatedAt   time.Time `json:"created_at"`
}

// RuleFromDomain converts a domain rule to a response.
func RuleFromDomain(r *domain.LearnedRule) *RuleResponse {
	return &RuleResponse{
		ID:          r.ID,
		Pattern:     r.Pattern,
		AccountCode: r.AccountCode,
		AccountName: r.AccountName,
		Confidence:  r.Confidence,
		CreatedAt:   r.CreatedAt,
	}
}

// RulesFromDomain converts domain rules to responses.
func RulesFromDomain(rules []*domain.LearnedRule) []*RuleResponse {
	result := make([]*RuleResponse, len(rules))
	for i, r := range rules {
		result[i] = RuleFromDomain(r)
	}
	return result
}

// StampResponse represents an issued tax stamp. The TED XML is returned
// verbatim; re-serializing it would invalidate the signature.
type StampResponse struct {
	Signature string `json:"signature"`
	TEDXML    string `json:"ted_xml"`
}

// StampFromDomain converts a domain stamp to a response.
func StampFromDomain(s *domain.TaxStamp) *StampResponse {
	return &StampResponse{
		Signature: s.Signature,
		TEDXML:    string(s.XML),
	}
}

// SignedDocumentResponse carries a signed XML document.
type SignedDocumentResponse struct {
	Document string `json:"document"`
}

// TokenResponse carries an issued API token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
