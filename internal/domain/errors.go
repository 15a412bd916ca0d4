package domain

import "errors"

var (
	// Entry errors
	ErrUnbalancedEntry = errors.New("entry debits and credits do not balance")
	ErrNegativeAmount  = errors.New("line amount must not be negative")
	ErrEmptyEntry      = errors.New("entry must have at least one line")
	ErrEntryNotFound   = errors.New("entry not found")

	// Invoice validation errors
	ErrMissingAmount   = errors.New("invoice is missing a required amount")
	ErrNegativeExempt  = errors.New("exempt amount is negative")
	ErrInvalidVATSplit = errors.New("common-use VAT exceeds total VAT")
	ErrInvalidInvoice  = errors.New("invalid invoice")

	// Period errors
	ErrPeriodClosed        = errors.New("accounting period is closed")
	ErrPeriodAlreadyClosed = errors.New("accounting period is already closed")
	ErrInvalidPeriod       = errors.New("invalid accounting period")

	// Folio authorization errors
	ErrFolioNotAuthorized = errors.New("no folio authorization covers this folio")
	ErrCAFParse           = errors.New("malformed folio authorization file")
	ErrInvalidFolioRange  = errors.New("folio range start exceeds end")

	// Signing errors
	ErrSigningFailure = errors.New("document signing failed")

	// Tenant errors
	ErrMissingCompany = errors.New("company identity missing from request context")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
