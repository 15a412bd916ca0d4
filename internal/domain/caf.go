package domain

import (
	"crypto/rsa"
	"time"
)

// FolioAuthorization is a parsed CAF: a government-issued grant of a
// contiguous folio range for one document type, carrying the private key that
// must sign every stamp consuming a folio from the range. Immutable once
// parsed; multiple authorizations may coexist per (company, document type).
type FolioAuthorization struct {
	CreatedAt  time.Time
	ID         string
	CompanyRUT string
	DocType    int
	FolioFrom  int64
	FolioTo    int64
	// Raw is the full authorization file as uploaded.
	Raw []byte
	// CAFBlock is the <CAF>...</CAF> element verbatim; it is embedded into
	// every signed digest and must never be re-encoded.
	CAFBlock []byte
	// Key is the embedded RSA signing key.
	Key *rsa.PrivateKey
}

// Covers reports whether the folio falls inside the inclusive range.
func (a *FolioAuthorization) Covers(folio int64) bool {
	return folio >= a.FolioFrom && folio <= a.FolioTo
}
