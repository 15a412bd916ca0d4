// Package ted builds and signs the electronic tax stamp (TED).
//
// The digest (DD block) is a byte-exact external contract: field order, tag
// casing and the ISO-8859-1 encoding are mandated by the SII. It is assembled
// by hand instead of through an XML library because any re-encoding or
// attribute reordering invalidates the signature on the verifier's side.
package ted

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/quimal/dteledger/internal/domain"
)

// Text fields are capped per the SII DTE schema.
const (
	maxRecipientName = 40
	maxFirstItem     = 40
)

// DigestInput holds the critical invoice fields covered by the stamp.
type DigestInput struct {
	IssuedAt      time.Time
	SignedAt      time.Time
	IssuerRUT     string
	RecipientRUT  string
	RecipientName string
	FirstItem     string
	DocType       int
	Folio         int64
	Total         decimal.Decimal
	CAFBlock      []byte
}

func (in *DigestInput) validate() error {
	switch {
	case in.IssuerRUT == "":
		return fmt.Errorf("%w: missing issuer RUT", domain.ErrInvalidInvoice)
	case in.DocType <= 0:
		return fmt.Errorf("%w: missing document type", domain.ErrInvalidInvoice)
	case in.Folio <= 0:
		return fmt.Errorf("%w: missing folio", domain.ErrInvalidInvoice)
	case in.IssuedAt.IsZero():
		return fmt.Errorf("%w: missing emission date", domain.ErrInvalidInvoice)
	case in.RecipientRUT == "":
		return fmt.Errorf("%w: missing recipient RUT", domain.ErrInvalidInvoice)
	case len(in.CAFBlock) == 0:
		return fmt.Errorf("%w: missing CAF block", domain.ErrInvalidInvoice)
	case in.SignedAt.IsZero():
		return fmt.Errorf("%w: missing signing timestamp", domain.ErrInvalidInvoice)
	}

	return nil
}

// BuildDigest assembles the DD block in the mandated field order and encodes
// it to ISO-8859-1. The amount carries no thousands separators and uses "."
// as the decimal point.
func BuildDigest(in DigestInput) ([]byte, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<DD>")
	b.WriteString("<RE>" + escape(in.IssuerRUT) + "</RE>")
	fmt.Fprintf(&b, "<TD>%d</TD>", in.DocType)
	fmt.Fprintf(&b, "<F>%d</F>", in.Folio)
	b.WriteString("<FE>" + in.IssuedAt.Format("2006-01-02") + "</FE>")
	b.WriteString("<RR>" + escape(in.RecipientRUT) + "</RR>")
	b.WriteString("<RSR>" + escape(truncate(in.RecipientName, maxRecipientName)) + "</RSR>")
	b.WriteString("<MNT>" + in.Total.String() + "</MNT>")
	b.WriteString("<IT1>" + escape(truncate(in.FirstItem, maxFirstItem)) + "</IT1>")
	b.Write(in.CAFBlock)
	b.WriteString("<TSTED>" + in.SignedAt.Format("2006-01-02T15:04:05") + "</TSTED>")
	b.WriteString("</DD>")

	encoded, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: digest is not representable in ISO-8859-1: %v", domain.ErrSigningFailure, err)
	}

	return encoded, nil
}

// escape applies the minimal XML escaping the SII schema requires inside
// text nodes. The exact three entities matter; over-escaping changes bytes.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")

	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}
