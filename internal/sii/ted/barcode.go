package ted

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/pdf417"

	"github.com/quimal/dteledger/internal/domain"
)

// PDF417 rendering parameters for printed documents.
const (
	barcodeSecurityLevel = 5
	barcodeWidth         = 600
	barcodeHeight        = 200
)

// EncodeBarcode renders a TED into the PDF417 barcode printed on the
// document, as a PNG image.
func EncodeBarcode(stamp *domain.TaxStamp) ([]byte, error) {
	code, err := pdf417.Encode(string(stamp.XML), barcodeSecurityLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: barcode encoding: %v", domain.ErrSigningFailure, err)
	}

	scaled, err := barcode.Scale(code, barcodeWidth, barcodeHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: barcode scaling: %v", domain.ErrSigningFailure, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("%w: barcode rendering: %v", domain.ErrSigningFailure, err)
	}

	return buf.Bytes(), nil
}
