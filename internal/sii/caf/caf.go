// Package caf parses SII folio authorization files (CAF).
package caf

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/quimal/dteledger/internal/domain"
)

// authorization mirrors the relevant parts of the AUTORIZACION document.
type authorization struct {
	XMLName xml.Name `xml:"AUTORIZACION"`
	CAF     struct {
		DA struct {
			IssuerRUT string `xml:"RE"`
			DocType   int    `xml:"TD"`
			Range     struct {
				From int64 `xml:"D"`
				To   int64 `xml:"H"`
			} `xml:"RNG"`
		} `xml:"DA"`
	} `xml:"CAF"`
	PrivateKey string `xml:"RSASK"`
}

// Parse extracts the document type, folio range and embedded signing key from
// a raw CAF file. Every missing required field is a parse error, not a
// generic failure; callers branch on domain.ErrCAFParse.
func Parse(raw []byte) (*domain.FolioAuthorization, error) {
	var doc authorization
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCAFParse, err)
	}

	da := doc.CAF.DA

	if da.DocType == 0 {
		return nil, fmt.Errorf("%w: missing document type (TD)", domain.ErrCAFParse)
	}

	if da.Range.From == 0 || da.Range.To == 0 {
		return nil, fmt.Errorf("%w: missing folio range (RNG)", domain.ErrCAFParse)
	}

	if da.Range.From > da.Range.To {
		return nil, fmt.Errorf("%w: [%d, %d]", domain.ErrInvalidFolioRange, da.Range.From, da.Range.To)
	}

	if strings.TrimSpace(doc.PrivateKey) == "" {
		return nil, fmt.Errorf("%w: missing private key (RSASK)", domain.ErrCAFParse)
	}

	key, err := parsePrivateKey(doc.PrivateKey)
	if err != nil {
		return nil, err
	}

	block, err := cafBlock(raw)
	if err != nil {
		return nil, err
	}

	return &domain.FolioAuthorization{
		CompanyRUT: da.IssuerRUT,
		DocType:    da.DocType,
		FolioFrom:  da.Range.From,
		FolioTo:    da.Range.To,
		Raw:        raw,
		CAFBlock:   block,
		Key:        key,
	}, nil
}

// parsePrivateKey decodes the RSASK payload: a base64 key body that may or
// may not carry PEM armor lines around it.
func parsePrivateKey(payload string) (*rsa.PrivateKey, error) {
	var b strings.Builder
	for _, line := range strings.Split(payload, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-----") {
			continue
		}

		b.WriteString(line)
	}

	der, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: private key is not valid base64: %v", domain.ErrCAFParse, err)
	}

	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: embedded key is not RSA", domain.ErrCAFParse)
		}

		return rsaKey, nil
	}

	key, err := x509.ParsePKCS1PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse private key: %v", domain.ErrCAFParse, err)
	}

	return key, nil
}

// cafBlock slices the <CAF ...>...</CAF> element out of the raw file without
// re-encoding it. The block is embedded verbatim into signed digests, so any
// re-serialization would break signature verification downstream.
func cafBlock(raw []byte) ([]byte, error) {
	start := bytes.Index(raw, []byte("<CAF"))
	end := bytes.Index(raw, []byte("</CAF>"))

	if start < 0 || end < 0 || end < start {
		return nil, fmt.Errorf("%w: no CAF element", domain.ErrCAFParse)
	}

	return raw[start : end+len("</CAF>")], nil
}
