// Package xmldsig produces enveloped XML digital signatures in the profile
// the SII accepts: SHA-1 digests, RSA-SHA1 signatures, and ISO-8859-1 output.
//
// The signature block is assembled byte-by-byte on purpose. The counterparty
// verifies the serialized bytes, so tag order, casing and whitespace are part
// of the contract; a generic XML encoder would normalize them.
package xmldsig

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/quimal/dteledger/internal/domain"
)

// Certificate is the signing identity: an RSA key pair plus its public
// certificate, loaded by the certificate loader collaborator.
type Certificate struct {
	Key  *rsa.PrivateKey
	Leaf *x509.Certificate
}

// Sign inserts an enveloped signature into the document and serializes the
// result in ISO-8859-1. referenceID names the signed element ("" signs the
// whole document). Any underlying failure is wrapped as a signing failure;
// partial output is never returned.
func Sign(doc []byte, referenceID string, cert Certificate) ([]byte, error) {
	if cert.Key == nil || cert.Leaf == nil {
		return nil, fmt.Errorf("%w: incomplete signing identity", domain.ErrSigningFailure)
	}

	latin, err := charmap.ISO8859_1.NewEncoder().Bytes(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: document is not representable in ISO-8859-1: %v", domain.ErrSigningFailure, err)
	}

	digest := sha1.Sum(latin)
	signedInfo := buildSignedInfo(referenceID, base64.StdEncoding.EncodeToString(digest[:]))

	signedInfoSum := sha1.Sum([]byte(signedInfo))

	sig, err := rsa.SignPKCS1v15(rand.Reader, cert.Key, crypto.SHA1, signedInfoSum[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
	}

	signature := buildSignature(signedInfo, base64.StdEncoding.EncodeToString(sig), cert)

	signed, err := envelope(latin, []byte(signature))
	if err != nil {
		return nil, err
	}

	return signed, nil
}

func buildSignedInfo(referenceID, digestValue string) string {
	uri := ""
	if referenceID != "" {
		uri = "#" + referenceID
	}

	var b strings.Builder
	b.WriteString(`<SignedInfo xmlns="http://www.w3.org/2000/09/xmldsig#">`)
	b.WriteString(`<CanonicalizationMethod Algorithm="http://www.w3.org/TR/2001/REC-xml-c14n-20010315"/>`)
	b.WriteString(`<SignatureMethod Algorithm="http://www.w3.org/2000/09/xmldsig#rsa-sha1"/>`)
	b.WriteString(`<Reference URI="` + uri + `">`)
	b.WriteString(`<Transforms>`)
	b.WriteString(`<Transform Algorithm="http://www.w3.org/2000/09/xmldsig#enveloped-signature"/>`)
	b.WriteString(`</Transforms>`)
	b.WriteString(`<DigestMethod Algorithm="http://www.w3.org/2000/09/xmldsig#sha1"/>`)
	b.WriteString(`<DigestValue>` + digestValue + `</DigestValue>`)
	b.WriteString(`</Reference>`)
	b.WriteString(`</SignedInfo>`)

	return b.String()
}

func buildSignature(signedInfo, signatureValue string, cert Certificate) string {
	pub := &cert.Key.PublicKey

	var b strings.Builder
	b.WriteString(`<Signature xmlns="http://www.w3.org/2000/09/xmldsig#">`)
	b.WriteString(signedInfo)
	b.WriteString(`<SignatureValue>` + signatureValue + `</SignatureValue>`)
	b.WriteString(`<KeyInfo>`)
	b.WriteString(`<KeyValue>`)
	b.WriteString(`<RSAKeyValue>`)
	b.WriteString(`<Modulus>` + base64.StdEncoding.EncodeToString(pub.N.Bytes()) + `</Modulus>`)
	b.WriteString(`<Exponent>` + base64.StdEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()) + `</Exponent>`)
	b.WriteString(`</RSAKeyValue>`)
	b.WriteString(`</KeyValue>`)
	b.WriteString(`<X509Data>`)
	b.WriteString(`<X509Certificate>` + base64.StdEncoding.EncodeToString(cert.Leaf.Raw) + `</X509Certificate>`)
	b.WriteString(`</X509Data>`)
	b.WriteString(`</KeyInfo>`)
	b.WriteString(`</Signature>`)

	return b.String()
}

// envelope inserts the signature element immediately before the root
// element's closing tag. The signature is pure ASCII, so insertion does not
// disturb the ISO-8859-1 encoding of the document.
func envelope(doc, signature []byte) ([]byte, error) {
	idx := bytes.LastIndex(doc, []byte("</"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: document has no closing root element", domain.ErrSigningFailure)
	}

	out := make([]byte, 0, len(doc)+len(signature))
	out = append(out, doc[:idx]...)
	out = append(out, signature...)
	out = append(out, doc[idx:]...)

	return out, nil
}
