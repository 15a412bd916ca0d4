package xmldsig

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"regexp"
	"testing"

	"github.com/quimal/dteledger/internal/domain"
)

const (
	testKeyB64 = "MIICXQIBAAKBgQDddjF8Jy/pv5LrJbuYCFXyUvwEj05PphZjkfRpn42rSekZMOE1" +
		"phk7X61W2U/D/ibYiZloIVvwogJS8BpJXOVoEyF4ZrcA2KpCrTeFBpPHqQh2HpcD" +
		"ILTFxMm3yiUpmVxtjWlJIe/yw3iFY9pHCeAZap5TZ+Xondg2vdMYMgQIawIDAQAB" +
		"AoGBAJ/5WgOyFwVGEq30Is/O7a7PTSdKEaqtcizY6PJHhEHAcTZ2PajQZBekpIVB" +
		"E0Kj25G9y+gReOWZUg5xTLvD9B3ifyXcO+KFqRnJjWqT8KIyifBgTCwlg+j1Lsf7" +
		"5Xrn5ikVjno7f2xx9NO9NLcfwE4Rd47S+cfcnWQT++Y/I7OpAkEA+yNhbzmTosUC" +
		"7akO1wv0OLi8Hr6DBJrk1W4hyL1rqR/0QUo6HLSjnsiOPVZnTqOz1ZfdUqFLQ2D4" +
		"sOkGerlHdwJBAOG/vQrJGf2LkqHNi7S1CbVM78xO/SJ0Zh4eU/sSCdIkiNnfWQdU" +
		"6K8WXWsXbx8cjBMRJ+cjXUbiM1HdzxmQa60CQGKLO4xdV2UjUUbYc45GjopDUu3t" +
		"a5O/A9QL5w3R5hDzDPEhozPoXdvMbqP654agDczeTmZCDDpgLrWceoJleXkCQCOJ" +
		"uKvS/rlwWHQKVJztBws4gmOKZ8Udx9mj8pqKu2sOf1C1HWHPFxZBEhHCzaZ7Kv3x" +
		"bHOxmISJJYUUwv6GQr0CQQCoFkWdLvz2JbxqoKokanUIFb9EwHFQ/gaJcjYNrvQ/" +
		"ZY83jO0ib9DW3xbwrbvBPlxLQENOt3miW2OUp9RkKPhF"

	testCertB64 = "MIICSDCCAbGgAwIBAgIURiFqJ5OD5tcYbG8IAA+Vv9siXbwwDQYJKoZIhvcNAQELBQAwNjEYMBYG" +
		"A1UEAwwPRmlybWEgZGUgUHJ1ZWJhMRowGAYDVQQKDBFFbXByZXNhIGRlIFBydWViYTAeFw0yNjA4" +
		"MzAyMzA3MzJaFw0zNjA4MjcyMzA3MzJaMDYxGDAWBgNVBAMMD0Zpcm1hIGRlIFBydWViYTEaMBgG" +
		"A1UECgwRRW1wcmVzYSBkZSBQcnVlYmEwgZ8wDQYJKoZIhvcNAQEBBQADgY0AMIGJAoGBAN12MXwn" +
		"L+m/kuslu5gIVfJS/ASPTk+mFmOR9GmfjatJ6Rkw4TWmGTtfrVbZT8P+JtiJmWghW/CiAlLwGklc" +
		"5WgTIXhmtwDYqkKtN4UGk8epCHYelwMgtMXEybfKJSmZXG2NaUkh7/LDeIVj2kcJ4BlqnlNn5eid" +
		"2Da90xgyBAhrAgMBAAGjUzBRMB0GA1UdDgQWBBTI55Bz6BwnfoXhhGCFEhwrG2XMIDAfBgNVHSME" +
		"GDAWgBTI55Bz6BwnfoXhhGCFEhwrG2XMIDAPBgNVHRMBAf8EBTADAQH/MA0GCSqGSIb3DQEBCwUA" +
		"A4GBAAyDNgaTWOvAy5n6wF6XkawdIekml4WYM0W+NFZTYyj4aZwhAB/WNjS8ORh5wrtbDF3TkHu6" +
		"uUMR7RqEllX3MRaVJcXW5cCvjSYHQnpESjOKtPRAAPC3dzKm3ZE5SVo18YWUCclcwkgmUJxbd/X4" +
		"W/w21LP6mF/yre+luIi8/iOm"
)

func testCert(t *testing.T) Certificate {
	t.Helper()

	keyDER, err := base64.StdEncoding.DecodeString(testKeyB64)
	if err != nil {
		t.Fatalf("decoding test key: %v", err)
	}

	key, err := x509.ParsePKCS1PrivateKey(keyDER)
	if err != nil {
		t.Fatalf("parsing test key: %v", err)
	}

	certDER, err := base64.StdEncoding.DecodeString(testCertB64)
	if err != nil {
		t.Fatalf("decoding test certificate: %v", err)
	}

	leaf, err := x509.ParseCertificate(certDER)
	if err != nil {
		t.Fatalf("parsing test certificate: %v", err)
	}

	return Certificate{Key: key, Leaf: leaf}
}

const seedDoc = `<getToken><item><Semilla>012345678901</Semilla></item></getToken>`

func TestSign_StructureAndPlacement(t *testing.T) {
	cert := testCert(t)

	signed, err := Sign([]byte(seedDoc), "", cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The signature is enveloped: inserted before the root's closing tag.
	if !bytes.HasSuffix(signed, []byte(`</Signature></getToken>`)) {
		t.Fatalf("signature not enveloped before root close: %s", signed[len(signed)-60:])
	}

	for _, fragment := range []string{
		`<Signature xmlns="http://www.w3.org/2000/09/xmldsig#">`,
		`<CanonicalizationMethod Algorithm="http://www.w3.org/TR/2001/REC-xml-c14n-20010315"/>`,
		`<SignatureMethod Algorithm="http://www.w3.org/2000/09/xmldsig#rsa-sha1"/>`,
		`<Transform Algorithm="http://www.w3.org/2000/09/xmldsig#enveloped-signature"/>`,
		`<DigestMethod Algorithm="http://www.w3.org/2000/09/xmldsig#sha1"/>`,
		`<Reference URI="">`,
		`<RSAKeyValue>`,
		`<X509Certificate>` + testCertB64,
	} {
		if !bytes.Contains(signed, []byte(fragment)) {
			t.Fatalf("signed document missing %q", fragment)
		}
	}
}

func TestSign_ReferenceID(t *testing.T) {
	signed, err := Sign([]byte(`<EnvioDTE ID="SetDoc"><dato/></EnvioDTE>`), "SetDoc", testCert(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Contains(signed, []byte(`<Reference URI="#SetDoc">`)) {
		t.Fatal("expected reference to the named element")
	}
}

func TestSign_DigestAndSignatureVerify(t *testing.T) {
	cert := testCert(t)

	signed, err := Sign([]byte(seedDoc), "", cert)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The digest must cover the document as serialized, before the signature
	// was inserted.
	wantDigest := sha1.Sum([]byte(seedDoc))
	digestRe := regexp.MustCompile(`<DigestValue>([^<]+)</DigestValue>`)

	m := digestRe.FindSubmatch(signed)
	if m == nil {
		t.Fatal("no DigestValue in signed document")
	}

	gotDigest, err := base64.StdEncoding.DecodeString(string(m[1]))
	if err != nil {
		t.Fatalf("digest is not base64: %v", err)
	}

	if !bytes.Equal(gotDigest, wantDigest[:]) {
		t.Fatal("digest does not match the pre-signature document")
	}

	// The signature must verify over the SignedInfo block exactly as emitted.
	signedInfoRe := regexp.MustCompile(`<SignedInfo.*</SignedInfo>`)

	signedInfo := signedInfoRe.Find(signed)
	if signedInfo == nil {
		t.Fatal("no SignedInfo in signed document")
	}

	sigRe := regexp.MustCompile(`<SignatureValue>([^<]+)</SignatureValue>`)

	sm := sigRe.FindSubmatch(signed)
	if sm == nil {
		t.Fatal("no SignatureValue in signed document")
	}

	sig, err := base64.StdEncoding.DecodeString(string(sm[1]))
	if err != nil {
		t.Fatalf("signature is not base64: %v", err)
	}

	sum := sha1.Sum(signedInfo)
	if err := rsa.VerifyPKCS1v15(&cert.Key.PublicKey, crypto.SHA1, sum[:], sig); err != nil {
		t.Fatalf("signature does not verify: %v", err)
	}
}

func TestSign_Latin1Output(t *testing.T) {
	signed, err := Sign([]byte(`<doc><nombre>Muñoz</nombre></doc>`), "", testCert(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Contains(signed, []byte{0xF1}) {
		t.Fatal("expected ISO-8859-1 byte for ñ")
	}

	if bytes.Contains(signed, []byte{0xC3}) {
		t.Fatal("output must not contain UTF-8 sequences")
	}
}

func TestSign_Failures(t *testing.T) {
	cert := testCert(t)

	if _, err := Sign([]byte(seedDoc), "", Certificate{}); !errors.Is(err, domain.ErrSigningFailure) {
		t.Fatalf("expected ErrSigningFailure for missing identity, got %v", err)
	}

	if _, err := Sign([]byte(`no closing tag`), "", cert); !errors.Is(err, domain.ErrSigningFailure) {
		t.Fatalf("expected ErrSigningFailure for malformed document, got %v", err)
	}
}
