// Package certs loads the company signing certificate used for SII envelopes.
package certs

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	pkcs12 "software.sslmate.com/src/go-pkcs12"

	"github.com/quimal/dteledger/internal/sii/xmldsig"
)

// LoadPKCS12 loads a signing certificate from a .p12/.pfx bundle, the format
// the SII hands out certificates in.
func LoadPKCS12(path, password string) (xmldsig.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return xmldsig.Certificate{}, fmt.Errorf("reading certificate bundle: %w", err)
	}

	key, leaf, err := pkcs12.Decode(data, password)
	if err != nil {
		return xmldsig.Certificate{}, fmt.Errorf("decoding certificate bundle: %w", err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return xmldsig.Certificate{}, fmt.Errorf("certificate key is %T, need RSA", key)
	}

	return xmldsig.Certificate{Key: rsaKey, Leaf: leaf}, nil
}

// LoadPEM loads a signing certificate from a PEM certificate/key pair.
func LoadPEM(certPath, keyPath string) (xmldsig.Certificate, error) {
	certData, err := os.ReadFile(certPath)
	if err != nil {
		return xmldsig.Certificate{}, fmt.Errorf("reading certificate: %w", err)
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return xmldsig.Certificate{}, fmt.Errorf("reading key: %w", err)
	}

	certBlock, _ := pem.Decode(certData)
	if certBlock == nil {
		return xmldsig.Certificate{}, fmt.Errorf("no PEM block in %s", certPath)
	}

	leaf, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return xmldsig.Certificate{}, fmt.Errorf("parsing certificate: %w", err)
	}

	keyBlock, _ := pem.Decode(keyData)
	if keyBlock == nil {
		return xmldsig.Certificate{}, fmt.Errorf("no PEM block in %s", keyPath)
	}

	key, err := parseKey(keyBlock.Bytes)
	if err != nil {
		return xmldsig.Certificate{}, err
	}

	return xmldsig.Certificate{Key: key, Leaf: leaf}, nil
}

func parseKey(der []byte) (*rsa.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("private key is %T, need RSA", parsed)
	}

	return key, nil
}
