package certs

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPEMPair(t *testing.T) (certPath, keyPath string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 1024)
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "Firma de Prueba"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("creating certificate: %v", err)
	}

	dir := t.TempDir()
	certPath = filepath.Join(dir, "cert.pem")
	keyPath = filepath.Join(dir, "key.pem")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	if err := os.WriteFile(certPath, certPEM, 0o600); err != nil {
		t.Fatalf("writing cert: %v", err)
	}

	if err := os.WriteFile(keyPath, keyPEM, 0o600); err != nil {
		t.Fatalf("writing key: %v", err)
	}

	return certPath, keyPath
}

func TestLoadPEM(t *testing.T) {
	certPath, keyPath := writeTestPEMPair(t)

	cert, err := LoadPEM(certPath, keyPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cert.Key == nil || cert.Leaf == nil {
		t.Fatal("expected key and leaf to be populated")
	}

	if cert.Leaf.Subject.CommonName != "Firma de Prueba" {
		t.Errorf("common name = %s", cert.Leaf.Subject.CommonName)
	}

	if cert.Key.PublicKey.N.Cmp(cert.Leaf.PublicKey.(*rsa.PublicKey).N) != 0 {
		t.Error("key does not match certificate")
	}
}

func TestLoadPEM_MissingFiles(t *testing.T) {
	if _, err := LoadPEM("/nonexistent/cert.pem", "/nonexistent/key.pem"); err == nil {
		t.Fatal("expected error for missing files")
	}
}

func TestLoadPEM_NotPEM(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pem")

	if err := os.WriteFile(bad, []byte("not pem at all"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := LoadPEM(bad, bad); err == nil {
		t.Fatal("expected error for non-PEM content")
	}
}

func TestLoadPKCS12_MissingFile(t *testing.T) {
	if _, err := LoadPKCS12("/nonexistent/cert.p12", "secret"); err == nil {
		t.Fatal("expected error for missing bundle")
	}
}
