package main

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/quimal/dteledger/internal/infrastructure/config"
)

func TestLoadCertificate_NoneConfigured(t *testing.T) {
	cfg := &config.Config{}

	if _, ok := loadCertificate(cfg, zerolog.Nop()); ok {
		t.Fatal("expected no certificate when none is configured")
	}
}

func TestLoadCertificate_PEMPairRequired(t *testing.T) {
	// A cert path without a key path must not enable signing.
	cfg := &config.Config{CertPEMPath: "/some/cert.pem"}

	if _, ok := loadCertificate(cfg, zerolog.Nop()); ok {
		t.Fatal("expected no certificate without a key path")
	}
}
