package ted

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"fmt"

	"github.com/quimal/dteledger/internal/domain"
)

// Sign signs the ISO-8859-1 digest bytes with the authorization's private key
// using the algorithm mandated by the tax authority (RSA over SHA-1).
func Sign(digest []byte, key *rsa.PrivateKey) (string, error) {
	if key == nil {
		return "", fmt.Errorf("%w: no signing key", domain.ErrSigningFailure)
	}

	sum := sha1.Sum(digest)

	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, sum[:])
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSigningFailure, err)
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// Build produces the complete tax stamp for an emission: the canonical digest
// plus its signature wrapped in the fixed TED shape. Computed fresh per
// emission, never cached.
func Build(in DigestInput, key *rsa.PrivateKey) (*domain.TaxStamp, error) {
	digest, err := BuildDigest(in)
	if err != nil {
		return nil, err
	}

	sig, err := Sign(digest, key)
	if err != nil {
		return nil, err
	}

	xml := make([]byte, 0, len(digest)+len(sig)+64)
	xml = append(xml, []byte(`<TED version="1.0">`)...)
	xml = append(xml, digest...)
	xml = append(xml, []byte(`<FRMT algoritmo="SHA1withRSA">`+sig+`</FRMT>`)...)
	xml = append(xml, []byte(`</TED>`)...)

	return &domain.TaxStamp{
		Digest:    digest,
		Signature: sig,
		XML:       xml,
	}, nil
}
