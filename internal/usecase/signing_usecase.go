package usecase

import (
	"context"
	"fmt"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/sii/xmldsig"
)

// SigningUseCase exposes the enveloped-signature primitive for the two places
// the SII requires it: the authentication seed and outbound envelopes.
type SigningUseCase struct {
	cert xmldsig.Certificate
}

// NewSigningUseCase creates a new SigningUseCase.
func NewSigningUseCase(cert xmldsig.Certificate) *SigningUseCase {
	return &SigningUseCase{cert: cert}
}

// SignSeed wraps the session seed obtained during authentication and signs
// the wrapper. The signed document is what the token endpoint expects.
func (uc *SigningUseCase) SignSeed(_ context.Context, seed string) ([]byte, error) {
	if seed == "" {
		return nil, fmt.Errorf("%w: empty seed", domain.ErrSigningFailure)
	}

	doc := []byte(`<getToken><item><Semilla>` + seed + `</Semilla></item></getToken>`)

	return xmldsig.Sign(doc, "", uc.cert)
}

// SignEnvelope signs a full outbound document envelope, referencing the
// element named by referenceID.
func (uc *SigningUseCase) SignEnvelope(_ context.Context, envelope []byte, referenceID string) ([]byte, error) {
	if len(envelope) == 0 {
		return nil, fmt.Errorf("%w: empty envelope", domain.ErrSigningFailure)
	}

	return xmldsig.Sign(envelope, referenceID, uc.cert)
}
