package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/sii/caf"
)

// CAFUseCase handles folio authorization uploads.
type CAFUseCase struct {
	cafRepo CAFRepository
	idGen   IDGenerator
}

// NewCAFUseCase creates a new CAFUseCase.
func NewCAFUseCase(cafRepo CAFRepository, idGen IDGenerator) *CAFUseCase {
	return &CAFUseCase{
		cafRepo: cafRepo,
		idGen:   idGen,
	}
}

// Upload parses and stores an authorization file for the company. The parsed
// issuer must match the uploading company; authorizations never cross
// tenants.
func (uc *CAFUseCase) Upload(ctx context.Context, companyRUT string, raw []byte) (*domain.FolioAuthorization, error) {
	if companyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	auth, err := caf.Parse(raw)
	if err != nil {
		return nil, err
	}

	if auth.CompanyRUT != "" && auth.CompanyRUT != companyRUT {
		return nil, fmt.Errorf("%w: authorization issued to %s, uploaded by %s",
			domain.ErrCAFParse, auth.CompanyRUT, companyRUT)
	}

	auth.ID = uc.idGen.Generate()
	auth.CompanyRUT = companyRUT
	auth.CreatedAt = time.Now().UTC()

	if err := uc.cafRepo.Create(ctx, auth); err != nil {
		return nil, err
	}

	return auth, nil
}
