package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/infrastructure/metrics"
	"github.com/quimal/dteledger/internal/sii/ted"
)

// StampUseCase runs the emission pipeline: folio authorization lookup,
// canonical digest, signature, barcode.
type StampUseCase struct {
	cafRepo     CAFRepository
	idempotency IdempotencyStore
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewStampUseCase creates a new StampUseCase. idempotency and metrics may be nil.
func NewStampUseCase(cafRepo CAFRepository, idempotency IdempotencyStore, m *metrics.Metrics) *StampUseCase {
	return &StampUseCase{
		cafRepo:     cafRepo,
		idempotency: idempotency,
		metrics:     m,
		now:         time.Now,
	}
}

// FindActiveForFolio returns the first stored authorization for the company
// and document type whose range contains the folio. A missing authorization
// is a blocking precondition for emission, surfaced as a distinct error,
// never a fallback to an unsigned document.
func (uc *StampUseCase) FindActiveForFolio(ctx context.Context, companyRUT string, docType int, folio int64) (*domain.FolioAuthorization, error) {
	auths, err := uc.cafRepo.ListByDocType(ctx, companyRUT, docType)
	if err != nil {
		return nil, err
	}

	for _, auth := range auths {
		if auth.Covers(folio) {
			return auth, nil
		}
	}

	return nil, fmt.Errorf("%w: company %s type %d folio %d", domain.ErrFolioNotAuthorized, companyRUT, docType, folio)
}

// IssueStamp computes a fresh tax stamp for the invoice. Re-submission of the
// same (company, type, folio) within the idempotency window returns the
// original stamp instead of consuming the folio twice.
func (uc *StampUseCase) IssueStamp(ctx context.Context, invoice domain.Invoice) (*domain.TaxStamp, error) {
	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	auth, err := uc.FindActiveForFolio(ctx, invoice.CompanyRUT, invoice.DocType, invoice.Folio)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("stamp:%s:%d:%d", invoice.CompanyRUT, invoice.DocType, invoice.Folio)

	if uc.idempotency != nil {
		exists, previous, err := uc.idempotency.CheckAndSet(ctx, key, nil, stampIdempotencyTTL)
		if err != nil {
			return nil, err
		}

		if exists {
			var stamp domain.TaxStamp
			if err := json.Unmarshal(previous, &stamp); err == nil && len(stamp.XML) > 0 {
				if uc.metrics != nil {
					uc.metrics.StampDuplicates.Inc()
				}
				return &stamp, nil
			}
		}
	}

	stamp, err := ted.Build(ted.DigestInput{
		IssuerRUT:     invoice.IssuerRUT,
		DocType:       invoice.DocType,
		Folio:         invoice.Folio,
		IssuedAt:      invoice.IssuedAt,
		RecipientRUT:  invoice.CounterpartyRUT,
		RecipientName: invoice.CounterpartyName,
		Total:         invoice.Total,
		FirstItem:     invoice.FirstItem,
		CAFBlock:      auth.CAFBlock,
		SignedAt:      uc.now().UTC(),
	}, auth.Key)
	if err != nil {
		return nil, err
	}

	if uc.idempotency != nil {
		if encoded, err := json.Marshal(stamp); err == nil {
			_ = uc.idempotency.Update(ctx, key, encoded, stampIdempotencyTTL)
		}
	}

	if uc.metrics != nil {
		uc.metrics.StampsIssued.Inc()
	}

	return stamp, nil
}

// Barcode renders the stamp's PDF417 image.
func (uc *StampUseCase) Barcode(stamp *domain.TaxStamp) ([]byte, error) {
	return ted.EncodeBarcode(stamp)
}
