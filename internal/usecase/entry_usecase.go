package usecase

import (
	"context"
	"time"

	"github.com/quimal/dteledger/internal/domain"
)

// EntryUseCase handles ledger read access.
type EntryUseCase struct {
	entryRepo EntryRepository
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	CompanyRUT string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

// ListEntries lists posted entries for a company and date range.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.AccountingEntry, error) {
	if input.CompanyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.entryRepo.ListByCompany(ctx, input.CompanyRUT, input.From, input.To, input.Limit, input.Offset)
}

// GetEntry retrieves one entry by id.
func (uc *EntryUseCase) GetEntry(ctx context.Context, companyRUT, id string) (*domain.AccountingEntry, error) {
	if companyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	return uc.entryRepo.GetByID(ctx, companyRUT, id)
}
