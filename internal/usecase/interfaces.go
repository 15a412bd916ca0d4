package usecase

import (
	"context"
	"time"

	"github.com/quimal/dteledger/internal/domain"
)

// EntryRepository defines data access for accounting entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.AccountingEntry) error
	GetByID(ctx context.Context, companyRUT, id string) (*domain.AccountingEntry, error)
	ListByCompany(ctx context.Context, companyRUT string, from, to time.Time, limit, offset int) ([]*domain.AccountingEntry, error)
	ListByPeriod(ctx context.Context, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error)
	ListByPeriodTx(ctx context.Context, tx Transaction, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error)
}

// ClosedPeriodRepository defines data access for period-closing markers.
type ClosedPeriodRepository interface {
	Create(ctx context.Context, tx Transaction, period *domain.ClosedPeriod) error
	Get(ctx context.Context, companyRUT string, period domain.YearMonth) (*domain.ClosedPeriod, error)
	IsClosed(ctx context.Context, companyRUT string, period domain.YearMonth) (bool, error)
	IsClosedTx(ctx context.Context, tx Transaction, companyRUT string, period domain.YearMonth) (bool, error)
	// Lock serializes posting and closing for one (company, period) inside
	// the current transaction; it must be taken before any closed-check.
	Lock(ctx context.Context, tx Transaction, companyRUT string, period domain.YearMonth) error
}

// CAFRepository defines data access for folio authorizations. Appends for the
// same company must be serialized by the store; lost updates are unacceptable.
type CAFRepository interface {
	Create(ctx context.Context, auth *domain.FolioAuthorization) error
	ListByDocType(ctx context.Context, companyRUT string, docType int) ([]*domain.FolioAuthorization, error)
}

// RuleRepository defines data access for learned classification rules.
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.LearnedRule) error
	ListByCompany(ctx context.Context, companyRUT string) ([]*domain.LearnedRule, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
