package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/sii/caf"
)

// CAFRepository implements usecase.CAFRepository. The raw authorization file
// is the source of truth; the embedded key and CAF block are re-derived from
// it on load so the stored bytes can never drift from what gets signed.
type CAFRepository struct {
	pool *pgxpool.Pool
}

// NewCAFRepository creates a new CAFRepository.
func NewCAFRepository(pool *pgxpool.Pool) *CAFRepository {
	return &CAFRepository{pool: pool}
}

// Create stores the authorization.
func (r *CAFRepository) Create(ctx context.Context, auth *domain.FolioAuthorization) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO folio_authorizations (id, company_rut, doc_type, folio_from, folio_to, raw, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		auth.ID,
		auth.CompanyRUT,
		auth.DocType,
		auth.FolioFrom,
		auth.FolioTo,
		auth.Raw,
		timeToPgTimestamptz(auth.CreatedAt),
	)

	return err
}

// ListByDocType returns the company's authorizations for one document type,
// oldest first, so folio lookup picks the earliest covering range.
func (r *CAFRepository) ListByDocType(ctx context.Context, companyRUT string, docType int) ([]*domain.FolioAuthorization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_rut, raw, created_at
		FROM folio_authorizations
		WHERE company_rut = $1 AND doc_type = $2
		ORDER BY created_at, id`,
		companyRUT, docType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auths []*domain.FolioAuthorization
	for rows.Next() {
		var (
			id, rut   string
			raw       []byte
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&id, &rut, &raw, &createdAt); err != nil {
			return nil, err
		}

		auth, err := caf.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("stored authorization %s: %w", id, err)
		}

		auth.ID = id
		auth.CompanyRUT = rut
		auth.CreatedAt = createdAt.Time

		auths = append(auths, auth)
	}

	return auths, rows.Err()
}
