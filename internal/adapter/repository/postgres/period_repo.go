package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/usecase"
)

const pgErrUniqueViolation = "23505"

// ClosedPeriodRepository implements usecase.ClosedPeriodRepository.
type ClosedPeriodRepository struct {
	pool *pgxpool.Pool
}

// NewClosedPeriodRepository creates a new ClosedPeriodRepository.
func NewClosedPeriodRepository(pool *pgxpool.Pool) *ClosedPeriodRepository {
	return &ClosedPeriodRepository{pool: pool}
}

// Create records the closure marker. The unique constraint on
// (company_rut, period) is the terminal backstop even if callers race.
func (r *ClosedPeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.ClosedPeriod) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx,
		`INSERT INTO closed_periods (id, company_rut, period, closed_by, closed_at, profit_loss)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		period.ID,
		period.CompanyRUT,
		period.Period.String(),
		period.ClosedBy,
		timeToPgTimestamptz(period.ClosedAt),
		decimalToNumeric(period.ProfitLoss),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return fmt.Errorf("%w: %s %s", domain.ErrPeriodAlreadyClosed, period.CompanyRUT, period.Period)
	}

	return err
}

// Get retrieves the closure marker for (company, period).
func (r *ClosedPeriodRepository) Get(ctx context.Context, companyRUT string, period domain.YearMonth) (*domain.ClosedPeriod, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, company_rut, period, closed_by, closed_at, profit_loss
		FROM closed_periods WHERE company_rut = $1 AND period = $2`,
		companyRUT, period.String())

	var (
		closed    domain.ClosedPeriod
		periodStr string
		closedAt  pgtype.Timestamptz
		pl        pgtype.Numeric
	)

	err := row.Scan(&closed.ID, &closed.CompanyRUT, &periodStr, &closed.ClosedBy, &closedAt, &pl)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s is open", domain.ErrInvalidPeriod, companyRUT, period)
	}

	if err != nil {
		return nil, err
	}

	parsed, err := domain.ParseYearMonth(periodStr)
	if err != nil {
		return nil, err
	}

	closed.Period = parsed
	closed.ClosedAt = closedAt.Time
	closed.ProfitLoss = numericToDecimal(pl)

	return &closed, nil
}

// IsClosed reports whether the period has a closure marker.
func (r *ClosedPeriodRepository) IsClosed(ctx context.Context, companyRUT string, period domain.YearMonth) (bool, error) {
	return r.isClosed(ctx, r.pool, companyRUT, period)
}

// IsClosedTx is IsClosed inside the caller's transaction, after Lock.
func (r *ClosedPeriodRepository) IsClosedTx(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) (bool, error) {
	return r.isClosed(ctx, tx.(*Tx).PgxTx(), companyRUT, period)
}

func (r *ClosedPeriodRepository) isClosed(ctx context.Context, q querier, companyRUT string, period domain.YearMonth) (bool, error) {
	var closed bool

	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM closed_periods WHERE company_rut = $1 AND period = $2)`,
		companyRUT, period.String()).Scan(&closed)

	return closed, err
}

// Lock takes a transaction-scoped advisory lock on (company, period). Posting
// and closing both take it first, so the closed-check plus write below it is
// atomic with respect to the competing writer. Released at commit or rollback.
func (r *ClosedPeriodRepository) Lock(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) error {
	_, err := tx.(*Tx).PgxTx().Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`,
		companyRUT+"|"+period.String())

	return err
}
