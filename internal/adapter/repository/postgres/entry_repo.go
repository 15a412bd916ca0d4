package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const insertEntrySQL = `
INSERT INTO accounting_entries (
	id, company_rut, entry_date, description, ref_type, ref_id,
	counterparty_rut, counterparty_name, doc_type, doc_number,
	status, kind, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

const insertLineSQL = `
INSERT INTO accounting_entry_lines (
	entry_id, position, account_code, account_name, debit, credit
) VALUES ($1, $2, $3, $4, $5, $6)`

// Create appends the entry and its lines inside the caller's transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertEntrySQL,
		entry.ID,
		entry.CompanyRUT,
		timeToPgTimestamptz(entry.Date),
		entry.Description,
		entry.RefType,
		entry.RefID,
		entry.CounterpartyRUT,
		entry.CounterpartyName,
		entry.DocType,
		entry.DocNumber,
		string(entry.Status),
		string(entry.Kind),
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting entry: %w", err)
	}

	for i, line := range entry.Lines {
		_, err := pgxTx.Exec(ctx, insertLineSQL,
			entry.ID,
			i,
			line.AccountCode,
			line.AccountName,
			decimalToNumeric(line.Debit),
			decimalToNumeric(line.Credit),
		)
		if err != nil {
			return fmt.Errorf("inserting entry line %d: %w", i, err)
		}
	}

	return nil
}

const selectEntrySQL = `
SELECT id, company_rut, entry_date, description, ref_type, ref_id,
	counterparty_rut, counterparty_name, doc_type, doc_number,
	status, kind, created_at
FROM accounting_entries`

// GetByID retrieves one entry with its lines.
func (r *EntryRepository) GetByID(ctx context.Context, companyRUT, id string) (*domain.AccountingEntry, error) {
	row := r.pool.QueryRow(ctx, selectEntrySQL+" WHERE company_rut = $1 AND id = $2", companyRUT, id)

	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	if err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, r.pool, []*domain.AccountingEntry{entry}); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListByCompany lists entries in [from, to) ordered by date then id.
func (r *EntryRepository) ListByCompany(ctx context.Context, companyRUT string, from, to time.Time, limit, offset int) ([]*domain.AccountingEntry, error) {
	rows, err := r.pool.Query(ctx,
		selectEntrySQL+` WHERE company_rut = $1 AND entry_date >= $2 AND entry_date < $3
		ORDER BY entry_date, id LIMIT $4 OFFSET $5`,
		companyRUT, timeToPgTimestamptz(from), timeToPgTimestamptz(to), limit, offset)
	if err != nil {
		return nil, err
	}

	return r.collect(ctx, r.pool, rows)
}

// ListByPeriod lists every entry dated inside the period, ordered by id so the
// scan order is stable for aggregation.
func (r *EntryRepository) ListByPeriod(ctx context.Context, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error) {
	return r.listByPeriod(ctx, r.pool, companyRUT, period)
}

// ListByPeriodTx is ListByPeriod inside the caller's transaction, for the
// closing snapshot.
func (r *EntryRepository) ListByPeriodTx(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error) {
	return r.listByPeriod(ctx, tx.(*Tx).PgxTx(), companyRUT, period)
}

func (r *EntryRepository) listByPeriod(ctx context.Context, q querier, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error) {
	start, end := period.Bounds()

	rows, err := q.Query(ctx,
		selectEntrySQL+` WHERE company_rut = $1 AND entry_date >= $2 AND entry_date < $3 ORDER BY id`,
		companyRUT, timeToPgTimestamptz(start), timeToPgTimestamptz(end))
	if err != nil {
		return nil, err
	}

	return r.collect(ctx, q, rows)
}

func (r *EntryRepository) collect(ctx context.Context, q querier, rows pgx.Rows) ([]*domain.AccountingEntry, error) {
	defer rows.Close()

	var entries []*domain.AccountingEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, q, entries); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *EntryRepository) attachLines(ctx context.Context, q querier, entries []*domain.AccountingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]string, 0, len(entries))
	byID := make(map[string]*domain.AccountingEntry, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
		byID[entry.ID] = entry
	}

	rows, err := q.Query(ctx,
		`SELECT entry_id, account_code, account_name, debit, credit
		FROM accounting_entry_lines WHERE entry_id = ANY($1) ORDER BY entry_id, position`,
		ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			entryID       string
			accountCode   string
			accountName   string
			debit, credit pgtype.Numeric
		)

		if err := rows.Scan(&entryID, &accountCode, &accountName, &debit, &credit); err != nil {
			return err
		}

		entry := byID[entryID]
		entry.Lines = append(entry.Lines, domain.EntryLine{
			AccountCode: accountCode,
			AccountName: accountName,
			Debit:       numericToDecimal(debit),
			Credit:      numericToDecimal(credit),
		})
	}

	return rows.Err()
}

func scanEntry(row pgx.Row) (*domain.AccountingEntry, error) {
	var (
		entry                domain.AccountingEntry
		entryDate, createdAt pgtype.Timestamptz
		status, kind         string
	)

	err := row.Scan(
		&entry.ID,
		&entry.CompanyRUT,
		&entryDate,
		&entry.Description,
		&entry.RefType,
		&entry.RefID,
		&entry.CounterpartyRUT,
		&entry.CounterpartyName,
		&entry.DocType,
		&entry.DocNumber,
		&status,
		&kind,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Date = entryDate.Time
	entry.CreatedAt = createdAt.Time
	entry.Status = domain.EntryStatus(status)
	entry.Kind = domain.EntryKind(kind)

	return &entry, nil
}
