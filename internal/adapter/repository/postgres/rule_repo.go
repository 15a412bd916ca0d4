package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quimal/dteledger/internal/domain"
)

// RuleRepository implements usecase.RuleRepository.
type RuleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository creates a new RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) *RuleRepository {
	return &RuleRepository{pool: pool}
}

// Create stores a learned rule.
func (r *RuleRepository) Create(ctx context.Context, rule *domain.LearnedRule) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO learned_rules (id, company_rut, pattern, account_code, account_name, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rule.ID,
		rule.CompanyRUT,
		rule.Pattern,
		rule.AccountCode,
		rule.AccountName,
		rule.Confidence,
		timeToPgTimestamptz(rule.CreatedAt),
	)

	return err
}

// ListByCompany returns the company's rules, newest first.
func (r *RuleRepository) ListByCompany(ctx context.Context, companyRUT string) ([]*domain.LearnedRule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company_rut, pattern, account_code, account_name, confidence, created_at
		FROM learned_rules WHERE company_rut = $1 ORDER BY created_at DESC, id`,
		companyRUT)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []*domain.LearnedRule
	for rows.Next() {
		var (
			rule      domain.LearnedRule
			createdAt pgtype.Timestamptz
		)

		if err := rows.Scan(&rule.ID, &rule.CompanyRUT, &rule.Pattern, &rule.AccountCode, &rule.AccountName, &rule.Confidence, &createdAt); err != nil {
			return nil, err
		}

		rule.CreatedAt = createdAt.Time
		rules = append(rules, &rule)
	}

	return rules, rows.Err()
}
