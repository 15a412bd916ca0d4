package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quimal/dteledger/internal/domain"
)

// RuleUseCase records learned classification rules from user corrections.
type RuleUseCase struct {
	ruleRepo RuleRepository
	idGen    IDGenerator
}

// NewRuleUseCase creates a new RuleUseCase.
func NewRuleUseCase(ruleRepo RuleRepository, idGen IDGenerator) *RuleUseCase {
	return &RuleUseCase{
		ruleRepo: ruleRepo,
		idGen:    idGen,
	}
}

// RecordCorrectionInput represents a user correction to an auto-posted entry.
type RecordCorrectionInput struct {
	CompanyRUT  string
	Pattern     string
	AccountCode string
	AccountName string
	Confidence  float64
}

// RecordCorrection stores the correction as a rule consulted on future
// postings, ahead of the default account mapping.
func (uc *RuleUseCase) RecordCorrection(ctx context.Context, input RecordCorrectionInput) (*domain.LearnedRule, error) {
	if input.CompanyRUT == "" {
		return nil, domain.ErrMissingCompany
	}

	if input.Pattern == "" {
		return nil, fmt.Errorf("%w: empty rule pattern", domain.ErrInvalidInvoice)
	}

	if input.AccountCode == "" {
		return nil, fmt.Errorf("%w: empty account code", domain.ErrInvalidInvoice)
	}

	if input.Confidence <= 0 || input.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside (0, 1]", domain.ErrInvalidInvoice, input.Confidence)
	}

	rule := &domain.LearnedRule{
		ID:          uc.idGen.Generate(),
		CompanyRUT:  input.CompanyRUT,
		Pattern:     input.Pattern,
		AccountCode: input.AccountCode,
		AccountName: input.AccountName,
		Confidence:  input.Confidence,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}

	return rule, nil
}

// ListRules returns the company's rules.
func (uc *RuleUseCase) ListRules(ctx context.Context, companyRUT string) ([]*domain.LearnedRule, error) {
	return uc.ruleRepo.ListByCompany(ctx, companyRUT)
}
