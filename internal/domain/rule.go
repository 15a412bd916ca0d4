package domain

import (
	"strings"
	"time"
)

// LearnedRule is a user-taught account classification. Rules come from
// corrections to previously auto-posted entries and take precedence over the
// default account mapping, highest confidence first.
type LearnedRule struct {
	CreatedAt   time.Time
	ID          string
	CompanyRUT  string
	Pattern     string
	AccountCode string
	AccountName string
	Confidence  float64
}

// Matches reports whether the rule's pattern occurs in the classification key.
// Matching is a case-insensitive substring test.
func (r *LearnedRule) Matches(key string) bool {
	if r.Pattern == "" {
		return false
	}

	return strings.Contains(strings.ToLower(key), strings.ToLower(r.Pattern))
}

// Account returns the rule's target account.
func (r *LearnedRule) Account() Account {
	return Account{Code: r.AccountCode, Name: r.AccountName}
}
