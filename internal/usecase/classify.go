package usecase

import (
	"sort"

	"github.com/quimal/dteledger/internal/domain"
)

// Classify picks the account for an invoice's classification key: learned
// rules are tried highest confidence first, the default account mapping is
// the final fallback. Ties break on the longer (more specific) pattern.
func Classify(key string, rules []*domain.LearnedRule, fallback domain.Account) domain.Account {
	var matched []*domain.LearnedRule
	for _, rule := range rules {
		if rule.Matches(key) {
			matched = append(matched, rule)
		}
	}

	if len(matched) == 0 {
		return fallback
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Confidence != matched[j].Confidence {
			return matched[i].Confidence > matched[j].Confidence
		}

		return len(matched[i].Pattern) > len(matched[j].Pattern)
	})

	return matched[0].Account()
}
