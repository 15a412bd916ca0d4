// Package tenant threads the ambient company identity through a request.
// The value is immutable and scope-bound; it must be set before any ledger or
// folio-authorization lookup and never stored in shared state.
package tenant

import (
	"context"

	"github.com/quimal/dteledger/internal/domain"
)

type contextKey struct{}

// WithCompany returns a context carrying the company RUT.
func WithCompany(ctx context.Context, companyRUT string) context.Context {
	return context.WithValue(ctx, contextKey{}, companyRUT)
}

// Company extracts the company RUT from the context.
func Company(ctx context.Context) (string, error) {
	rut, ok := ctx.Value(contextKey{}).(string)
	if !ok || rut == "" {
		return "", domain.ErrMissingCompany
	}

	return rut, nil
}
