package identity

import (
	"context"

	"github.com/baechuer/identity-service/internal/domain"
)

func (s *Service) Lookup(ctx context.Context, id string) (domain.Account, error) {
	if id == "" {
		return domain.Account{}, domain.ErrMissingField("id")
	}
	return s.accounts.FindByID(ctx, id)
}

func (s *Service) LookupByEmail(ctx context.Context, email string) (domain.Account, error) {
	if err := validateEmail(email); err != nil {
		return domain.Account{}, err
	}
	return s.accounts.FindByEmail(ctx, email)
}
