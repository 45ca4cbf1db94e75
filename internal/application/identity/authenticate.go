package identity

import (
	"context"

	"github.com/baechuer/identity-service/internal/domain"
)

// Authenticate verifies email/password and returns the account.
// IMPORTANT: must not leak whether the email exists (avoid account enumeration).
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.Account, error) {
	if email == "" || password == "" {
		return domain.Account{}, domain.ErrInvalidCredentials()
	}

	a, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if domain.Is(err, domain.CodeAccountNotFound) {
			return domain.Account{}, domain.ErrInvalidCredentials()
		}
		// store outages are not credential failures
		return domain.Account{}, err
	}

	if !s.hasher.Verify(password, a.PasswordHash) {
		return domain.Account{}, domain.ErrInvalidCredentials()
	}
	return a, nil
}
