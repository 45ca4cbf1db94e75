package identity

import (
	"context"

	"github.com/baechuer/identity-service/internal/domain"
)

// UniquenessGuard is a fast pre-check that an email is free.
// It is not a lock: the store constraint remains the authority.
type UniquenessGuard struct {
	accounts AccountStore
}

func NewUniquenessGuard(accounts AccountStore) *UniquenessGuard {
	return &UniquenessGuard{accounts: accounts}
}

// CheckAvailable returns nil when no account holds email, ErrEmailTaken
// when one does, and any other store error unchanged.
func (g *UniquenessGuard) CheckAvailable(ctx context.Context, email string) error {
	_, err := g.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.ErrEmailTaken(email)
	case domain.Is(err, domain.CodeAccountNotFound):
		return nil
	default:
		return err
	}
}
