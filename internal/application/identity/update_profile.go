package identity

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/baechuer/identity-service/internal/domain"
)

// UpdateProfile changes email and/or password of an account in one atomic
// store write. With no fields supplied it is a no-op success.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) error {
	if id == "" {
		return domain.ErrMissingField("id")
	}
	if upd.empty() {
		return nil
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return err
		}
	}
	if upd.Password != nil {
		if err := validatePassword(*upd.Password); err != nil {
			return err
		}
	}

	// The pre-check and the hash are independent; results are only
	// committed together below.
	var ch domain.AccountChanges
	g, gctx := errgroup.WithContext(ctx)
	if upd.Email != nil {
		email := *upd.Email
		g.Go(func() error {
			if err := s.guard.CheckAvailable(gctx, email); err != nil {
				return err
			}
			ch.Email = &email
			return nil
		})
	}
	if upd.Password != nil {
		password := *upd.Password
		g.Go(func() error {
			hash, err := s.hasher.Hash(password)
			if err != nil {
				return hashFailed(err)
			}
			ch.PasswordHash = &hash
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.accounts.UpdateFields(ctx, id, ch); err != nil {
		if ch.Email != nil {
			return translateConflict(err, *ch.Email)
		}
		return err
	}
	return nil
}
