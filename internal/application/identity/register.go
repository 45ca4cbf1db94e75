package identity

import (
	"context"
)

// Register creates an account and returns its store-assigned id.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	if err := validateEmail(email); err != nil {
		return "", err
	}
	if err := validatePassword(password); err != nil {
		return "", err
	}

	if err := s.guard.CheckAvailable(ctx, email); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", hashFailed(err)
	}

	id, err := s.accounts.Insert(ctx, email, hash)
	if err != nil {
		// lost the race after a clean pre-check
		return "", translateConflict(err, email)
	}
	return id, nil
}
