package identity

import (
	"errors"
	"strings"

	"github.com/baechuer/identity-service/internal/domain"
)

// Service exposes the identity operations. It is stateless between calls:
// every operation re-reads the store.
type Service struct {
	accounts AccountStore
	hasher   CredentialHasher
	guard    *UniquenessGuard
}

func NewService(accounts AccountStore, hasher CredentialHasher) *Service {
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		guard:    NewUniquenessGuard(accounts),
	}
}

// ProfileUpdate holds the optional fields of UpdateProfile.
// nil means omitted; a non-nil empty string is a supplied (and invalid) value.
type ProfileUpdate struct {
	Email    *string
	Password *string
}

func (p ProfileUpdate) empty() bool {
	return p.Email == nil && p.Password == nil
}

func validateEmail(email string) error {
	if email == "" {
		return domain.ErrMissingField("email")
	}
	if strings.TrimSpace(email) == "" {
		return domain.ErrInvalidField("email", "blank")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return domain.ErrMissingField("password")
	}
	return nil
}

// translateConflict maps a store-level uniqueness rejection to the same
// error the pre-check produces.
func translateConflict(err error, email string) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Code == domain.CodeConflict && de.Meta["field"] == "email" {
		return domain.ErrEmailTaken(email)
	}
	return err
}

// hashFailed keeps hasher-side domain errors (e.g. oversized password) and
// wraps anything else as hash_failed.
func hashFailed(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.ErrHashFailed(err)
}
