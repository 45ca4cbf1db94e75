package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/baechuer/identity-service/internal/domain"
)

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrInvalidField("password", "longer than 72 bytes")
		}
		return "", domain.ErrHashFailed(err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (h *BcryptHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
