package security

import (
	"fmt"
	"strings"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

// Hasher is the shape shared by BcryptHasher and Argon2idHasher.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// NewHasher picks an implementation by algorithm name.
func NewHasher(algorithm string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case AlgorithmArgon2id:
		return NewArgon2idHasher(DefaultArgon2idParams()), nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm: %q", algorithm)
	}
}
