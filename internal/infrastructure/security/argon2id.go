package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/baechuer/identity-service/internal/domain"
)

const argon2Version = 19 // argon2.Version is 0x13

// Argon2idParams controls Argon2id hashing cost.
// MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:   64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Argon2idHasher produces PHC strings:
// $argon2id$v=19$m=<mem>,t=<iter>,p=<par>$<salt_b64>$<key_b64>
type Argon2idHasher struct {
	params Argon2idParams
}

func NewArgon2idHasher(p Argon2idParams) *Argon2idHasher {
	def := DefaultArgon2idParams()
	if p.MemoryKiB < 8*1024 {
		p.MemoryKiB = def.MemoryKiB
	}
	if p.Iterations == 0 {
		p.Iterations = def.Iterations
	}
	if p.Parallelism == 0 {
		p.Parallelism = def.Parallelism
	}
	if p.SaltLength < 8 {
		p.SaltLength = def.SaltLength
	}
	if p.KeyLength < 16 {
		p.KeyLength = def.KeyLength
	}
	return &Argon2idHasher{params: p}
}

func (h *Argon2idHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", domain.ErrHashFailed(fmt.Errorf("salt: %w", err))
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Iterations,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters embedded in hash and
// compares in constant time. Malformed or out-of-bounds hashes are a mismatch.
func (h *Argon2idHasher) Verify(password, hash string) bool {
	params, salt, expected, ok := decodeArgon2id(hash)
	if !ok || !h.withinBounds(params) {
		return false
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		uint32(len(expected)),
	)
	return subtle.ConstantTimeCompare(key, expected) == 1
}

// withinBounds refuses attacker-sized parameters while still accepting
// hashes produced with older, smaller settings.
func (h *Argon2idHasher) withinBounds(got Argon2idParams) bool {
	switch {
	case got.MemoryKiB > h.params.MemoryKiB*2:
		return false
	case got.Iterations > h.params.Iterations*2:
		return false
	case got.Parallelism > h.params.Parallelism*2:
		return false
	case got.SaltLength < 8 || got.SaltLength > 64:
		return false
	case got.KeyLength < 16 || got.KeyLength > 128:
		return false
	}
	return true
}

func decodeArgon2id(encoded string) (Argon2idParams, []byte, []byte, bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Argon2idParams{}, nil, nil, false
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2Version) {
		return Argon2idParams{}, nil, nil, false
	}

	mem, it, par, ok := parseArgon2idCost(parts[3])
	if !ok || mem == 0 || it == 0 || par == 0 || par > 255 {
		return Argon2idParams{}, nil, nil, false
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}
	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return Argon2idParams{}, nil, nil, false
	}

	return Argon2idParams{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: uint8(par),
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(key)),
	}, salt, key, true
}

// parseArgon2idCost reads exactly "m=<n>,t=<n>,p=<n>" in that order.
// ParseUint rejects signs, spaces and trailing bytes.
func parseArgon2idCost(seg string) (mem, it, par uint32, ok bool) {
	fields := strings.Split(seg, ",")
	if len(fields) != 3 {
		return 0, 0, 0, false
	}
	out := [3]uint32{}
	for i, name := range [3]string{"m=", "t=", "p="} {
		digits, found := strings.CutPrefix(fields[i], name)
		if !found {
			return 0, 0, 0, false
		}
		n, err := strconv.ParseUint(digits, 10, 32)
		if err != nil {
			return 0, 0, 0, false
		}
		out[i] = uint32(n)
	}
	return out[0], out[1], out[2], true
}
