package identity

import (
	"context"

	"github.com/baechuer/identity-service/internal/domain"
)

/*
AccountStore
------------
Persistence port for accounts.
The store owns account records and carries the storage-level email
uniqueness constraint; Insert/UpdateFields report violations as
domain.ErrConflict. I/O failures come back as domain.ErrStoreUnavailable.
*/
type AccountStore interface {
	FindByID(ctx context.Context, id string) (domain.Account, error)
	FindByEmail(ctx context.Context, email string) (domain.Account, error)
	Insert(ctx context.Context, email, passwordHash string) (id string, err error)

	// UpdateFields applies exactly the non-nil fields as one atomic write.
	UpdateFields(ctx context.Context, id string, ch domain.AccountChanges) error
}

/*
CredentialHasher
----------------
Abstracts bcrypt / argon2id. Hashes are self-describing (salt and
parameters embedded). Verify never fails loudly: mismatch and malformed
hash are both false.
*/
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
