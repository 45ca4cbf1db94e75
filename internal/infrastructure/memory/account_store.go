package memory

import (
	"context"
	"sync"
	"time"

	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/ids"
)

// AccountStore is an in-process AccountStore. The uniqueness check and the
// write share one critical section, so it upholds the same constraint a
// database unique index does.
type AccountStore struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string // email -> accountID

	now func() time.Time
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		byID:    make(map[string]domain.Account),
		byEmail: make(map[string]string),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, domain.ErrStoreUnavailable(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, domain.ErrStoreUnavailable(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return s.byID[id], nil
}

func (s *AccountStore) Insert(ctx context.Context, email, passwordHash string) (string, error) {
	if email == "" {
		return "", domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return "", domain.ErrMissingField("password_hash")
	}
	if err := ctx.Err(); err != nil {
		return "", domain.ErrStoreUnavailable(err)
	}

	now := s.now()
	id, err := ids.NewULID(now)
	if err != nil {
		return "", domain.ErrInternal(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return "", domain.ErrConflict("email", nil)
	}

	s.byID[id] = domain.Account{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byEmail[email] = id
	return id, nil
}

func (s *AccountStore) UpdateFields(ctx context.Context, id string, ch domain.AccountChanges) error {
	if ch.Email != nil && *ch.Email == "" {
		return domain.ErrMissingField("email")
	}
	if ch.PasswordHash != nil && *ch.PasswordHash == "" {
		return domain.ErrMissingField("password_hash")
	}
	if err := ctx.Err(); err != nil {
		return domain.ErrStoreUnavailable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return domain.ErrAccountNotFound()
	}
	if ch.Empty() {
		return nil
	}
	if ch.Email != nil {
		if owner, taken := s.byEmail[*ch.Email]; taken && owner != id {
			return domain.ErrConflict("email", nil)
		}
	}

	updated := ch.Apply(a)
	updated.UpdatedAt = s.now()

	if updated.Email != a.Email {
		delete(s.byEmail, a.Email)
		s.byEmail[updated.Email] = id
	}
	s.byID[id] = updated
	return nil
}
