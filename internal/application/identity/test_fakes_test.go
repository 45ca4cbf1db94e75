package identity

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/baechuer/identity-service/internal/domain"
)

/*
Fakes for ports
*/

type fakeAccountStore struct {
	mu sync.Mutex

	byID    map[string]domain.Account
	byEmail map[string]string // email -> id
	nextID  int

	// injected errors (if set, method returns error)
	findByIDErr    error
	findByEmailErr error
	insertErr      error
	updateErr      error

	// record calls
	inserts []struct{ email, hash string }
	updates []struct {
		id string
		ch domain.AccountChanges
	}
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{
		byID:    map[string]domain.Account{},
		byEmail: map[string]string{},
	}
}

func (f *fakeAccountStore) put(a domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[a.ID] = a
	f.byEmail[a.Email] = a.ID
}

func (f *fakeAccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByIDErr != nil {
		return domain.Account{}, f.findByIDErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return a, nil
}

func (f *fakeAccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByEmailErr != nil {
		return domain.Account{}, f.findByEmailErr
	}
	id, ok := f.byEmail[email]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound()
	}
	return f.byID[id], nil
}

func (f *fakeAccountStore) Insert(ctx context.Context, email, hash string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts = append(f.inserts, struct{ email, hash string }{email, hash})
	if f.insertErr != nil {
		return "", f.insertErr
	}
	if _, taken := f.byEmail[email]; taken {
		return "", domain.ErrConflict("email", nil)
	}
	f.nextID++
	id := strconv.Itoa(f.nextID)
	f.byID[id] = domain.Account{ID: id, Email: email, PasswordHash: hash}
	f.byEmail[email] = id
	return id, nil
}

func (f *fakeAccountStore) UpdateFields(ctx context.Context, id string, ch domain.AccountChanges) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates = append(f.updates, struct {
		id string
		ch domain.AccountChanges
	}{id, ch})
	if f.updateErr != nil {
		return f.updateErr
	}
	a, ok := f.byID[id]
	if !ok {
		return domain.ErrAccountNotFound()
	}
	if ch.Email != nil {
		if owner, taken := f.byEmail[*ch.Email]; taken && owner != id {
			return domain.ErrConflict("email", nil)
		}
	}
	updated := ch.Apply(a)
	delete(f.byEmail, a.Email)
	f.byEmail[updated.Email] = id
	f.byID[id] = updated
	return nil
}

// fakeHasher uses a readable "hash:" prefix so tests can assert on stored values.
type fakeHasher struct {
	mu sync.Mutex

	hashFn   func(pw string) (string, error)
	verifyFn func(pw, hash string) bool

	hashCalls int
}

func newFakeHasher() *fakeHasher {
	return &fakeHasher{}
}

func (h *fakeHasher) Hash(pw string) (string, error) {
	h.mu.Lock()
	h.hashCalls++
	fn := h.hashFn
	h.mu.Unlock()

	if fn != nil {
		return fn(pw)
	}
	return "hash:" + pw, nil
}

func (h *fakeHasher) Verify(pw, hash string) bool {
	if h.verifyFn != nil {
		return h.verifyFn(pw, hash)
	}
	return strings.TrimPrefix(hash, "hash:") == pw && strings.HasPrefix(hash, "hash:")
}

func (h *fakeHasher) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hashCalls
}

func newSvcForTest(t *testing.T) (*Service, *fakeAccountStore, *fakeHasher) {
	t.Helper()

	store := newFakeAccountStore()
	hasher := newFakeHasher()
	return NewService(store, hasher), store, hasher
}

func strPtr(s string) *string { return &s }
