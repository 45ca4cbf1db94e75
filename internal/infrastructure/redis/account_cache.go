package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/baechuer/identity-service/internal/application/identity"
	"github.com/baechuer/identity-service/internal/domain"
	"github.com/baechuer/identity-service/internal/logger"
)

// invalidateTimeout bounds the post-commit Del; it runs detached from the
// caller's context so a cancelled request cannot leave a stale entry behind.
const invalidateTimeout = 2 * time.Second

// CachedAccountStore decorates an identity.AccountStore with a Redis
// read-through cache for FindByID.
//   - Read path: Redis -> store fallback -> Redis set (only if no update ran meanwhile)
//   - Write path: store -> bump generation + Redis del
//
// Every update bumps account:gen:<id>. A fill records the generation before
// reading the store and writes under WATCH only if it is unchanged, so a
// slow reader cannot put back a row an update already replaced.
//
// FindByEmail is never cached: the uniqueness pre-check and authentication
// must see the store's current state.
type CachedAccountStore struct {
	inner   identity.AccountStore
	rdb     *goredis.Client
	ttl     time.Duration
	keyPref string
}

func NewCachedAccountStore(inner identity.AccountStore, client *Client, ttl time.Duration) *CachedAccountStore {
	var rdb *goredis.Client
	if client != nil {
		rdb = client.rdb
	}
	return &CachedAccountStore{
		inner:   inner,
		rdb:     rdb,
		ttl:     ttl,
		keyPref: "account:",
	}
}

type cachedAccount struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c *CachedAccountStore) key(id string) string {
	return c.keyPref + id
}

func (c *CachedAccountStore) genKey(id string) string {
	return c.keyPref + "gen:" + id
}

func (c *CachedAccountStore) FindByID(ctx context.Context, id string) (domain.Account, error) {
	var (
		gen    int64
		genErr error
	)
	if c.rdb != nil {
		b, err := c.rdb.Get(ctx, c.key(id)).Bytes()
		if err == nil {
			var ca cachedAccount
			if jerr := json.Unmarshal(b, &ca); jerr == nil {
				return domain.Account(ca), nil
			}
			// corrupt entry -> fall back to the store
		}
		// goredis.Nil or a redis error -> fall back; the cache never fails a read
		gen, genErr = c.generation(ctx, id)
	}

	a, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	if c.rdb != nil && genErr == nil {
		c.fill(ctx, a, gen)
	}
	return a, nil
}

func (c *CachedAccountStore) generation(ctx context.Context, id string) (int64, error) {
	n, err := c.rdb.Get(ctx, c.genKey(id)).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return n, err
}

// fill caches a unless the account's generation moved past seen.
func (c *CachedAccountStore) fill(ctx context.Context, a domain.Account, seen int64) {
	b, err := json.Marshal(cachedAccount(a))
	if err != nil {
		return
	}
	gk := c.genKey(a.ID)
	_ = c.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, goredis.Nil) {
			return err
		}
		if cur != seen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p goredis.Pipeliner) error {
			p.Set(ctx, c.key(a.ID), b, c.ttl)
			return nil
		})
		// goredis.TxFailedErr: an update landed after WATCH; skip the fill
		return err
	}, gk)
}

func (c *CachedAccountStore) UpdateFields(ctx context.Context, id string, ch domain.AccountChanges) error {
	err := c.inner.UpdateFields(ctx, id, ch)

	// the outcome of a failed write may be unknown, so drop the entry either way
	if c.rdb != nil && !ch.Empty() {
		c.invalidate(ctx, id)
	}
	return err
}

func (c *CachedAccountStore) invalidate(reqCtx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), invalidateTimeout)
	defer cancel()

	// the generation must outlive any in-flight fill; a bounded expiry keeps it from piling up
	genTTL := c.ttl + time.Minute
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, c.genKey(id))
		p.Expire(ctx, c.genKey(id), genTTL)
		p.Del(ctx, c.key(id))
		return nil
	})
	if err != nil {
		logger.WithCtx(reqCtx).Warn().Err(err).Str("account_id", id).Msg("account cache invalidation failed")
	}
}

func (c *CachedAccountStore) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachedAccountStore) Insert(ctx context.Context, email, passwordHash string) (string, error) {
	return c.inner.Insert(ctx, email, passwordHash)
}
