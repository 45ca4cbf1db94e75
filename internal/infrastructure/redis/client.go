package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// The account cache sits in front of every Lookup, so a slow Redis must
// degrade to a store read quickly instead of holding the request.
const (
	dialTimeout = time.Second
	ioTimeout   = 500 * time.Millisecond
)

// Client owns the go-redis connection pool shared by the cache decorator.
type Client struct {
	rdb *goredis.Client
}

// New builds a client without dialing; call Ping to check reachability.
func New(addr, password string, db int) *Client {
	return &Client{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  dialTimeout,
			ReadTimeout:  ioTimeout,
			WriteTimeout: ioTimeout,
		}),
	}
}

// Ping is used once at bootstrap to decide whether the cache is enabled.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
