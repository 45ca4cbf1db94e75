package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/baechuer/identity-service/internal/application/identity"
	"github.com/baechuer/identity-service/internal/audit"
	"github.com/baechuer/identity-service/internal/config"
	"github.com/baechuer/identity-service/internal/infrastructure/db/migrations"
	"github.com/baechuer/identity-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/identity-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/identity-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/identity-service/internal/infrastructure/redis"
	"github.com/baechuer/identity-service/internal/infrastructure/security"
	"github.com/baechuer/identity-service/internal/logger"
	"github.com/baechuer/identity-service/internal/transport/http/docs"
	http_handlers "github.com/baechuer/identity-service/internal/transport/http/handlers"
	"github.com/baechuer/identity-service/internal/transport/http/middleware"
	"github.com/baechuer/identity-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(addr string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher = http_handlers.EventPublisher

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) account store
	var (
		accounts identity.AccountStore
		sqlDB    *sql.DB
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		logger.Logger.Warn().Msg("using in-memory account store; data is lost on restart")
		accounts = memory.NewAccountStore()

	default:
		sqlDB, err = deps.NewDB(cfg.DBAddr, cfg.DBDebug)
		if err != nil {
			return nil, nil, err
		}
		if sqlDB == nil {
			return nil, nil, errNilDB
		}
		cleanupFns = append(cleanupFns, func() { _ = sqlDB.Close() })

		if cfg.DBMigrate && deps.Migrate != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err := deps.Migrate(ctx, sqlDB)
			cancel()
			if err != nil {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Info().Msg("migrations applied")
		}
		accounts = postgres.NewAccountStore(sqlDB)
	}

	// 2) redis cache (best-effort)
	if cfg.CacheEnabled() && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; account cache disabled")
			_ = c.Close()
		} else if rc, ok := c.(*redis.Client); ok {
			logger.Logger.Info().Dur("ttl", cfg.AccountCacheTTL).Msg("account cache enabled")
			accounts = redis.NewCachedAccountStore(accounts, rc, cfg.AccountCacheTTL)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		} else {
			_ = c.Close()
		}
	}

	// 3) publisher
	var pub Publisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env != "dev" {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		} else {
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	}

	// 4) security
	hasher, err := security.NewHasher(cfg.HashAlgorithm, cfg.BcryptCost)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 5) service
	svc := identity.NewService(accounts, hasher)

	// 6) handlers
	accountH := http_handlers.NewAccountHandler(svc, pub, audit.New(logger.Logger))

	// a nil *sql.DB must not become a non-nil Pinger
	var dbPinger http_handlers.Pinger
	if sqlDB != nil {
		dbPinger = sqlDB
	}
	healthH := http_handlers.NewHealthHandler(dbPinger)

	apiDoc, err := docs.Load(context.Background())
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Accounts:    accountH,
		Docs:        apiDoc,
		RequestIDMW: middleware.RequestID,
		MetricsMW:   middleware.Metrics,
		BodyLimitMW: middleware.BodyLimit(middleware.DefaultMaxBodyBytes),
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: func() (*config.Config, error) {
			if err := config.LoadDotEnv(); err != nil {
				return nil, err
			}
			return config.Load()
		},
		NewDB:   config.NewDB,
		Migrate: migrations.Up,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			p, err := rabbitmq_pub.NewPublisher(url, exchange)
			if err != nil {
				return nil, err
			}
			return p, nil
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

var errNilDB = errors.New("bootstrap: NewDB returned nil")

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
