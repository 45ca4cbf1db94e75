package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	//App
	Env string // dev / staging / prod
	//HTTP
	HTTPAddr         string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// Storage
	StoreBackend string // postgres / memory
	DBAddr       string
	DBDebug      bool
	DBMigrate    bool

	// Credentials
	HashAlgorithm string // bcrypt / argon2id
	BcryptCost    int

	// Optional account cache
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	AccountCacheTTL time.Duration

	// Optional event publisher
	RabbitURL      string
	RabbitExchange string
}

// CacheEnabled reports whether FindByID should go through Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.AccountCacheTTL > 0
}

// LoadDotEnv reads .env into the process environment when present.
// Existing variables win. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:            getEnv("ENV", "dev"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		HashAlgorithm:  strings.ToLower(getEnv("HASH_ALGORITHM", "bcrypt")),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitURL:      os.Getenv("RABBIT_URL"),
		RabbitExchange: getEnv("RABBIT_EXCHANGE", "identity.events"),
	}

	switch cfg.StoreBackend {
	case BackendPostgres:
		// The service cannot run without its database; fail fast.
		cfg.DBAddr = os.Getenv("DB_ADDR")
		if cfg.DBAddr == "" {
			return nil, fmt.Errorf("missing required env var: DB_ADDR")
		}
		if !strings.HasPrefix(cfg.DBAddr, "postgres://") && !strings.HasPrefix(cfg.DBAddr, "postgresql://") {
			return nil, fmt.Errorf("DB_ADDR must be a postgres:// URL")
		}
	case BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q", cfg.StoreBackend)
	}

	switch cfg.HashAlgorithm {
	case "bcrypt", "argon2id":
	default:
		return nil, fmt.Errorf("invalid HASH_ALGORITHM: %q", cfg.HashAlgorithm)
	}

	var err error
	if cfg.DBDebug, err = getBool("DB_DEBUG", false); err != nil {
		return nil, err
	}
	if cfg.DBMigrate, err = getBool("DB_MIGRATE", true); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 12); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("BCRYPT_COST out of range [4,31]: %d", cfg.BcryptCost)
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.AccountCacheTTL, err = getDuration("ACCOUNT_CACHE_TTL", 0); err != nil {
		return nil, err
	}

	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", time.Minute); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q: %w", key, v, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for %s: %q: %w", key, v, err)
	}
	return b, nil
}
