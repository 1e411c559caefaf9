package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	DebugOutput     bool
	RequestTimeout  time.Duration
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
	// TrustedProxies may set X-Forwarded-For. Empty means the peer address
	// is always the client.
	TrustedProxies []netip.Prefix

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Guard     GuardConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds settings for the audit event producer.
type KafkaConfig struct {
	Brokers         string
	AuditTopic      string
	Acks            string
	Retries         int
	DeliveryTimeout time.Duration
}

// GuardConfig controls how many failed decodes a token tolerates.
type GuardConfig struct {
	MaxFailures  int
	Window       time.Duration
	LockDuration time.Duration
}

// RateLimitConfig bounds /api requests per client IP. Zero Requests
// disables the limit.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Defaults used when the environment leaves a value unset.
var (
	DefaultGuard = GuardConfig{
		MaxFailures:  5,
		Window:       15 * time.Minute,
		LockDuration: 15 * time.Minute,
	}
	DefaultRateLimit = RateLimitConfig{
		Requests: 60,
		Window:   time.Minute,
	}
	DefaultAuditTopic = "sunhex.audit"
)

// FromEnv builds a Server config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present; values
// already set in the environment win.
func FromEnv() (Server, error) {
	_ = godotenv.Load()

	cfg := Server{
		Addr:            getEnv("SUNHEX_ADDR", ":8080"),
		Environment:     getEnv("SUNHEX_ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DebugOutput:     os.Getenv("SUNHEX_DEBUG_OUTPUT") == "true",
		RequestTimeout:  10 * time.Second,
		MaxBodyBytes:    16 << 10,
		ShutdownTimeout: 10 * time.Second,
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:         os.Getenv("KAFKA_BROKERS"),
			AuditTopic:      getEnv("AUDIT_TOPIC", DefaultAuditTopic),
			Acks:            getEnv("KAFKA_ACKS", "all"),
			Retries:         3,
			DeliveryTimeout: 30 * time.Second,
		},
		Guard:     DefaultGuard,
		RateLimit: DefaultRateLimit,
	}

	var err error
	if cfg.Guard.MaxFailures, err = intEnv("GUARD_MAX_FAILURES", cfg.Guard.MaxFailures); err != nil {
		return Server{}, err
	}
	if cfg.Guard.Window, err = durationEnv("GUARD_WINDOW", cfg.Guard.Window); err != nil {
		return Server{}, err
	}
	if cfg.Guard.LockDuration, err = durationEnv("GUARD_LOCK_DURATION", cfg.Guard.LockDuration); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Requests, err = intEnv("RATE_LIMIT_REQUESTS", cfg.RateLimit.Requests); err != nil {
		return Server{}, err
	}
	if cfg.RateLimit.Window, err = durationEnv("RATE_LIMIT_WINDOW", cfg.RateLimit.Window); err != nil {
		return Server{}, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Server{}, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Server{}, err
	}

	if cfg.TrustedProxies, err = prefixListEnv("TRUSTED_PROXIES"); err != nil {
		return Server{}, err
	}

	if cfg.Guard.MaxFailures < 1 {
		return Server{}, fmt.Errorf("GUARD_MAX_FAILURES must be at least 1")
	}
	if cfg.RateLimit.Requests < 0 {
		return Server{}, fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// prefixListEnv parses a comma separated list of CIDRs or bare addresses.
func prefixListEnv(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, raw := range strings.Split(os.Getenv(key), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if !strings.Contains(raw, "/") {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s entry %q: %w", key, raw, err)
			}
			out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}
		prefix, err := netip.ParsePrefix(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry %q: %w", key, raw, err)
		}
		out = append(out, prefix.Masked())
	}
	return out, nil
}
