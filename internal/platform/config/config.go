// Package config loads service configuration from the environment so main
// stays lean. Every knob has a development default; values that must parse
// fail fast instead of limping along misconfigured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "attesto/pkg/platform/strings"
)

// Ledger backend selectors.
const (
	LedgerMemory   = "memory"
	LedgerPostgres = "postgres"
	LedgerRedis    = "redis"
)

// PartyCredential is one provisioned relying-party credential:
// the party id and the bcrypt hash of its API secret.
type PartyCredential struct {
	ID         string
	SecretHash string
}

// RateLimit holds the per-minute admission budgets for the public surface.
type RateLimit struct {
	Disabled        bool
	TokenPerMinute  int
	VerifyPerMinute int
}

// Redis holds connection settings for the redis-backed ledger.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Config is the full service configuration.
type Config struct {
	Addr           string
	LogLevel       string
	RequestTimeout time.Duration

	JWTSigningKey string
	TokenTTL      time.Duration
	Parties       []PartyCredential

	LedgerBackend string
	PostgresDSN   string
	Redis         Redis

	KeyDir            string
	DateToleranceDays int

	RateLimit RateLimit

	KafkaBrokers []string
	AuditTopic   string
	AuditBuffer  int
}

// FromEnv builds the configuration from ATTESTO_* environment variables.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:              envString("ATTESTO_ADDR", ":8080"),
		LogLevel:          envString("ATTESTO_LOG_LEVEL", "info"),
		JWTSigningKey:     envString("ATTESTO_JWT_SIGNING_KEY", "dev-signing-key-change-in-production"),
		LedgerBackend:     envString("ATTESTO_LEDGER_BACKEND", LedgerMemory),
		PostgresDSN:       os.Getenv("ATTESTO_POSTGRES_DSN"),
		KeyDir:            envString("ATTESTO_KEY_DIR", "keys"),
		AuditTopic:        envString("ATTESTO_AUDIT_TOPIC", "attesto.verifications"),
		DateToleranceDays: 1,
		AuditBuffer:       256,
	}

	var err error
	if cfg.RequestTimeout, err = envDuration("ATTESTO_REQUEST_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = envDuration("ATTESTO_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DateToleranceDays, err = envInt("ATTESTO_DATE_TOLERANCE_DAYS", cfg.DateToleranceDays); err != nil {
		return Config{}, err
	}
	if cfg.AuditBuffer, err = envInt("ATTESTO_AUDIT_BUFFER", cfg.AuditBuffer); err != nil {
		return Config{}, err
	}

	if cfg.RateLimit.Disabled, err = envBool("ATTESTO_RATELIMIT_DISABLED", false); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.TokenPerMinute, err = envInt("ATTESTO_RATELIMIT_TOKEN_PER_MINUTE", 10); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.VerifyPerMinute, err = envInt("ATTESTO_RATELIMIT_VERIFY_PER_MINUTE", 120); err != nil {
		return Config{}, err
	}

	if brokers := os.Getenv("ATTESTO_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = platformstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}

	if cfg.Parties, err = parseParties(os.Getenv("ATTESTO_PARTIES")); err != nil {
		return Config{}, err
	}

	cfg.Redis = Redis{
		URL:          os.Getenv("ATTESTO_REDIS_URL"),
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	switch cfg.LedgerBackend {
	case LedgerMemory:
	case LedgerPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("ATTESTO_LEDGER_BACKEND=postgres requires ATTESTO_POSTGRES_DSN")
		}
	case LedgerRedis:
		if cfg.Redis.URL == "" {
			return Config{}, fmt.Errorf("ATTESTO_LEDGER_BACKEND=redis requires ATTESTO_REDIS_URL")
		}
	default:
		return Config{}, fmt.Errorf("unknown ATTESTO_LEDGER_BACKEND %q", cfg.LedgerBackend)
	}

	return cfg, nil
}

// parseParties reads "id:bcrypt-hash" pairs separated by commas. Bcrypt
// hashes never contain ':' or ',', so the format is unambiguous.
func parseParties(raw string) ([]PartyCredential, error) {
	if raw == "" {
		return nil, nil
	}
	var creds []PartyCredential
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, hash, ok := strings.Cut(entry, ":")
		if !ok || id == "" || hash == "" {
			return nil, fmt.Errorf("ATTESTO_PARTIES entry %q is not id:bcrypt-hash", entry)
		}
		creds = append(creds, PartyCredential{ID: id, SecretHash: hash})
	}
	return creds, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
