package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, LedgerMemory, cfg.LedgerBackend)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 1, cfg.DateToleranceDays)
	assert.Equal(t, "attesto.verifications", cfg.AuditTopic)
	assert.Empty(t, cfg.Parties)
	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 10, cfg.RateLimit.TokenPerMinute)
	assert.Equal(t, 120, cfg.RateLimit.VerifyPerMinute)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("ATTESTO_ADDR", ":9090")
	t.Setenv("ATTESTO_TOKEN_TTL", "30m")
	t.Setenv("ATTESTO_DATE_TOLERANCE_DAYS", "0")
	t.Setenv("ATTESTO_KAFKA_BROKERS", "broker-1:9092, broker-2:9092, broker-1:9092")
	t.Setenv("ATTESTO_PARTIES", "acme-checkout:$2a$10$abcdef,globex:$2a$10$ghijkl")
	t.Setenv("ATTESTO_RATELIMIT_DISABLED", "true")
	t.Setenv("ATTESTO_RATELIMIT_TOKEN_PER_MINUTE", "3")
	t.Setenv("ATTESTO_RATELIMIT_VERIFY_PER_MINUTE", "600")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 0, cfg.DateToleranceDays)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	require.Len(t, cfg.Parties, 2)
	assert.Equal(t, "acme-checkout", cfg.Parties[0].ID)
	assert.Equal(t, "$2a$10$abcdef", cfg.Parties[0].SecretHash)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 3, cfg.RateLimit.TokenPerMinute)
	assert.Equal(t, 600, cfg.RateLimit.VerifyPerMinute)
}

func TestFromEnv_Failures(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ATTESTO_TOKEN_TTL", "soon")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("postgres backend without dsn", func(t *testing.T) {
		t.Setenv("ATTESTO_LEDGER_BACKEND", LedgerPostgres)
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("redis backend without url", func(t *testing.T) {
		t.Setenv("ATTESTO_LEDGER_BACKEND", LedgerRedis)
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("ATTESTO_LEDGER_BACKEND", "etcd")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("malformed party entry", func(t *testing.T) {
		t.Setenv("ATTESTO_PARTIES", "no-colon-here")
		_, err := FromEnv()
		assert.Error(t, err)
	})

	t.Run("bad rate limit flag", func(t *testing.T) {
		t.Setenv("ATTESTO_RATELIMIT_DISABLED", "nope")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
