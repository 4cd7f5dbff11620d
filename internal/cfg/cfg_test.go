package cfg

import (
	"testing"
	"time"

	"github.com/DRSN-tech/go-marketplace/pkg/e"
	"github.com/DRSN-tech/go-marketplace/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_USER", "market")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "market")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Http.Port)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "marketplace-events", cfg.Kafka.Topic)
	assert.Equal(t, "usd", cfg.Stripe.Currency)
	assert.Equal(t, int64(100), cfg.Stripe.PlatformFee)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 3*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, "db/migrations", cfg.Db.MigrationsPath)
	assert.Equal(t, int32(10), cfg.Db.MaxConns)
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_CURRENCY", "EUR")
	t.Setenv("PLATFORM_FEE", "250")
	t.Setenv("WRITE_TIMEOUT", "7s")
	t.Setenv("TOKEN_TTL", "15m")

	cfg, err := Load(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "eur", cfg.Stripe.Currency)
	assert.Equal(t, int64(250), cfg.Stripe.PlatformFee)
	assert.Equal(t, 7*time.Second, cfg.Redis.Timeout)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
}

func TestLoadRequiresSecrets(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := Load(logger.NewNop())
	assert.ErrorContains(t, err, "STRIPE_WEBHOOK_SECRET is required")
}

func TestLoadRejectsNegativeFee(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PLATFORM_FEE", "-1")

	_, err := Load(logger.NewNop())
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
}

func TestParseIntEnvInvalid(t *testing.T) {
	t.Setenv("SOME_INT", "abc")

	v, err := parseIntEnv("SOME_INT", 5)
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
	assert.Equal(t, 5, v)
}

func TestLoadRejectsPoolBounds(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_MAX_CONNS", "4")
	t.Setenv("POSTGRES_MIN_CONNS", "5")

	_, err := Load(logger.NewNop())
	assert.ErrorIs(t, err, e.ErrIncorrectEnvVariable)
}
