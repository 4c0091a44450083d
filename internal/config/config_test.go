package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"poslito/internal/config"
)

func resetFlags(t *testing.T) {
	t.Helper()
	old := pflag.CommandLine
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ContinueOnError)
	t.Cleanup(func() {
		pflag.CommandLine = old
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "PPROF_PORT", "PPROF_USER", "PPROF_PASS",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"REDIS_ADDR", "REDIS_POSITION_TTL",
		"KAFKA_BROKERS", "KAFKA_TOPIC", "KAFKA_GROUP",
		"JWT_SECRET", "GOOGLE_MAPS_API_KEY",
		"MATCHING_LIMIT",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RATE", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 6060, cfg.Pprof.Port)

	require.Equal(t, "127.0.0.1", cfg.DB.Host)
	require.Equal(t, "5432", cfg.DB.Port)
	require.Equal(t, "poslito", cfg.DB.Name)

	require.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	require.Equal(t, time.Hour, cfg.Redis.PositionTTL)

	// no brokers means kafka stays off
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, "delivery-events", cfg.Kafka.Topic)

	require.Equal(t, 10, cfg.Matching.Limit)
	require.True(t, cfg.RateLimit.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("POSTGRES_DB", "service")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_POSITION_TTL", "30m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MATCHING_LIMIT", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "postgres://u:p@db:15432/service", cfg.DB.DSN())
	require.Equal(t, "redis:6379", cfg.Redis.Addr)
	require.Equal(t, 30*time.Minute, cfg.Redis.PositionTTL)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	require.Equal(t, 10, cfg.Matching.Limit)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoad_InvalidPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "70000")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidPostgresPort(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("POSTGRES_PORT", "not-a-number")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidPositionTTL(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("REDIS_POSITION_TTL", "soon")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_InvalidMatchingLimit(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("MATCHING_LIMIT", "0")

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoad_FlagsParseError(t *testing.T) {
	oldArgs := os.Args
	oldCommandLine := pflag.CommandLine

	defer func() {
		os.Args = oldArgs
		pflag.CommandLine = oldCommandLine
	}()

	clearEnv(t)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = []string{"cmd", "--port=not-a-number"}

	cfg, err := config.Load()

	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}
