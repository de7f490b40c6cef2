package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
}

func TestNewDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Minute, cfg.Orders.LockWindow)
	assert.Equal(t, 24*time.Hour, cfg.Orders.HistoryWindow)
	assert.Equal(t, 20, cfg.Orders.HistoryLimit)
	assert.True(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, 3*time.Second, cfg.Orders.StorageTimeout)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	assert.Equal(t, "/metrics", cfg.Observability.PrometheusPath)
}

func TestNewOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ORDER_LOCK_WINDOW", "90s")
	t.Setenv("ORDER_HISTORY_LIMIT", "5")
	t.Setenv("ORDER_STRICT_TRANSITIONS", "false")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("OBS_PROMETHEUS_PATH", "prom")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Orders.LockWindow)
	assert.Equal(t, 5, cfg.Orders.HistoryLimit)
	assert.False(t, cfg.Orders.StrictTransitions)
	assert.Equal(t, "noop", cfg.Cache.Driver)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
	assert.Equal(t, "/prom", cfg.Observability.PrometheusPath)
	assert.InDelta(t, 2.5, cfg.RateLimit.RequestsPerSecond, 0.0001)
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {"AUTH_JWT_SECRET": ""},
		"bad port":         {"HTTP_PORT": "0"},
		"bad cache driver": {"CACHE_DRIVER": "memcached"},
		"bad db driver":    {"DB_DRIVER": "oracle"},
		"bad lock window":  {"ORDER_LOCK_WINDOW": "-1m"},
		"bad rate":         {"RATE_LIMIT_RPS": "0"},
		"bad sample ratio": {"OBS_TRACE_SAMPLE_RATIO": "1.5"},
		"bad history cap":  {"ORDER_HISTORY_LIMIT": "0"},
		"bad bus driver":   {"MESSAGING_DRIVER": "nats"},
	}

	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := New()
			assert.Error(t, err)
		})
	}
}

func TestGetEnvAsStringSliceTrims(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:1 , ,b:2")

	assert.Equal(t, []string{"a:1", "b:2"}, getEnvAsStringSlice("KAFKA_BROKERS", nil))
	assert.Equal(t, []string{"x"}, getEnvAsStringSlice("UNSET_BROKERS_KEY", []string{"x"}))
}

func TestNewNormalizesDrivers(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", " SQLite ")
	t.Setenv("CACHE_PREFIX", ":tableside:")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "tableside", cfg.Cache.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Messaging.Workers.MaxBackoff)
}
