package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("OBS_ENVIRONMENT", "local")
	t.Setenv("AUTH_JWT_SECRET", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	assert.Equal(t, StockPolicyLenient, cfg.Orders.StockPolicy)
	assert.Equal(t, 5, cfg.Orders.CodeAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.CustomerTokenTTL)
	assert.Equal(t, 12*time.Hour, cfg.Auth.WorkerTokenTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, int64(5<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, 1.0, cfg.Observability.TraceSampleRate)
	assert.Equal(t, 3, cfg.Messaging.Workers.MaxAttempts)
}

func TestNewAcceptsMemoryBus(t *testing.T) {
	t.Setenv("MESSAGING_DRIVER", "memory")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("WORKER_MAX_ATTEMPTS", "-2")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Messaging.Driver)
	assert.Equal(t, 1, cfg.Messaging.Workers.MaxAttempts)
}

func TestNewNormalisesValues(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("ORDER_STOCK_POLICY", " STRICT ")
	t.Setenv("ORDER_CODE_ATTEMPTS", "0")
	t.Setenv("OBS_PROMETHEUS_PATH", "metrics")
	t.Setenv("KAFKA_BROKERS", "a:9092, ,b:9092")
	t.Setenv("UPLOAD_MAX_BYTES", "2mb")
	t.Setenv("OBS_TRACE_SAMPLE_RATE", "0.25")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "noop", cfg.Cache.Driver)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
	assert.Equal(t, StockPolicyStrict, cfg.Orders.StockPolicy)
	assert.Equal(t, 1, cfg.Orders.CodeAttempts)
	assert.Equal(t, "/metrics", cfg.Observability.PrometheusPath)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Messaging.Kafka.Brokers)
	assert.Equal(t, int64(2<<20), cfg.Uploads.MaxBytes)
	assert.Equal(t, 0.25, cfg.Observability.TraceSampleRate)
}

func TestParseBytes(t *testing.T) {
	cases := map[string]int64{
		"1024":   1024,
		"512KB":  512 << 10,
		" 5 MB ": 5 << 20,
		"1gb":    1 << 30,
		"10B":    10,
	}
	for in, want := range cases {
		got, ok := parseBytes(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "MB", "-1", "five"} {
		_, ok := parseBytes(in)
		assert.False(t, ok, in)
	}
}

func TestNewRejectsInvalidSettings(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{name: "http port", env: map[string]string{"HTTP_PORT": "0"}},
		{name: "cache driver", env: map[string]string{"CACHE_DRIVER": "memcached"}},
		{name: "stock policy", env: map[string]string{"ORDER_STOCK_POLICY": "reserve"}},
		{name: "trace sample rate", env: map[string]string{"OBS_TRACE_SAMPLE_RATE": "1.5"}},
		{name: "bcrypt cost", env: map[string]string{"AUTH_BCRYPT_COST": "2"}},
		{name: "jwt secret in production", env: map[string]string{"OBS_ENVIRONMENT": "production", "AUTH_JWT_SECRET": ""}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := New()
			assert.Error(t, err)
		})
	}
}
