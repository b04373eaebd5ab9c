package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_TYPE", "")
	t.Setenv("CASCADE_MAX_ATTEMPTS", "")
	t.Setenv("TOKEN_TTL", "")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.DBType)
	assert.Equal(t, 5, cfg.CascadeMaxAttempts)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "memory")
	t.Setenv("CASCADE_MAX_ATTEMPTS", "2")
	t.Setenv("CASCADE_RETRY_DELAY", "250ms")
	t.Setenv("QUEUE_WORKERS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "memory", cfg.DBType)
	assert.Equal(t, 2, cfg.CascadeMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.CascadeRetryDelay)
	assert.Equal(t, 4, cfg.QueueWorkers)
}
