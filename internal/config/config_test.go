package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("STORE_TIMEOUT", "")
	t.Setenv("BLOB_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "local", cfg.BlobBackend)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("JWT_ACCESS_EXPIRY", "not-a-duration")
	t.Setenv("TIMEZONE", "UTC")

	cfg := Load()

	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessExpiry)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLocation_Fallback(t *testing.T) {
	assert.Equal(t, time.Local, (&Config{Timezone: "Local"}).Location())
	assert.Equal(t, time.Local, (&Config{Timezone: "Mars/Olympus"}).Location())
}
