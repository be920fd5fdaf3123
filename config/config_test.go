package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, CacheBackendMemory, cfg.CacheBackend)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 200, cfg.MinContentChars)
	assert.False(t, cfg.EventsEnabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "memcache")
	t.Setenv("MEMCACHE_ADDR", "cache:11211")
	t.Setenv("CACHE_TTL_MINUTES", "10")
	t.Setenv("API_KEYS_JSON", `{"key-1":{"nome":"Cliente","plano":"pro"}}`)

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, CacheBackendMemcache, cfg.CacheBackend)
	assert.Equal(t, "cache:11211", cfg.MemcacheAddr)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, "Cliente", cfg.APIKeys["key-1"].Nome)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigMalformedAPIKeys(t *testing.T) {
	t.Setenv("API_KEYS_JSON", "{not json")

	cfg := LoadConfig()
	assert.Empty(t, cfg.APIKeys)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := LoadConfig()
	cfg.CacheBackend = "etcd"
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.MaxRetries = 0
	assert.Error(t, cfg.Validate())

	cfg = LoadConfig()
	cfg.EventsEnabled = true
	cfg.RedisAddr = ""
	assert.Error(t, cfg.Validate())
}
