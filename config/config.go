package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Cache backends supported by the extraction pipeline.
const (
	CacheBackendMemory   = "memory"
	CacheBackendMemcache = "memcache"
)

// APIKeyData describes one tenant key loaded from API_KEYS_JSON.
type APIKeyData struct {
	Nome   string `json:"nome"`
	Plano  string `json:"plano"`
	Active *bool  `json:"active,omitempty"`
}

// Config represents the application configuration
type Config struct {
	// HTTP server
	Port string

	// Lead storage
	DataDir string

	// Cache configuration
	CacheBackend string
	MemcacheAddr string
	CacheTTL     time.Duration

	// Redis event stream configuration
	EventsEnabled        bool
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Extraction configuration
	ChromeDisabled  bool
	MinContentChars int
	MaxRetries      int

	// Tenant API keys
	APIKeys map[string]APIKeyData

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "30"))
	minContent, _ := strconv.Atoi(getEnv("MIN_CONTENT_CHARS", "200"))
	maxRetries, _ := strconv.Atoi(getEnv("MAX_RETRIES", "3"))

	return Config{
		Port:                 getEnv("PORT", "8080"),
		DataDir:              getEnv("DATA_DIR", "./data"),
		CacheBackend:         getEnv("CACHE_BACKEND", CacheBackendMemory),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		CacheTTL:             time.Duration(cacheTTL) * time.Minute,
		EventsEnabled:        getEnv("EVENTS_ENABLED", "false") == "true",
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "leadscout"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		ChromeDisabled:       getEnv("CHROME_DISABLED", "false") == "true",
		MinContentChars:      minContent,
		MaxRetries:           maxRetries,
		APIKeys:              loadAPIKeys(),
		Environment:          getEnv("LEADSCOUT_ENVIRONMENT", "development"),
	}
}

// loadAPIKeys parses tenant keys from the API_KEYS_JSON environment variable.
// A missing or malformed value yields an empty key set, not an error; the
// server then rejects every authenticated route.
func loadAPIKeys() map[string]APIKeyData {
	raw := os.Getenv("API_KEYS_JSON")
	if raw == "" {
		return map[string]APIKeyData{}
	}

	keys := map[string]APIKeyData{}
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return map[string]APIKeyData{}
	}
	return keys
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.CacheBackend != CacheBackendMemory && c.CacheBackend != CacheBackendMemcache {
		return fmt.Errorf("unknown cache backend: %q", c.CacheBackend)
	}
	if c.CacheBackend == CacheBackendMemcache && c.MemcacheAddr == "" {
		return fmt.Errorf("MEMCACHE_ADDR required for memcache backend")
	}
	if c.EventsEnabled && c.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR required when events are enabled")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_MINUTES must be positive")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("MAX_RETRIES must be at least 1")
	}
	if c.RedisStreamCount < 1 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
