// Package config provides configuration management for the application.
// Values come from the process environment, optionally seeded from a .env
// file. A missing provider credential is never fatal; it puts the resolver
// into degraded fallback-only mode.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Cache    CacheConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
}

// ProviderConfig selects and credentials the active search provider.
type ProviderConfig struct {
	// Type is the active adapter: "polypizza" (default) or "sketchfab".
	Type string
	// PolyPizzaAPIKey authenticates against api.poly.pizza.
	PolyPizzaAPIKey string
	// SketchfabToken authenticates against api.sketchfab.com.
	SketchfabToken string
	// SearchTimeout bounds a provider search call.
	SearchTimeout time.Duration
	// DownloadTimeout bounds each per-candidate download-URL lookup.
	DownloadTimeout time.Duration
}

// APIKey returns the credential for the active provider type.
func (p ProviderConfig) APIKey() string {
	if p.Type == "sketchfab" {
		return p.SketchfabToken
	}
	return p.PolyPizzaAPIKey
}

// CacheConfig holds model-cache configuration.
type CacheConfig struct {
	// TTL is how long a cached result set stays fresh.
	TTL time.Duration
	// Capacity bounds the in-memory store's entry count.
	Capacity int
	// RedisURL, when set, selects the Redis backend instead of the
	// process-local memory store.
	RedisURL string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Provider: ProviderConfig{
			Type:            getEnv("MODEL_PROVIDER", "polypizza"),
			PolyPizzaAPIKey: os.Getenv("POLY_PIZZA_API_KEY"),
			SketchfabToken:  os.Getenv("SKETCHFAB_API_TOKEN"),
			SearchTimeout:   getEnvDuration("SEARCH_TIMEOUT", 15*time.Second),
			DownloadTimeout: getEnvDuration("DOWNLOAD_TIMEOUT", 10*time.Second),
		},
		Cache: CacheConfig{
			TTL:      getEnvDuration("CACHE_TTL", 30*time.Minute),
			Capacity: getEnvInt("CACHE_CAPACITY", 20),
			RedisURL: os.Getenv("CACHE_REDIS_URL"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// getEnvDuration accepts plain integers (seconds) or Go duration strings.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return defaultVal
}
