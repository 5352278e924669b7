package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MODEL_PROVIDER", "POLY_PIZZA_API_KEY", "SKETCHFAB_API_TOKEN",
		"SEARCH_TIMEOUT", "DOWNLOAD_TIMEOUT", "CACHE_TTL", "CACHE_CAPACITY", "CACHE_REDIS_URL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Provider.Type != "polypizza" {
		t.Errorf("Provider.Type = %q", cfg.Provider.Type)
	}
	if cfg.Provider.SearchTimeout != 15*time.Second || cfg.Provider.DownloadTimeout != 10*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.Provider.SearchTimeout, cfg.Provider.DownloadTimeout)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Capacity != 20 {
		t.Errorf("Cache.Capacity = %d", cfg.Cache.Capacity)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("MODEL_PROVIDER", "sketchfab")
	t.Setenv("SKETCHFAB_API_TOKEN", "tok")
	t.Setenv("SEARCH_TIMEOUT", "30")
	t.Setenv("DOWNLOAD_TIMEOUT", "2500ms")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("CACHE_CAPACITY", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9999" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Provider.Type != "sketchfab" {
		t.Errorf("Provider.Type = %q", cfg.Provider.Type)
	}
	// Plain integers read as seconds, duration strings as-is.
	if cfg.Provider.SearchTimeout != 30*time.Second {
		t.Errorf("SearchTimeout = %v", cfg.Provider.SearchTimeout)
	}
	if cfg.Provider.DownloadTimeout != 2500*time.Millisecond {
		t.Errorf("DownloadTimeout = %v", cfg.Provider.DownloadTimeout)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Capacity != 50 {
		t.Errorf("Cache.Capacity = %d", cfg.Cache.Capacity)
	}
}

func TestProviderAPIKeySelection(t *testing.T) {
	p := ProviderConfig{
		Type:            "polypizza",
		PolyPizzaAPIKey: "poly-key",
		SketchfabToken:  "sk-token",
	}
	if p.APIKey() != "poly-key" {
		t.Errorf("APIKey() = %q", p.APIKey())
	}

	p.Type = "sketchfab"
	if p.APIKey() != "sk-token" {
		t.Errorf("APIKey() = %q", p.APIKey())
	}
}
