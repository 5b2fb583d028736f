package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanupEnv := func() {
		os.Unsetenv("MARKETGAP_SERVER_PORT")
		os.Unsetenv("MARKETGAP_SERVER_ENVIRONMENT")
		os.Unsetenv("MARKETGAP_APIFY_API_TOKEN")
		os.Unsetenv("MARKETGAP_FIRECRAWL_API_KEY")
		os.Unsetenv("MARKETGAP_OPENAI_API_KEY")
		os.Unsetenv("MARKETGAP_OPENAI_MODEL")
		os.Unsetenv("MARKETGAP_CACHE_TYPE")
		os.Unsetenv("MARKETGAP_CACHE_REDIS_URL")
		os.Unsetenv("MARKETGAP_CACHE_TTL")
		os.Unsetenv("MARKETGAP_MATCHING_SIMILARITY_THRESHOLD")
		os.Unsetenv("MARKETGAP_MATCHING_ARBITRAGE_THRESHOLD")
		os.Unsetenv("MARKETGAP_MATCHING_MIN_REVIEWS")
		os.Unsetenv("MARKETGAP_DATA_DIR")
		os.Unsetenv("MARKETGAP_LOG_LEVEL")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Apify.BaseURL != "https://api.apify.com" {
			t.Errorf("Apify.BaseURL = %s", cfg.Apify.BaseURL)
		}
		if cfg.Firecrawl.BaseURL != "https://api.firecrawl.dev" {
			t.Errorf("Firecrawl.BaseURL = %s", cfg.Firecrawl.BaseURL)
		}
		if cfg.OpenAI.Model != "gpt-4o-mini" {
			t.Errorf("OpenAI.Model = %s, want gpt-4o-mini", cfg.OpenAI.Model)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 12*time.Hour {
			t.Errorf("Cache.TTL = %v, want 12h", cfg.Cache.TTL)
		}
		if cfg.Matching.SimilarityThreshold != 0.3 {
			t.Errorf("Matching.SimilarityThreshold = %v, want 0.3", cfg.Matching.SimilarityThreshold)
		}
		if cfg.Matching.ArbitrageThreshold != 0.2 {
			t.Errorf("Matching.ArbitrageThreshold = %v, want 0.2", cfg.Matching.ArbitrageThreshold)
		}
		if cfg.Matching.MinReviews != 1000 {
			t.Errorf("Matching.MinReviews = %d, want 1000", cfg.Matching.MinReviews)
		}
		if cfg.Matching.MaxResults != 20 {
			t.Errorf("Matching.MaxResults = %d, want 20", cfg.Matching.MaxResults)
		}
		if cfg.Data.Dir != "./data" {
			t.Errorf("Data.Dir = %s, want ./data", cfg.Data.Dir)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MARKETGAP_SERVER_PORT", "9090")
		os.Setenv("MARKETGAP_APIFY_API_TOKEN", "apify-token")
		os.Setenv("MARKETGAP_CACHE_TTL", "1h")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Apify.APIToken != "apify-token" {
			t.Errorf("Apify.APIToken = %s, want apify-token", cfg.Apify.APIToken)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
	})

	t.Run("rejects invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MARKETGAP_CACHE_TYPE", "memcached")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want invalid cache type error")
		}
	})

	t.Run("redis cache requires a URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MARKETGAP_CACHE_TYPE", "redis")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want missing redis URL error")
		}
	})

	t.Run("redis cache with URL is accepted", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MARKETGAP_CACHE_TYPE", "redis")
		os.Setenv("MARKETGAP_CACHE_REDIS_URL", "redis://localhost:6379/0")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
			t.Errorf("Cache.RedisURL = %s", cfg.Cache.RedisURL)
		}
	})

	t.Run("rejects out-of-range thresholds", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("MARKETGAP_MATCHING_SIMILARITY_THRESHOLD", "1.5")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want threshold validation error")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Cache:    CacheConfig{Type: "memory"},
		Matching: MatchingConfig{SimilarityThreshold: 0.3, ArbitrageThreshold: 0.2, MinReviews: 1000},
	}
	if err := validate(valid); err != nil {
		t.Errorf("validate() error = %v, want nil", err)
	}

	negativeReviews := &Config{
		Cache:    CacheConfig{Type: "memory"},
		Matching: MatchingConfig{MinReviews: -5},
	}
	if err := validate(negativeReviews); err == nil {
		t.Error("validate() error = nil, want negative min reviews error")
	}
}
