package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Apify     ApifyConfig
	Firecrawl FirecrawlConfig
	OpenAI    OpenAIConfig
	Cache     CacheConfig
	Matching  MatchingConfig
	Data      DataConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ApifyConfig holds Apify scraping configuration
type ApifyConfig struct {
	APIToken string `mapstructure:"api_token"`
	BaseURL  string `mapstructure:"base_url"`
}

// FirecrawlConfig holds Firecrawl scraping configuration
type FirecrawlConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig holds semantic matching configuration. An empty API key
// disables AI matching and the engine falls back to keyword matching.
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// MatchingConfig holds comparison engine thresholds
type MatchingConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	ArbitrageThreshold  float64 `mapstructure:"arbitrage_threshold"`
	MinReviews          int     `mapstructure:"min_reviews"`
	MaxResults          int     `mapstructure:"max_results"`
}

// DataConfig holds snapshot storage configuration
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/marketgap/")

	v.SetEnvPrefix("MARKETGAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Scraping defaults
	v.SetDefault("apify.base_url", "https://api.apify.com")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev")

	// Semantic matching defaults
	v.SetDefault("openai.model", "gpt-4o-mini")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "12h")

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.3)
	v.SetDefault("matching.arbitrage_threshold", 0.2)
	v.SetDefault("matching.min_reviews", 1000)
	v.SetDefault("matching.max_results", 20)

	// Data defaults
	v.SetDefault("data.dir", "./data")

	// Log defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Matching.SimilarityThreshold < 0 || config.Matching.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be within [0, 1], got: %g", config.Matching.SimilarityThreshold)
	}

	if config.Matching.ArbitrageThreshold < 0 || config.Matching.ArbitrageThreshold > 1 {
		return fmt.Errorf("arbitrage threshold must be within [0, 1], got: %g", config.Matching.ArbitrageThreshold)
	}

	if config.Matching.MinReviews < 0 {
		return fmt.Errorf("min reviews must not be negative, got: %d", config.Matching.MinReviews)
	}

	return nil
}
