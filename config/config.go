// Package config loads service configuration from environment variables
// with validation and production-safe defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database DatabaseConfig
	Upstream UpstreamConfig
	Analysis AnalysisConfig
	Scraper  ScraperConfig
	Jobs     JobsConfig
	Consumer ConsumerConfig
	Server   ServerConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// UpstreamConfig holds credentials for the third-party review API.
// Key and Host may legitimately be empty at process start; the pipeline
// fails the submission before any network call when they are.
type UpstreamConfig struct {
	Key     string // RAPIDAPI_KEY
	Host    string // RAPIDAPI_HOST
	Country string
	Timeout time.Duration
}

type AnalysisConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type ScraperConfig struct {
	MaxPages   int
	MaxReviews int
	PageDelay  time.Duration

	// Prompt bounds for the analysis request.
	MaxReviewChars int
	MaxPromptChars int
}

type JobsConfig struct {
	PendingPollInterval time.Duration
	PendingBatchSize    int
}

type ConsumerConfig struct {
	Enabled      bool
	RedisURL     string
	StreamKey    string
	GroupName    string
	ConsumerName string
}

type ServerConfig struct {
	Port int
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database = DatabaseConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     os.Getenv("REVIEW_PROCESSOR_DB_USER"),
		Password: os.Getenv("REVIEW_PROCESSOR_DB_PASSWORD"),
		Name:     envOr("DB_NAME", "reviews"),
	}

	cfg.Upstream = UpstreamConfig{
		Key:     os.Getenv("RAPIDAPI_KEY"),
		Host:    os.Getenv("RAPIDAPI_HOST"),
		Country: envOr("RAPIDAPI_COUNTRY", "US"),
	}

	cfg.Analysis = AnalysisConfig{
		BaseURL: envOr("ANALYSIS_API_BASE_URL", "https://api.deepseek.com"),
		APIKey:  os.Getenv("ANALYSIS_API_KEY"),
		Model:   envOr("ANALYSIS_MODEL", "deepseek-chat"),
	}

	var err error

	if cfg.Upstream.Timeout, err = envDuration("UPSTREAM_TIMEOUT", 45*time.Second); err != nil {
		return nil, err
	}

	if cfg.Analysis.Timeout, err = envDuration("ANALYSIS_TIMEOUT", 240*time.Second); err != nil {
		return nil, err
	}

	if cfg.Scraper.MaxPages, err = envInt("SCRAPER_MAX_PAGES", 100); err != nil {
		return nil, err
	}

	if cfg.Scraper.MaxReviews, err = envInt("SCRAPER_MAX_REVIEWS", 1000); err != nil {
		return nil, err
	}

	if cfg.Scraper.PageDelay, err = envDuration("SCRAPER_PAGE_DELAY", 1500*time.Millisecond); err != nil {
		return nil, err
	}

	if cfg.Scraper.MaxReviewChars, err = envInt("SCRAPER_MAX_REVIEW_CHARS", 500); err != nil {
		return nil, err
	}

	if cfg.Scraper.MaxPromptChars, err = envInt("SCRAPER_MAX_PROMPT_CHARS", 48000); err != nil {
		return nil, err
	}

	if cfg.Jobs.PendingPollInterval, err = envDuration("PENDING_POLL_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	if cfg.Jobs.PendingBatchSize, err = envInt("PENDING_BATCH_SIZE", 10); err != nil {
		return nil, err
	}

	cfg.Consumer = ConsumerConfig{
		Enabled:      os.Getenv("CONSUMER_ENABLED") == "true",
		RedisURL:     envOr("REDIS_URL", "redis://localhost:6379"),
		StreamKey:    envOr("CONSUMER_STREAM_KEY", "reviews:events:submissions"),
		GroupName:    envOr("CONSUMER_GROUP", "review-processor-group"),
		ConsumerName: envOr("CONSUMER_NAME", "review-processor-1"),
	}

	if cfg.Server.Port, err = envInt("SERVER_PORT", 9300); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Scraper.MaxPages <= 0 {
		return fmt.Errorf("SCRAPER_MAX_PAGES must be positive, got %d", cfg.Scraper.MaxPages)
	}

	if cfg.Scraper.MaxReviews <= 0 {
		return fmt.Errorf("SCRAPER_MAX_REVIEWS must be positive, got %d", cfg.Scraper.MaxReviews)
	}

	if cfg.Scraper.PageDelay < 0 {
		return fmt.Errorf("SCRAPER_PAGE_DELAY must not be negative")
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT out of range: %d", cfg.Server.Port)
	}

	return nil
}

// HasCredentials reports whether upstream API credentials are present.
func (u UpstreamConfig) HasCredentials() bool {
	return u.Key != "" && u.Host != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}

	return d, nil
}
