// Package config loads the NewsFlow settings file.
//
// A minimal install needs nothing beyond the defaults: an embedded SQLite
// database, in-memory caching and translation disabled. Secrets may be set
// in the YAML file or injected through the environment.
package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Settings is the full configuration surface for a NewsFlow process.
type Settings struct {
	// DatabaseType selects the database/sql driver: "sqlite3" or "postgres".
	DatabaseType string `yaml:"database_type"`
	// DatabaseURL is the driver-specific DSN (file path for sqlite3).
	DatabaseURL string `yaml:"database_url"`

	// Scheduling.
	FetchIntervalMinutes int `yaml:"fetch_interval_minutes"`
	CleanupIntervalHours int `yaml:"cleanup_interval_hours"`
	EntryRetentionDays   int `yaml:"entry_retention_days"`

	// Fetching.
	MaxConcurrentFetches int `yaml:"max_concurrent_fetches"`

	// Cache: "memory" or "redis".
	CacheBackend           string `yaml:"cache_backend"`
	RedisURL               string `yaml:"redis_url"`
	TranslationCacheTTLDays int   `yaml:"translation_cache_ttl_days"`

	// Translation.
	TranslationEnabled  bool   `yaml:"translation_enabled"`
	TranslationProvider string `yaml:"translation_provider"` // google, deepl, openai
	GoogleAPIKey        string `yaml:"google_api_key"`
	DeepLAPIKey         string `yaml:"deepl_api_key"`
	OpenAIAPIKey        string `yaml:"openai_api_key"`
	OpenAIModel         string `yaml:"openai_model"`
	OpenAIBaseURL       string `yaml:"openai_base_url"`

	// Quotas. 0 means unlimited.
	MaxFeedsPerChannel int `yaml:"max_feeds_per_channel"`

	// Ops HTTP API (health, stats, admin, metrics).
	APIEnabled  bool   `yaml:"api_enabled"`
	BindAddress string `yaml:"bind_address"`

	// Logging.
	LogLevel  string `yaml:"log_level"`  // debug, info, warning, error
	LogFormat string `yaml:"log_format"` // console, json
	LogDir    string `yaml:"log_dir"`
}

// Defaults returns the self-hosted friendly default settings.
func Defaults() *Settings {
	return &Settings{
		DatabaseType:            "sqlite3",
		DatabaseURL:             "./data/newsflow.db",
		FetchIntervalMinutes:    60,
		CleanupIntervalHours:    24,
		EntryRetentionDays:      7,
		MaxConcurrentFetches:    10,
		CacheBackend:            "memory",
		TranslationCacheTTLDays: 7,
		TranslationProvider:     "deepl",
		OpenAIModel:             "gpt-4o-mini",
		BindAddress:             ":8080",
		LogLevel:                "info",
		LogFormat:               "console",
	}
}

// Load reads the settings from a YAML file, applies defaults for anything
// unset, then applies environment overrides. An empty path loads defaults
// and environment only.
func Load(path string) (*Settings, error) {
	s := Defaults()
	if path != "" {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(contents, s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}
	s.applyEnv()
	if err := s.Check(); err != nil {
		return nil, err
	}
	return s, nil
}

// applyEnv lets secrets and deployment paths come from the environment so
// the config file can be committed without credentials.
func (s *Settings) applyEnv() {
	overrides := map[string]*string{
		"DATABASE_TYPE":  &s.DatabaseType,
		"DATABASE_URL":   &s.DatabaseURL,
		"REDIS_URL":      &s.RedisURL,
		"GOOGLE_API_KEY": &s.GoogleAPIKey,
		"DEEPL_API_KEY":  &s.DeepLAPIKey,
		"OPENAI_API_KEY": &s.OpenAIAPIKey,
		"BIND_ADDRESS":   &s.BindAddress,
		"LOG_DIR":        &s.LogDir,
	}
	for name, field := range overrides {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

// Check validates the settings. Errors here are fatal at startup.
func (s *Settings) Check() error {
	if s.DatabaseType != "sqlite3" && s.DatabaseType != "postgres" {
		return fmt.Errorf("database_type must be sqlite3 or postgres, got %q", s.DatabaseType)
	}
	if s.DatabaseURL == "" {
		return fmt.Errorf("database_url must be set")
	}
	if s.FetchIntervalMinutes < 1 {
		return fmt.Errorf("fetch_interval_minutes must be >= 1, got %d", s.FetchIntervalMinutes)
	}
	if s.CleanupIntervalHours < 1 {
		return fmt.Errorf("cleanup_interval_hours must be >= 1, got %d", s.CleanupIntervalHours)
	}
	if s.EntryRetentionDays < 1 {
		return fmt.Errorf("entry_retention_days must be >= 1, got %d", s.EntryRetentionDays)
	}
	if s.MaxConcurrentFetches < 1 {
		return fmt.Errorf("max_concurrent_fetches must be >= 1, got %d", s.MaxConcurrentFetches)
	}
	switch s.CacheBackend {
	case "memory":
	case "redis":
		if s.RedisURL == "" {
			return fmt.Errorf("cache_backend is redis but redis_url is not set")
		}
	default:
		return fmt.Errorf("cache_backend must be memory or redis, got %q", s.CacheBackend)
	}
	switch s.TranslationProvider {
	case "google", "deepl", "openai":
	default:
		return fmt.Errorf("translation_provider must be google, deepl or openai, got %q", s.TranslationProvider)
	}
	if s.TranslationEnabled && !s.CanTranslate() {
		return fmt.Errorf("translation_enabled but %s credentials are missing", s.TranslationProvider)
	}
	return nil
}

// CanTranslate reports whether translation is enabled and the configured
// provider has credentials.
func (s *Settings) CanTranslate() bool {
	if !s.TranslationEnabled {
		return false
	}
	switch s.TranslationProvider {
	case "google":
		return s.GoogleAPIKey != ""
	case "deepl":
		return s.DeepLAPIKey != ""
	case "openai":
		return s.OpenAIAPIKey != ""
	}
	return false
}

// FetchInterval is the dispatch cycle period.
func (s *Settings) FetchInterval() time.Duration {
	return time.Duration(s.FetchIntervalMinutes) * time.Minute
}

// CleanupInterval is the janitor period.
func (s *Settings) CleanupInterval() time.Duration {
	return time.Duration(s.CleanupIntervalHours) * time.Hour
}

// EntryRetention is how long entries and receipts are kept.
func (s *Settings) EntryRetention() time.Duration {
	return time.Duration(s.EntryRetentionDays) * 24 * time.Hour
}

// TranslationCacheTTL is how long cached translations live.
func (s *Settings) TranslationCacheTTL() time.Duration {
	return time.Duration(s.TranslationCacheTTLDays) * 24 * time.Hour
}
