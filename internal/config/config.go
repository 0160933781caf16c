package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"estates/internal/debounce"
	"estates/internal/format"
	"estates/internal/query"
	"estates/internal/util"
)

// Config holds the application settings read from the environment.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Search  SearchConfig
	UI      UIConfig
	App     AppConfig
}

// ServerConfig tunes the HTTP API.
type ServerConfig struct {
	Addr        string
	StaticDir   string
	CORSOrigins []string
	RateLimit   float64
	RateBurst   int
}

// CatalogConfig locates the catalog source.
type CatalogConfig struct {
	Path string
}

// SearchConfig selects the match strategy and search timings.
type SearchConfig struct {
	Strategy        string
	Threshold       float64
	DebounceDelay   time.Duration
	SuggestionLimit int
}

// UIConfig tunes the terminal browser.
type UIConfig struct {
	CarouselInterval time.Duration
	Locale           string
}

// AppConfig carries deployment metadata and the log level.
type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

// Load reads an optional .env file and the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:        util.EnvOrDefault("ESTATES_ADDR", ":8080"),
			StaticDir:   util.EnvOrDefault("ESTATES_STATIC_DIR", "web/dist"),
			CORSOrigins: util.EnvAsList("ESTATES_CORS_ORIGINS", []string{"*"}),
			RateLimit:   util.EnvAsFloat("ESTATES_RATE_LIMIT", 50),
			RateBurst:   util.EnvAsInt("ESTATES_RATE_BURST", 100),
		},
		Catalog: CatalogConfig{
			Path: util.EnvOrDefault("ESTATES_CATALOG", "data/projects.json"),
		},
		Search: SearchConfig{
			Strategy:        util.EnvOrDefault("ESTATES_SEARCH_STRATEGY", query.StrategyFuzzy),
			Threshold:       util.EnvAsFloat("ESTATES_SEARCH_THRESHOLD", query.DefaultThreshold),
			DebounceDelay:   util.EnvAsDuration("ESTATES_SEARCH_DEBOUNCE", debounce.DefaultDelay),
			SuggestionLimit: util.EnvAsInt("ESTATES_SUGGESTION_LIMIT", query.DefaultSuggestionLimit),
		},
		UI: UIConfig{
			CarouselInterval: util.EnvAsDuration("ESTATES_CAROUSEL_INTERVAL", debounce.DefaultInterval),
			Locale:           util.EnvOrDefault("ESTATES_LOCALE", format.DefaultLocale),
		},
		App: AppConfig{
			Environment: util.EnvOrDefault("APP_ENV", "development"),
			LogLevel:    util.EnvOrDefault("LOG_LEVEL", "info"),
			Version:     util.EnvOrDefault("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("ESTATES_ADDR is required")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("ESTATES_CATALOG is required")
	}
	if _, err := query.NewMatcher(c.Search.Strategy, c.Search.Threshold); err != nil {
		return fmt.Errorf("ESTATES_SEARCH_STRATEGY: %w", err)
	}
	if c.Search.DebounceDelay <= 0 {
		return fmt.Errorf("ESTATES_SEARCH_DEBOUNCE must be positive")
	}
	if c.Search.SuggestionLimit <= 0 {
		return fmt.Errorf("ESTATES_SUGGESTION_LIMIT must be positive")
	}
	if c.UI.CarouselInterval <= 0 {
		return fmt.Errorf("ESTATES_CAROUSEL_INTERVAL must be positive")
	}
	if c.Server.RateLimit < 0 || c.Server.RateBurst < 0 {
		return fmt.Errorf("rate limit settings must not be negative")
	}
	if _, err := format.NewFormatter(c.UI.Locale); err != nil {
		return fmt.Errorf("ESTATES_LOCALE: %w", err)
	}
	if _, err := ParseLogLevel(c.App.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps LOG_LEVEL values onto slog levels.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", level)
	}
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}
