package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/taxtools/cgtcalc/internal/ledger"
)

// Config holds all application configuration loaded from environment
// variables. CLI flags may override individual values.
type Config struct {
	BaseCurrency    string
	IncludeEquities bool
	IncludeOptions  bool
	IncludeFutures  bool
	IncludeFX       bool
	WatchInterval   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		BaseCurrency:    envOrDefault("BASE_CURRENCY", "GBP"),
		IncludeEquities: envOrDefaultBool("INCLUDE_EQUITIES", true),
		IncludeOptions:  envOrDefaultBool("INCLUDE_OPTIONS", true),
		IncludeFutures:  envOrDefaultBool("INCLUDE_FUTURES", true),
		IncludeFX:       envOrDefaultBool("INCLUDE_FX", true),
		WatchInterval:   envOrDefaultDuration("WATCH_INTERVAL", 30*time.Second),
	}
}

// TypeFilter translates the inclusion toggles into the engine's filter.
func (c Config) TypeFilter() ledger.TypeFilter {
	return ledger.TypeFilter{
		ledger.Equity:   c.IncludeEquities,
		ledger.Option:   c.IncludeOptions,
		ledger.Future:   c.IncludeFutures,
		ledger.Currency: c.IncludeFX,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("invalid boolean env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return b
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
